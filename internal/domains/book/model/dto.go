package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"library-catalog/internal/shared/utils"
	"library-catalog/internal/shared/validation"
)

// Sort keys accepted by the book list
const (
	SortTitleAsc      = "title_asc"
	SortTitleDesc     = "title_desc"
	SortPublishedAsc  = "published_asc"
	SortPublishedDesc = "published_desc"
)

// BookFilter là tham số cho List
type BookFilter struct {
	Search string
	Sort   string
}

// ParseSort normalises a query value; unknown keys fall back to title_asc.
func ParseSort(s string) string {
	switch s = strings.TrimSpace(s); s {
	case SortTitleDesc, SortPublishedAsc, SortPublishedDesc:
		return s
	default:
		return SortTitleAsc
	}
}

// AuthorMissingMessage is the form error for an author id that does not resolve.
const AuthorMissingMessage = "Selected author does not exist."

// FormSchema is the validation chain for the book form.
var FormSchema = validation.Schema{
	{Name: "title", Kind: validation.Text, Required: true, Message: "Title must not be empty."},
	{Name: "author", Kind: validation.Text, Required: true, Message: "Author must not be empty."},
	{Name: "summary", Kind: validation.Text, Required: true, Message: "Summary must not be empty."},
	{Name: "publication_date", Kind: validation.Date, Message: "Invalid date of publication"},
	{Name: "isbn", Kind: validation.Text, Required: true, Message: "ISBN must not be empty"},
}

// BookForm holds the sanitized book form values.
type BookForm struct {
	Title           string
	AuthorInput     string
	AuthorID        uuid.UUID
	Summary         string
	ISBN            string
	PublicationDate *time.Time

	PublicationDateInput string
}

// NewBookForm reads a validated result. AuthorID is uuid.Nil when the input is
// not a uuid; the service reports that as a field error.
func NewBookForm(res *validation.Result) BookForm {
	f := BookForm{
		Title:                res.Value("title"),
		AuthorInput:          res.Value("author"),
		Summary:              res.Value("summary"),
		ISBN:                 res.Value("isbn"),
		PublicationDate:      res.Date("publication_date"),
		PublicationDateInput: res.Value("publication_date"),
	}
	if id, ok := utils.ParseUUID(f.AuthorInput); ok {
		f.AuthorID = id
	}
	return f
}

// ToBook builds the entity; the id is set by the caller.
func (f BookForm) ToBook() *Book {
	return &Book{
		Title:           f.Title,
		AuthorID:        f.AuthorID,
		Summary:         f.Summary,
		ISBN:            f.ISBN,
		PublicationDate: f.PublicationDate,
	}
}
