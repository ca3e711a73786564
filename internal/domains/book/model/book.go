package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	authorModel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/shared/utils"
)

// Book is a catalog record. Author is filled in at read time from AuthorID and stays
// nil when the referenced author no longer exists.
type Book struct {
	ID              uuid.UUID           `json:"id" db:"id"`
	Title           string              `json:"title" db:"title"`
	AuthorID        uuid.UUID           `json:"author_id" db:"author_id"`
	Author          *authorModel.Author `json:"author,omitempty" db:"-"`
	Summary         string              `json:"summary" db:"summary"`
	ISBN            string              `json:"isbn" db:"isbn"`
	PublicationDate *time.Time          `json:"publication_date,omitempty" db:"publication_date"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}

// URL of the book detail page.
func (b *Book) URL() string {
	if b == nil {
		return ""
	}
	return "/catalog/book/" + b.ID.String()
}

// PublicationDateFormatted is "" when the date is unknown.
func (b *Book) PublicationDateFormatted() string {
	if b == nil {
		return ""
	}
	return utils.FormatDate(b.PublicationDate)
}

// ISBNKey folds an ISBN for case-insensitive comparison.
func ISBNKey(isbn string) string {
	return cases.Fold().String(isbn)
}
