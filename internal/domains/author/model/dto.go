package model

import (
	"strings"
	"time"

	"library-catalog/internal/shared/validation"
)

// Sort keys accepted by the author list
const (
	SortNameAsc  = "name_asc"
	SortNameDesc = "name_desc"
)

// AuthorFilter là tham số cho List
type AuthorFilter struct {
	Search string
	Sort   string
}

// ParseSort normalises a query value; unknown keys fall back to name_asc.
func ParseSort(s string) string {
	switch strings.TrimSpace(s) {
	case SortNameDesc:
		return SortNameDesc
	default:
		return SortNameAsc
	}
}

// FormSchema is the validation chain for the author form.
var FormSchema = validation.Schema{
	{
		Name: "first_name", Kind: validation.Text, Required: true,
		Message:   "First name must be specified.",
		MaxLength: MaxNameLength, MaxMessage: "First name must be at most 100 characters.",
	},
	{
		Name: "family_name", Kind: validation.Text, Required: true,
		Message:   "Family name must be specified.",
		MaxLength: MaxNameLength, MaxMessage: "Family name must be at most 100 characters.",
	},
	{Name: "date_of_birth", Kind: validation.Date, Message: "Invalid date of birth"},
	{Name: "date_of_death", Kind: validation.Date, Message: "Invalid date of death"},
}

// AuthorForm holds the sanitized author form values.
type AuthorForm struct {
	FirstName   string
	FamilyName  string
	DateOfBirth *time.Time
	DateOfDeath *time.Time

	// raw date input, echoed back when the form is re-rendered
	DateOfBirthInput string
	DateOfDeathInput string
}

// NewAuthorForm reads a validated result.
func NewAuthorForm(res *validation.Result) AuthorForm {
	return AuthorForm{
		FirstName:        res.Value("first_name"),
		FamilyName:       res.Value("family_name"),
		DateOfBirth:      res.Date("date_of_birth"),
		DateOfDeath:      res.Date("date_of_death"),
		DateOfBirthInput: res.Value("date_of_birth"),
		DateOfDeathInput: res.Value("date_of_death"),
	}
}

// ToAuthor builds the entity; the id is set by the caller.
func (f AuthorForm) ToAuthor() *Author {
	return &Author{
		FirstName:   f.FirstName,
		FamilyName:  f.FamilyName,
		DateOfBirth: f.DateOfBirth,
		DateOfDeath: f.DateOfDeath,
	}
}
