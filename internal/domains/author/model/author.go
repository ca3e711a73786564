package model

import (
	"time"

	"github.com/google/uuid"

	"library-catalog/internal/shared/utils"
)

// MaxNameLength giới hạn first_name / family_name
const MaxNameLength = 100

type Author struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	FirstName   string     `json:"first_name" db:"first_name"`
	FamilyName  string     `json:"family_name" db:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty" db:"date_of_death"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Name is "family, first", or "" when either half is missing.
func (a *Author) Name() string {
	if a == nil || a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// URL of the author detail page.
func (a *Author) URL() string {
	if a == nil {
		return ""
	}
	return "/catalog/author/" + a.ID.String()
}

// Lifespan renders "<birth> - <death>", each side empty when unknown.
func (a *Author) Lifespan() string {
	if a == nil {
		return ""
	}
	return utils.FormatDate(a.DateOfBirth) + " - " + utils.FormatDate(a.DateOfDeath)
}
