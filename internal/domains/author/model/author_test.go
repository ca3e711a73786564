package model

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthor_Name(t *testing.T) {
	assert.Equal(t, "Austen, Jane", (&Author{FirstName: "Jane", FamilyName: "Austen"}).Name())
	assert.Equal(t, "", (&Author{FirstName: "Jane"}).Name())
	assert.Equal(t, "", (&Author{FamilyName: "Austen"}).Name())

	var nilAuthor *Author
	assert.Equal(t, "", nilAuthor.Name())
}

func TestAuthor_URL(t *testing.T) {
	id := uuid.MustParse("0b8f6a3e-7a43-4d3c-8a0a-5a8e7d2b1c44")
	assert.Equal(t, "/catalog/author/0b8f6a3e-7a43-4d3c-8a0a-5a8e7d2b1c44", (&Author{ID: id}).URL())
}

func TestAuthor_Lifespan(t *testing.T) {
	born := time.Date(1775, 12, 16, 0, 0, 0, 0, time.UTC)
	died := time.Date(1817, 7, 18, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Dec 16, 1775 - Jul 18, 1817", (&Author{DateOfBirth: &born, DateOfDeath: &died}).Lifespan())
	assert.Equal(t, "Dec 16, 1775 - ", (&Author{DateOfBirth: &born}).Lifespan())
	assert.Equal(t, " - ", (&Author{}).Lifespan())
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortNameDesc, ParseSort("name_desc"))
	assert.Equal(t, SortNameAsc, ParseSort("name_asc"))
	assert.Equal(t, SortNameAsc, ParseSort("bogus"))
	assert.Equal(t, SortNameAsc, ParseSort(""))
}

func TestFormSchema(t *testing.T) {
	res := FormSchema.Run(url.Values{
		"first_name":    {strings.Repeat("a", MaxNameLength+1)},
		"family_name":   {" "},
		"date_of_birth": {"1775-12-16"},
		"date_of_death": {"yesterday"},
	})

	require.False(t, res.Valid())
	errs := res.ErrorMap()
	assert.Equal(t, "First name must be at most 100 characters.", errs["first_name_error"].Message)
	assert.Equal(t, "Family name must be specified.", errs["family_name_error"].Message)
	assert.Equal(t, "Invalid date of death", errs["date_of_death_error"].Message)
	assert.NotContains(t, errs, "date_of_birth_error")

	form := NewAuthorForm(res)
	require.NotNil(t, form.DateOfBirth)
	assert.Equal(t, 1775, form.DateOfBirth.Year())
	assert.Nil(t, form.DateOfDeath)
	assert.Equal(t, "yesterday", form.DateOfDeathInput)
}
