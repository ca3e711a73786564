package validation

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	{Name: "title", Kind: Text, Required: true, Message: "Title must not be empty."},
	{Name: "first_name", Kind: Text, Required: true, Message: "First name must be specified.",
		MaxLength: 5, MaxMessage: "First name must be at most 5 characters."},
	{Name: "publication_date", Kind: Date, Message: "Invalid date of publication"},
}

func TestRun_TrimsAndEscapes(t *testing.T) {
	form := url.Values{
		"title":      {"  <b>Emma</b> & co  "},
		"first_name": {" Jane "},
	}

	res := testSchema.Run(form)

	require.True(t, res.Valid())
	assert.Equal(t, "&lt;b&gt;Emma&lt;&#x2F;b&gt; &amp; co", res.Value("title"))
	assert.Equal(t, "Jane", res.Value("first_name"))
	assert.Nil(t, res.Date("publication_date"))
}

func TestRun_EscapesSlashesAndBackticks(t *testing.T) {
	res := testSchema.Run(url.Values{"title": {"a/b\\c`d"}, "first_name": {"x"}})

	assert.Equal(t, "a&#x2F;b&#x5C;c&#96;d", res.Value("title"))
}

func TestSearchTerm_MatchesStoredValue(t *testing.T) {
	res := testSchema.Run(url.Values{"title": {"The Wise Man's Fear"}, "first_name": {"x"}})

	assert.Equal(t, "Man&#39;s", SearchTerm("  Man's "))
	assert.Contains(t, res.Value("title"), SearchTerm("Man's"))
	assert.Equal(t, res.Value("title"), Escape("The Wise Man's Fear"))
	assert.Empty(t, SearchTerm("   "))
}

func TestRun_CollectsEveryErrorInOrder(t *testing.T) {
	form := url.Values{
		"title":            {"   "},
		"first_name":       {"Alexandra"},
		"publication_date": {"not-a-date"},
	}

	res := testSchema.Run(form)

	require.False(t, res.Valid())
	require.Len(t, res.Errors, 3)
	assert.Equal(t, "title", res.Errors[0].Field)
	assert.Equal(t, "Title must not be empty.", res.Errors[0].Message)
	assert.Equal(t, "first_name", res.Errors[1].Field)
	assert.Equal(t, "First name must be at most 5 characters.", res.Errors[1].Message)
	assert.Equal(t, "publication_date", res.Errors[2].Field)
	assert.Equal(t, "Invalid date of publication", res.Errors[2].Message)
	assert.Equal(t, "not-a-date", res.Errors[2].Value)
}

func TestRun_ParsesISODate(t *testing.T) {
	cases := map[string]time.Time{
		"2020-01-01":           time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		"1999-05-05T10:30:00Z": time.Date(1999, 5, 5, 10, 30, 0, 0, time.UTC),
	}

	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			res := testSchema.Run(url.Values{"title": {"x"}, "first_name": {"y"}, "publication_date": {in}})
			require.True(t, res.Valid())
			require.NotNil(t, res.Date("publication_date"))
			assert.True(t, want.Equal(*res.Date("publication_date")))
		})
	}
}

func TestErrorMap_VisitsEveryError(t *testing.T) {
	res := testSchema.Run(url.Values{"publication_date": {"31/12/2020"}})

	m := res.ErrorMap()

	assert.Len(t, m, 3)
	assert.Contains(t, m, "title_error")
	assert.Contains(t, m, "first_name_error")
	assert.Contains(t, m, "publication_date_error")
}

func TestResult_Add(t *testing.T) {
	res := testSchema.Run(url.Values{"title": {"Emma"}, "first_name": {"Jane"}})
	require.True(t, res.Valid())

	res.Add("author", "Selected author does not exist.", "nope")

	assert.False(t, res.Valid())
	assert.Equal(t, "Selected author does not exist.", res.ErrorMap()["author_error"].Message)
}
