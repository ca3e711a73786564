//go:build property
// +build property

package validation

import (
	"html"
	"net/url"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPipelineProperties(t *testing.T) {
	schema := Schema{{Name: "title", Kind: Text, Required: true, Message: "Title must not be empty."}}
	properties := gopter.NewProperties(nil)

	// Property: sanitized output never contains raw markup characters
	properties.Property("escaped output has no markup", prop.ForAll(
		func(s string) bool {
			v := schema.Run(url.Values{"title": {s}}).Value("title")
			return !strings.ContainsAny(v, "<>\"'")
		},
		gen.AnyString(),
	))

	// Property: unescaping the stored value gives back the trimmed input
	properties.Property("escape round-trips through unescape", prop.ForAll(
		func(s string) bool {
			v := schema.Run(url.Values{"title": {s}}).Value("title")
			return html.UnescapeString(v) == strings.TrimSpace(s)
		},
		gen.AlphaString(),
	))

	// Property: blank input always fails, non-blank alphanumeric input always passes
	properties.Property("required iff blank", prop.ForAll(
		func(s string, pad int) bool {
			in := strings.Repeat(" ", pad) + s + strings.Repeat(" ", pad)
			res := schema.Run(url.Values{"title": {in}})
			return res.Valid() == (s != "")
		},
		gen.AlphaString(),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}
