// Package validation runs an ordered list of field validators over submitted form values.
//
// Each field is trimmed, checked, and escaped in declaration order. The result holds the
// sanitized values, parsed dates and every field error in the order they were found.
package validation

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type FieldKind int

const (
	Text FieldKind = iota
	Date
)

// extraEscapes bổ sung cho govalidator.Escape (chỉ escape & < > " ')
var extraEscapes = strings.NewReplacer("/", "&#x2F;", `\`, "&#x5C;", "`", "&#96;")

// dateLayouts are the ISO-8601 shapes accepted for date fields.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Field declares one form input.
type Field struct {
	Name     string
	Kind     FieldKind
	Message  string // required / format failure
	Required bool

	MaxLength  int // runes, 0 = unlimited
	MaxMessage string
}

// Schema is the ordered field list for one form.
type Schema []Field

// Values is satisfied by url.Values.
type Values interface {
	Get(key string) string
}

// FromRequest parses an urlencoded POST body.
func FromRequest(r *http.Request) (url.Values, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

// FieldError is one failed field.
type FieldError struct {
	Field   string
	Message string
	Value   string
}

// Result of running a Schema.
type Result struct {
	values map[string]string
	dates  map[string]*time.Time
	Errors []FieldError
}

// Run applies every field validator in order. It never stops at the first failure.
func (s Schema) Run(form Values) *Result {
	res := &Result{
		values: make(map[string]string, len(s)),
		dates:  make(map[string]*time.Time),
	}

	for _, f := range s {
		raw := govalidator.Trim(form.Get(f.Name), "")

		switch f.Kind {
		case Date:
			res.runDate(f, raw)
		default:
			res.runText(f, raw)
		}
	}

	return res
}

func (r *Result) runText(f Field, value string) {
	rules := make([]validation.Rule, 0, 2)
	if f.Required {
		rules = append(rules, validation.Required.Error(f.Message))
	}
	if f.MaxLength > 0 {
		msg := f.MaxMessage
		if msg == "" {
			msg = f.Message
		}
		rules = append(rules, validation.RuneLength(0, f.MaxLength).Error(msg))
	}

	if err := validation.Validate(value, rules...); err != nil {
		r.Add(f.Name, err.Error(), value)
	}

	// escape chạy sau check, giống thứ tự trim -> length -> escape
	r.values[f.Name] = Escape(value)
}

// Escape applies the same HTML escaping text fields get before they are stored.
func Escape(value string) string {
	return extraEscapes.Replace(govalidator.Escape(value))
}

// SearchTerm trims and escapes a search query so it compares against stored text.
func SearchTerm(raw string) string {
	return Escape(govalidator.Trim(raw, ""))
}

func (r *Result) runDate(f Field, value string) {
	r.values[f.Name] = value
	if value == "" {
		r.dates[f.Name] = nil
		return
	}

	var parsed time.Time
	err := validation.Validate(value, validation.By(func(interface{}) error {
		t, ok := ParseDate(value)
		if !ok {
			return validation.NewError("validation_iso8601", f.Message)
		}
		parsed = t
		return nil
	}))
	if err != nil {
		r.Add(f.Name, err.Error(), value)
		return
	}

	r.dates[f.Name] = &parsed
}

// ParseDate parses an ISO-8601 calendar date or timestamp.
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Add appends a field error. Used for checks that need the store.
func (r *Result) Add(field, message, value string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message, Value: value})
}

func (r *Result) Valid() bool { return len(r.Errors) == 0 }

// Value returns the trimmed, escaped value of a text field.
func (r *Result) Value(name string) string { return r.values[name] }

// Date returns the parsed date, nil when the field was empty or invalid.
func (r *Result) Date(name string) *time.Time { return r.dates[name] }

// ErrorMap keys every error by "<field>_error" for the form template.
// A later error on the same field replaces an earlier one.
func (r *Result) ErrorMap() map[string]FieldError {
	out := make(map[string]FieldError, len(r.Errors))
	for _, fe := range r.Errors {
		out[fe.Field+"_error"] = fe
	}
	return out
}
