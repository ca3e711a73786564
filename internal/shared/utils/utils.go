package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DisplayDateLayout là format ngày hiển thị, kiểu "Jan 2, 2006"
const DisplayDateLayout = "Jan 2, 2006"

// ParseUUID parses a path id. ok is false for empty or malformed input.
func ParseUUID(s string) (uuid.UUID, bool) {
	if s == "" {
		return uuid.Nil, false
	}
	uid, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return uid, true
}

// FormatDate renders a date for display; nil gives "".
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DisplayDateLayout)
}

// ISODate renders a date as yyyy-mm-dd for <input type="date">.
func ISODate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// EscapeLike escapes LIKE/ILIKE wildcards so search text matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
