package ledger

import (
	"fmt"
	"strings"
	"time"
)

// Time is a timestamp that always serializes to one textual form
// (RFC 3339, UTC, second precision) no matter which backend produced it.
// Firestore server timestamps, JSON backups and CSV rows all normalize
// through this type; a backend-native timestamp never travels past the
// store adapters.
type Time struct {
	t time.Time
}

// parseLayouts are the representations accepted on input. Output is always
// time.RFC3339.
var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Now returns the current instant, normalized.
func Now() Time {
	return FromTime(time.Now())
}

// FromTime normalizes a native time.Time.
func FromTime(t time.Time) Time {
	return Time{t: t.UTC().Truncate(time.Second)}
}

// ParseTime parses any of the accepted textual representations.
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}

	return Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Time) Time() time.Time { return t.t }

func (t Time) IsZero() bool { return t.t.IsZero() }

// String returns the canonical RFC 3339 form.
func (t Time) String() string {
	if t.t.IsZero() {
		return ""
	}

	return t.t.Format(time.RFC3339)
}

func (t Time) Equal(other Time) bool { return t.t.Equal(other.t) }

func (t Time) Before(other Time) bool { return t.t.Before(other.t) }

func (t Time) After(other Time) bool { return t.t.After(other.t) }

func (t Time) Compare(other Time) int { return t.t.Compare(other.t) }

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = Time{}
		return nil
	}

	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}
