package providers

import "regexp"

var (
	yearOnly      = regexp.MustCompile(`^\d{4}$`)
	yearMonth     = regexp.MustCompile(`^\d{4}-\d{2}$`)
	yearMonthDay  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// NormalizeDate pads a partial upstream date to YYYY-MM-DD, per the
// normalization contract in §4.1 and the date-normalization law in §8:
// normalize("1977") = "1977-01-01", normalize("1977-06") = "1977-06-01",
// normalize("1977-06-12") = "1977-06-12", normalize(null) = null,
// normalize("") = null.
func NormalizeDate(raw *string) *string {
	if raw == nil || *raw == "" {
		return nil
	}

	switch {
	case yearOnly.MatchString(*raw):
		out := *raw + "-01-01"
		return &out
	case yearMonth.MatchString(*raw):
		out := *raw + "-01"
		return &out
	case yearMonthDay.MatchString(*raw):
		out := *raw
		return &out
	default:
		// Already some other shape (or malformed); pass through unchanged
		// rather than guess at upstream intent.
		out := *raw
		return &out
	}
}
