package garage

import (
	"strings"

	"evexpert-backend/internal/domain"
)

// NormalizeURL returns the comparison key for a listing URL: everything from
// the first '?' is dropped and the rest is lower-cased. nil or empty gives "".
// The key is only used for equality checks and is not a valid URL.
func NormalizeURL(u *string) string {
	if u == nil || *u == "" {
		return ""
	}
	base, _, _ := strings.Cut(*u, "?")
	return strings.ToLower(base)
}

// identityKey prefers the link field and falls back to url.
func identityKey(l *domain.Listing) string {
	if k := NormalizeURL(l.Link); k != "" {
		return k
	}
	return NormalizeURL(l.URL)
}

func floatOr0(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func int64Or0(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func timestampOr0(l *domain.Listing) int64 {
	if l.Timestamp == nil {
		return 0
	}
	return int64(*l.Timestamp)
}
