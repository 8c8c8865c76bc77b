package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// StrPtr is a simple helper to get a pointer to a string literal.
func StrPtr(s string) *string {
	return &s
}

func Val[T any](p *T) T {
	if p != nil {
		return *p
	}
	var zero T
	return zero
}

// Truncate cuts s to max runes and appends "..." when it was longer.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
