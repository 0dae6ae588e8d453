package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// Returns nil on an empty or all whitespace string
func StringOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// TrimPtr applies StringOrNil to an optional input, so "" and "   " become nil.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return StringOrNil(*s)
}
