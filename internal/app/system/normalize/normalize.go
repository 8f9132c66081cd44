// internal/app/system/normalize/normalize.go
//
// Package normalize trims and canonicalizes raw form and query values.
package normalize

import "strings"

// Email trims and lowercases.
func Email(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Name trims and keeps case.
func Name(s string) string { return strings.TrimSpace(s) }

// Token trims and lowercases an enum value such as a role, status,
// priority, or action.
func Token(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// QueryParam trims and keeps case.
func QueryParam(s string) string { return strings.TrimSpace(s) }

// FilterID trims an id filter; "all" (any case) means no filter.
func FilterID(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// FilterToken trims a status filter and maps "all" to "". Case is kept, so
// only the exact stored value matches.
func FilterToken(s string) string {
	s = strings.TrimSpace(s)
	if s == "all" {
		return ""
	}
	return s
}
