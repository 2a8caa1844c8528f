// Package models builds validated, normalized package and user documents
// from untrusted input.
package models

import (
	"net/url"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/document"
)

const (
	// ShortDescriptionLength is the maximum length of short_description in
	// characters; longer input is truncated.
	ShortDescriptionLength = 140
	// DateFormat is the layout of the stats.date timestamps (UTC).
	DateFormat = "2006-01-02 15:04:05"
)

var (
	PackageNamePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	UserNamePattern    = regexp.MustCompile(`^[A-Za-z0-9-_]+$`)
)

// DependencyTypes enumerates the accepted values of a dependency's type.
var DependencyTypes = []string{"required", "optional", "recommended"}

// FormatTime renders t the way stats timestamps are stored.
func FormatTime(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// String coerces a scalar into a string. Numbers and booleans are formatted;
// containers and null are rejected.
func String(field string, v any) (string, error) {
	s, ok := document.Stringify(v)
	if !ok {
		return "", apperr.WrongType(field, "string")
	}
	return s, nil
}

// StringList coerces a list element-wise into a list of strings.
func StringList(field string, v any) ([]any, error) {
	l, ok := v.([]any)
	if !ok {
		return nil, apperr.WrongType(field, "list of strings")
	}
	out := make([]any, len(l))
	for i, e := range l {
		s, ok := document.Stringify(e)
		if !ok {
			return nil, apperr.WrongType(field, "list of strings")
		}
		out[i] = s
	}
	return out, nil
}

// Mapping asserts v is a document.
func Mapping(field string, v any) (document.Doc, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, apperr.WrongType(field, "mapping")
	}
	return m, nil
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func ValidatePackageName(name string) error {
	if !PackageNamePattern.MatchString(name) {
		return apperr.BadName()
	}
	return nil
}

func ValidateUserName(nick string) error {
	if !UserNamePattern.MatchString(nick) {
		return apperr.BadUserName()
	}
	return nil
}

// Owners coerces and validates an owner list: non-empty, every entry a
// valid nickname.
func Owners(v any) ([]any, error) {
	owners, err := StringList("owners", v)
	if err != nil {
		return nil, err
	}
	if len(owners) == 0 {
		return nil, apperr.EmptyOwnerList()
	}
	for _, o := range owners {
		if err := ValidateUserName(o.(string)); err != nil {
			return nil, err
		}
	}
	return owners, nil
}

func ValidateDependencyType(t string) error {
	for _, dt := range DependencyTypes {
		if t == dt {
			return nil
		}
	}
	return apperr.WrongDependencyType()
}

// NormalizeURL validates an absolute http(s) URI and returns its canonical
// form: an empty path becomes "/" and the fragment is dropped.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" || u.Opaque != "" {
		return "", apperr.InvalidURI()
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apperr.InvalidURI()
	}
	if u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}
