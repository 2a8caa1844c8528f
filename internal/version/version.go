// Package version parses package version literals and dependency range
// specifiers and picks the latest version of a package.
package version

import (
	"errors"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/hel-repo/hel/internal/apperr"
)

// ErrNoVersions is returned by Latest for a package without versions.
// Packages always have at least one version after creation, so this signals
// a broken document rather than bad input.
var ErrNoVersions = errors.New("package has no versions")

// Normalize returns the canonical MAJOR.MINOR.PATCH form of literal, filling
// missing components with zeros ("1" -> "1.0.0").
func Normalize(literal string) (string, error) {
	v, err := semver.NewVersion(literal)
	if err != nil {
		return "", apperr.InvalidVersion(literal)
	}
	return v.String(), nil
}

// ValidateRange checks a dependency range specifier such as "*", "1.*",
// "^1.2", "~1.1", "1.2.3" or ">=1.0 <2.0".
func ValidateRange(literal string) error {
	if _, err := semver.NewConstraint(literal); err != nil {
		return apperr.InvalidRangeSpec(literal)
	}
	return nil
}

// Satisfies reports whether version v is matched by the range spec r.
// Unparseable input never matches.
func Satisfies(v, r string) bool {
	ver, err := semver.NewVersion(v)
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(r)
	if err != nil {
		return false
	}
	return c.Check(ver)
}

// Latest returns the maximum key of versions under semantic version ordering.
// Keys that do not parse are ignored.
func Latest[V any](versions map[string]V) (string, error) {
	if len(versions) == 0 {
		return "", ErrNoVersions
	}
	parsed := make([]*semver.Version, 0, len(versions))
	keys := make(map[*semver.Version]string, len(versions))
	for k := range versions {
		v, err := semver.NewVersion(k)
		if err != nil {
			continue
		}
		parsed = append(parsed, v)
		keys[v] = k
	}
	if len(parsed) == 0 {
		return "", ErrNoVersions
	}
	sort.Sort(semver.Collection(parsed))
	return keys[parsed[len(parsed)-1]], nil
}
