// Package apperr defines the typed failures surfaced to API clients. Every
// validation failure carries its own kind and message and maps to a 4xx
// status; anything else is reported as Internal.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind names a failure class. It is sent to clients in the "error" field.
type Kind string

const (
	KindBadRequest         Kind = "BadRequest"
	KindConflict           Kind = "Conflict"
	KindNotFound           Kind = "NotFound"
	KindForbidden          Kind = "Forbidden"
	KindUnauthorized       Kind = "Unauthorized"
	KindMissingField       Kind = "MissingField"
	KindWrongType          Kind = "WrongType"
	KindBadName            Kind = "BadName"
	KindBadUserName        Kind = "BadUserName"
	KindBadUser            Kind = "BadUser"
	KindEmptyOwnerList     Kind = "EmptyOwnerList"
	KindPartialVersion     Kind = "PartialVersion"
	KindInvalidVersion     Kind = "InvalidVersion"
	KindInvalidRangeSpec   Kind = "InvalidRangeSpec"
	KindWrongDepType       Kind = "WrongDependencyType"
	KindInvalidURI         Kind = "InvalidURI"
	KindNoValues           Kind = "NoValues"
	KindTooManyValues      Kind = "TooManyValues"
	KindUnknownSearchParam Kind = "UnknownSearchParam"
	KindBadValue           Kind = "BadValue"
	KindInternal           Kind = "Internal"
)

// Error is a client-facing failure.
type Error struct {
	Kind    Kind
	Message string
	Status  int
}

func (e *Error) Error() string { return e.Message }

// Is matches another *Error of the same kind, so errors.Is(err,
// apperr.PartialVersion()) works regardless of message arguments.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newErr(kind Kind, status int, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Message: msg, Status: status}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == k
}

func BadRequest() *Error {
	return newErr(KindBadRequest, http.StatusBadRequest, "Bad request.")
}

// Conflict reports a unique name/nickname/email collision.
func Conflict(msg string) *Error {
	return newErr(KindConflict, http.StatusConflict, "%s", msg)
}

func NotFound() *Error {
	return newErr(KindNotFound, http.StatusNotFound, "Resource not found.")
}

func Forbidden() *Error {
	return newErr(KindForbidden, http.StatusForbidden, "Forbidden.")
}

// Unauthorized is returned for failed log-ins and anonymous access to
// resources that need a principal.
func Unauthorized(msg string) *Error {
	return newErr(KindUnauthorized, http.StatusUnauthorized, "%s", msg)
}

// Required reports an empty mandatory registration field with its own
// message ("Nickname isn't specified.").
func Required(msg string) *Error {
	return newErr(KindMissingField, http.StatusBadRequest, "%s", msg)
}

func MissingField(key string) *Error {
	return newErr(KindMissingField, http.StatusBadRequest, "Missing field: %s.", key)
}

func WrongType(field, expected string) *Error {
	return newErr(KindWrongType, http.StatusBadRequest, `Wrong value for param "%s" given: expected %s!`, field, expected)
}

func BadName() *Error {
	return newErr(KindBadName, http.StatusBadRequest, "The name contains illegal characters.")
}

func BadUserName() *Error {
	return newErr(KindBadUserName, http.StatusBadRequest, "The nickname contains illegal characters.")
}

func EmptyOwnerList() *Error {
	return newErr(KindEmptyOwnerList, http.StatusBadRequest, "The list of owners is expected not to be empty.")
}

func PartialVersion() *Error {
	return newErr(KindPartialVersion, http.StatusBadRequest, "Version data you provided was partial.")
}

func InvalidVersion(literal string) *Error {
	return newErr(KindInvalidVersion, http.StatusBadRequest, "Version string lacks a numerical component: '%s'", literal)
}

func InvalidRangeSpec(literal string) *Error {
	return newErr(KindInvalidRangeSpec, http.StatusBadRequest, "Invalid requirement specification: '%s'", literal)
}

func WrongDependencyType() *Error {
	return newErr(KindWrongDepType, http.StatusBadRequest, "Unknown dependency type.")
}

func InvalidURI() *Error {
	return newErr(KindInvalidURI, http.StatusBadRequest, "Invalid URI given.")
}

func NoValues(param string) *Error {
	return newErr(KindNoValues, http.StatusBadRequest, "No values given for %s.", param)
}

func TooManyValues(expected, got int) *Error {
	return newErr(KindTooManyValues, http.StatusBadRequest, "Too many values (%d expected, got %d).", expected, got)
}

func UnknownSearchParam(name string) *Error {
	return newErr(KindUnknownSearchParam, http.StatusBadRequest, "No such search param: %s.", name)
}

func BadValue(key string) *Error {
	return newErr(KindBadValue, http.StatusBadRequest, "Bad value %s in the data you provided.", key)
}

func Internal() *Error {
	return newErr(KindInternal, http.StatusInternalServerError, "Internal error.")
}

// From returns err as an *Error, mapping anything untyped to Internal.
func From(err error) *Error {
	if e, ok := As(err); ok {
		return e
	}
	return Internal()
}

// BadUser replaces field level validation failures of a user created
// through the users collection.
func BadUser() *Error {
	return newErr(KindBadUser, http.StatusBadRequest, "This user data you provided contained an error.")
}
