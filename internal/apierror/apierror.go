// Package apierror provides the error taxonomy shared by the HTTP surface and
// the repair tooling. Every error carries a machine-readable Kind and a human
// message; handlers map kinds to HTTP status codes and never leak internal
// details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation          Kind = "validation_error"
	KindCrossTenant         Kind = "cross_tenant_reference"
	KindNotFound            Kind = "not_found"
	KindReferentialConflict Kind = "referential_conflict"
	KindInternal            Kind = "internal"
)

// Error is the canonical error envelope, usable both as a Go error and as the
// JSON body of a 4xx/5xx response.
type Error struct {
	Kind   Kind              `json:"kind"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Detail) }

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// NewValidation wraps per-field validation failures.
func NewValidation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Detail: "Error de validacion", Fields: fields}
}

// Internal hides the cause behind a generic message; the original error stays
// in operator logs only.
func Internal() *Error {
	return &Error{Kind: KindInternal, Detail: "Error interno del servidor"}
}

// KindOf extracts the Kind from any error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
