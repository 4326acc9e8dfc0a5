package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP layer. Handlers and services return
// *Error values; the central error handler maps kinds to status codes.
type Kind int

const (
	Unknown Kind = iota
	// Validation: malformed or missing input. Raised before any writes.
	Validation
	// NotFound: resource absent or owned by another tenant. The two cases
	// are deliberately indistinguishable.
	NotFound
	// CrossTenant: authenticated caller targeting a foreign tenant.
	CrossTenant
	// Forbidden: right tenant, insufficient role or entitlement.
	Forbidden
	// InvalidPlan: unknown subscription plan id.
	InvalidPlan
	// Conflict: storage uniqueness violation surfaced after retries.
	Conflict
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrCrossTenant is returned by the tenancy guard. Its message never reveals
// whether the target resource exists.
var ErrCrossTenant = New(CrossTenant, "cross-tenant access denied")

// KindOf returns the Kind of err, or Unknown for untyped errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
