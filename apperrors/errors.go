// Package apperrors defines the error taxonomy shared by the service and
// security layers. Handlers translate these kinds into HTTP status codes;
// nothing below the handler layer knows about HTTP.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindNotFound - a resource id has no matching record (404).
	KindNotFound Kind = iota
	// KindInvalidArgument - null/blank/out-of-range input or a business
	// rule violation such as a past-dated appointment (400).
	KindInvalidArgument
	// KindIntegrity - a referenced linked record is absent, signaling
	// corrupted account state rather than a legitimate denial. Mapped to
	// 400 at the boundary but kept distinct so callers can tell an
	// authorization "no" from broken data.
	KindIntegrity
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(resource string, id any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found with ID: %v", resource, id)}
}

func NotFoundMsg(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func Integrity(format string, args ...any) error {
	return &Error{Kind: KindIntegrity, Message: fmt.Sprintf(format, args...)}
}

func kindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func IsNotFound(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNotFound
}

func IsInvalidArgument(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindInvalidArgument
}

func IsIntegrity(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindIntegrity
}
