package httperr

import "errors"

// Kind classifies an expected, user facing failure. Anything that is not a
// BusinessError is treated as an internal failure.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindValidation
	KindBusiness
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindBusiness:
		return "business"
	}
	return "internal"
}

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

// ErrBusiness reports a request that is well formed but breaks a business rule.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindBusiness, Code: code}
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrUnauthenticated() error {
	return BusinessError{Kind: KindUnauthenticated, Code: "unauthenticated"}
}

func ErrForbidden() error {
	return BusinessError{Kind: KindForbidden, Code: "forbidden"}
}

// ErrRoleNotAllowed is a Forbidden for sessions whose role cannot use the
// operation at all, regardless of ownership.
func ErrRoleNotAllowed() error {
	return BusinessError{Kind: KindForbidden, Code: "role_not_allowed"}
}

// ErrNotFound produces "<entity>_not_found".
func ErrNotFound(entity string) error {
	return BusinessError{Kind: KindNotFound, Code: entity + "_not_found"}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

// ErrSlotTaken is returned both by the conflict pre-check and when the
// storage unique index rejects a second booking for the same slot.
var ErrSlotTaken = ErrConflict("slot_taken")

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}
