package chain

import "fmt"

// Error is the typed failure every public contract operation returns. The
// numeric codes are part of the public interface and match the reference
// deployment, so external callers can pattern-match on them.
type Error struct {
	Contract string
	Code     uint
	Kind     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (err u%d)", e.Contract, e.Kind, e.Code)
}

// NewError defines a contract error. Contracts declare these once as package
// level sentinels; operations return them unwrapped so errors.Is works by
// identity.
func NewError(contract string, code uint, kind string) *Error {
	return &Error{Contract: contract, Code: code, Kind: kind}
}

// CodeOf extracts the public error code, or 0 for unknown errors.
func CodeOf(err error) uint {
	if ce, ok := err.(*Error); ok {
		return ce.Code
	}
	return 0
}

// KindOf extracts the public error kind, or "" for unknown errors.
func KindOf(err error) string {
	if ce, ok := err.(*Error); ok {
		return ce.Kind
	}
	return ""
}
