// Package sentinel provides a const-compatible error type for sentinel errors.
package sentinel

// Compile-time check that Error implements the error interface.
var _ error = Error("")

// Error is an immutable error backed by a string constant. Unlike
// errors.New, which returns a pointer that has to live in a var, Error
// values can be declared as const, so they cannot be reassigned.
//
// Error is a comparable type, so the default == comparison used by
// errors.Is matches correctly through wrapped error chains.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}
