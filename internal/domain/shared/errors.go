package shared

import "errors"

// DomainError represents a domain-level error. Every failure mode of the
// billing core maps to exactly one DomainError value identified by its
// numeric code; errors carry no payload beyond code, reason and message.
type DomainError struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code. It lets
// callers use errors.Is against the sentinel values in the billing package.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return e.Code == de.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code int, reason, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Reason:  reason,
		Message: message,
	}
}

// CodeOf extracts the numeric code from err, or 0 if err is not a DomainError.
func CodeOf(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return 0
}
