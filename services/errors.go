package services

import (
	"errors"
	"fmt"
)

// Domain error codes. Controllers map these to HTTP statuses; everything the
// workflow core can reject with is one of these.
const (
	CodeOrderNotFound          = "ORDER_NOT_FOUND"
	CodeVersionNotFound        = "VERSION_NOT_FOUND"
	CodePermissionDenied       = "PERMISSION_DENIED"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeFileValidation         = "FILE_VALIDATION_ERROR"
	CodeStorageWrite           = "STORAGE_WRITE_ERROR"
	CodeValidation             = "VALIDATION_ERROR"
	CodeDatabase               = "DATABASE_ERROR"
)

// DomainError is a business-rule or infrastructure failure with a stable
// discriminator code. Business rejections (permission, transition, file
// validation) are expected conditions and are never logged as failures.
type DomainError struct {
	Code    string
	Message string
	Err     error // wrapped cause, set for infrastructure failures
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the domain error code from err, or CodeDatabase when the
// error is not a DomainError (unexpected data-store failures).
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeDatabase
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

func errOrderNotFound(orderID uint) *DomainError {
	return &DomainError{Code: CodeOrderNotFound, Message: fmt.Sprintf("order %d not found", orderID)}
}

func errVersionNotFound(versionID uint) *DomainError {
	return &DomainError{Code: CodeVersionNotFound, Message: fmt.Sprintf("artwork version %d not found", versionID)}
}

func errPermissionDenied(message string) *DomainError {
	return &DomainError{Code: CodePermissionDenied, Message: message}
}

func errInvalidTransition(message string) *DomainError {
	return &DomainError{Code: CodeInvalidTransition, Message: message}
}

func errConcurrentModification(orderID uint) *DomainError {
	return &DomainError{
		Code:    CodeConcurrentModification,
		Message: fmt.Sprintf("order %d was modified concurrently, please retry", orderID),
	}
}

func errValidation(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

func errStorageWrite(message string, cause error) *DomainError {
	return &DomainError{Code: CodeStorageWrite, Message: message, Err: cause}
}

func errDatabase(cause error) *DomainError {
	return &DomainError{Code: CodeDatabase, Message: "unexpected database error", Err: cause}
}
