package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Status describes the outcome of a failed operation in terms the REST
// layer can translate into a response.
type Status struct {
	Code    int
	Message string
	Details string
}

// APIStatus is implemented by errors that carry a Status.
type APIStatus interface {
	Status() Status
}

// StatusError is the error type produced by the service layer for all
// failures that map to a specific response status.
type StatusError struct {
	ErrStatus Status
}

var _ error = (*StatusError)(nil)
var _ APIStatus = (*StatusError)(nil)

func (e *StatusError) Error() string {
	if e.ErrStatus.Details != "" {
		return fmt.Sprintf("%s: %s", e.ErrStatus.Message, e.ErrStatus.Details)
	}

	return e.ErrStatus.Message
}

func (e *StatusError) Status() Status {
	return e.ErrStatus
}

func NewBadRequest(details string) *StatusError {
	return newStatusError(http.StatusBadRequest, "request could not be processed", details)
}

func NewUnauthorized(details string) *StatusError {
	return newStatusError(http.StatusUnauthorized, "authorization required", details)
}

func NewForbidden(details string) *StatusError {
	return newStatusError(http.StatusForbidden, "operation not permitted", details)
}

func NewNotFound(details string) *StatusError {
	return newStatusError(http.StatusNotFound, "resource could not be found", details)
}

func NewConflict(details string) *StatusError {
	return newStatusError(http.StatusConflict, "resource is in a conflicting state", details)
}

func NewInternalServerError(details string) *StatusError {
	return newStatusError(http.StatusInternalServerError, "an unexpected error occurred", details)
}

func newStatusError(code int, message, details string) *StatusError {
	return &StatusError{
		ErrStatus: Status{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// AsAPIStatus returns the status carrier within err, or nil if err does not
// carry a status.
func AsAPIStatus(err error) APIStatus {
	var status *StatusError
	if errors.As(err, &status) {
		return status
	}

	return nil
}

func IsBadRequestError(err error) bool {
	return reasonForError(err) == http.StatusBadRequest
}

func IsUnauthorizedError(err error) bool {
	return reasonForError(err) == http.StatusUnauthorized
}

func IsForbiddenError(err error) bool {
	return reasonForError(err) == http.StatusForbidden
}

func IsNotFoundError(err error) bool {
	return reasonForError(err) == http.StatusNotFound
}

func IsConflictError(err error) bool {
	return reasonForError(err) == http.StatusConflict
}

func IsInternalServerError(err error) bool {
	return reasonForError(err) == http.StatusInternalServerError
}

func reasonForError(err error) int {
	if status := AsAPIStatus(err); status != nil {
		return status.Status().Code
	}

	return 0
}
