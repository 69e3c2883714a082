package domain

import "net/http"

// Error is a domain error carrying the HTTP status it translates to.
// Handlers map anything else to a generic 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return NewError(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return NewError(http.StatusUnauthorized, message)
}

func BadGateway(message string) *Error {
	return NewError(http.StatusBadGateway, message)
}

var (
	ErrCompanyNotFound     = NewError(http.StatusNotFound, "company not found")
	ErrJobNotFound         = NewError(http.StatusNotFound, "job not found")
	ErrApplicationNotFound = NewError(http.StatusNotFound, "application not found")
	ErrUserNotFound        = NewError(http.StatusNotFound, "user not found")

	ErrEmailTaken     = NewError(http.StatusConflict, "company already registered")
	ErrAlreadyApplied = NewError(http.StatusConflict, "already applied")
	// ErrAlreadyReviewed guards the Pending -> terminal transition: once an
	// application is Accepted or Rejected its status never changes again.
	ErrAlreadyReviewed = NewError(http.StatusConflict, "application already reviewed")

	ErrInvalidCredentials  = NewError(http.StatusUnauthorized, "invalid email or password")
	ErrNotJobOwner         = NewError(http.StatusForbidden, "job belongs to another company")
	ErrNotApplicationOwner = NewError(http.StatusForbidden, "application belongs to another company")
	ErrInvalidStatus       = NewError(http.StatusBadRequest, "invalid application status")
)
