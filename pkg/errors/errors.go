package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNoCredentials    = errors.New("no auth token found")
	ErrNothingSelected  = errors.New("no users selected")
	ErrNoAssignedUsers  = errors.New("no users assigned")
	ErrInvalidRoster    = errors.New("invalid roster file")
	ErrConfirmRequired  = errors.New("confirmation required")
	ErrAttachmentTooBig = errors.New("attachment exceeds size limit")
)

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

type RetryableError struct {
	Err     error
	Message string
}

func (e RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %s - %s", e.Message, e.Err.Error())
}

func (e RetryableError) Unwrap() error {
	return e.Err
}

func NewRetryableError(err error, message string) error {
	return RetryableError{
		Err:     err,
		Message: message,
	}
}

func IsRetryable(err error) bool {
	var re RetryableError
	return errors.As(err, &re)
}

// APIError is a non-success answer from the backend: a non-2xx status or
// an envelope with success=false. Message carries the server text verbatim
// when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

func NewAPIError(status int, message string) error {
	if message == "" {
		message = "something went wrong, please try again"
	}
	return APIError{StatusCode: status, Message: message}
}
