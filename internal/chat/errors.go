package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessage rejects a blank submission.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrRequestInFlight rejects a submission while a reply is outstanding.
	ErrRequestInFlight = errors.New("a request is already in flight")

	// ErrCredentialRequired means the selected model's provider has no
	// registered API key. The UI shows a configuration prompt for it.
	ErrCredentialRequired = errors.New("configuration needed: no API key registered for this model's provider")

	// ErrNotAwaiting is returned when a reply arrives with no placeholder.
	ErrNotAwaiting = errors.New("no request is awaiting a response")

	// ErrRequestFailed is the single user-visible failure kind for requests.
	ErrRequestFailed = errors.New("request failed")
)

// RequestError describes a failed call to the CreateMVP API. It matches
// ErrRequestFailed with errors.Is and unwraps to the transport cause, if any.
type RequestError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s: HTTP %d", ErrRequestFailed, e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", ErrRequestFailed, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrRequestFailed, e.Op)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}
