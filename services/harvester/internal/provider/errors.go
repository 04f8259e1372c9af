package provider

import (
	"errors"
	"fmt"
)

// FetchError indicates the listing request failed or returned a non-2xx status.
// StatusCode is 0 when no HTTP response was received.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to get emails: unexpected status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("failed to get emails: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MalformedResponseError indicates a 2xx listing response whose body is not a JSON object
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err (or any error in its chain) is a FetchError
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// IsMalformedResponseError reports whether err (or any error in its chain) is a MalformedResponseError
func IsMalformedResponseError(err error) bool {
	var malformedErr *MalformedResponseError
	return errors.As(err, &malformedErr)
}
