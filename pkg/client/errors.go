package client

import "fmt"

// AuthenticationError reports a login leg that did not return 201 Created.
type AuthenticationError struct {
	Status int
	Body   string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: controller returned %d: %s", e.Status, e.Body)
}

// RequestError reports a target leg that returned non-2xx, timed out, or
// failed at the transport level.
type RequestError struct {
	Status int
	Body   string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("request failed: controller returned %d: %s", e.Status, e.Body)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
