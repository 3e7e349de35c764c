package apiclient

import (
	"errors"
	"fmt"
)

// ErrRequestFailed is the errors.Is target for every *RequestFailedError.
var ErrRequestFailed = errors.New("request failed")

// RequestFailedError is returned when the transport fails, the server answers
// with a non-2xx status, or the response body cannot be decoded.
type RequestFailedError struct {
	Op         string
	StatusCode int // 0 when no HTTP response was received
	Message    string
	Err        error
}

func (e *RequestFailedError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	default:
		return e.Op + ": request failed"
	}
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Transport reports whether the failure happened before the server gave a
// usable answer.
func (e *RequestFailedError) Transport() bool {
	return e.StatusCode == 0
}
