package providers

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrHTTP              = errors.New("weather api request failed")
	ErrMalformedResponse = errors.New("weather api returned malformed response")
)

// InvalidArgumentError is returned before any request is made when the
// report type or output format is not one of the accepted values.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// HTTPError wraps any failure of the transport call. Message is the message of
// the underlying error and Code is the HTTP status when one is known.
type HTTPError struct {
	Message string
	Code    int
	Err     error
}

func newHTTPError(err error) *HTTPError {
	httpErr := &HTTPError{
		Message: err.Error(),
		Err:     err,
	}

	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		httpErr.Code = coder.Code()
	}

	return httpErr
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTP
}

type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("weather api returned malformed JSON: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// StatusError is produced by HTTPTransport for non-2xx upstream responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather api returned status code: %d", e.StatusCode)
}

func (e *StatusError) Code() int {
	return e.StatusCode
}
