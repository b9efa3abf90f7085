package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind tells where a call failed.
type ErrorKind int

const (
	// KindTransport means no response was received.
	KindTransport ErrorKind = iota + 1
	// KindProtocol means the backend answered with a non 2xx status.
	KindProtocol
	// KindDecode means the response body could not be interpreted.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// ErrorResponse carries the status and decoded body of a failed call.
type ErrorResponse struct {
	Status int
	Data   Envelope[json.RawMessage]
}

// HTTPError is the single error shape returned by the client. Response is
// only set when the backend answered.
type HTTPError struct {
	Message  string
	Response *ErrorResponse
	Kind     ErrorKind
	Err      error
}

func (e *HTTPError) Error() string {
	if e.Response != nil {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Response.Status)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the response status, zero when none was received.
func (e *HTTPError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.Status
}

// AsHTTPError extracts an HTTPError from an error chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// IsStatus returns true if err is an HTTPError carrying the given status.
func IsStatus(err error, status int) bool {
	he, ok := AsHTTPError(err)
	return ok && he.StatusCode() == status
}

func newError(kind ErrorKind, err error) *HTTPError {
	msg := defaultErrorMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &HTTPError{Message: msg, Kind: kind, Err: err}
}

func newProtocolError(status int, env *Envelope[json.RawMessage], fromJSON bool) *HTTPError {
	msg := env.Message
	if !fromJSON || msg == "" {
		msg = fmt.Sprintf("HTTP Error: %d", status)
	}
	return &HTTPError{
		Message:  msg,
		Kind:     KindProtocol,
		Response: &ErrorResponse{Status: status, Data: *env},
	}
}
