package errutils

import (
	"errors"
	"net/http"
)

// HTTPError implements the error interface along with HTTP status information.
//
// The Code field is a stable, machine-readable identifier of the error. The Reason field is a
// human-readable message that is safe to show to the end user.
type HTTPError struct {
	Status int    `json:"-"`
	Code   string `json:"code"`
	Reason string `json:"message,omitempty"`
}

// Error implements the error interface.
func (h *HTTPError) Error() string {
	if h.Reason == "" {
		return h.Code
	}
	return h.Reason
}

// WithCode returns a copy of the HTTPError with the given code attached.
func (h *HTTPError) WithCode(code string) *HTTPError {
	clone := *h
	clone.Code = code
	return &clone
}

// WithReasonStr returns a copy of the HTTPError with the given string as the reason.
func (h *HTTPError) WithReasonStr(reason string) *HTTPError {
	clone := *h
	clone.Reason = reason
	return &clone
}

// WithReasonErr returns a copy of the HTTPError with the given error's message as the reason.
func (h *HTTPError) WithReasonErr(reason error) *HTTPError {
	return h.WithReasonStr(reason.Error())
}

// ToHTTPError converts the given error to an *HTTPError.
// If the error is not an *HTTPError, it is treated as an internal server error.
func ToHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return InternalServerError().WithReasonErr(err)
}

func BadRequest() *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Code: "bad_request"}
}

func Unauthorized() *HTTPError {
	return &HTTPError{Status: http.StatusUnauthorized, Code: "unauthorized"}
}

func Forbidden() *HTTPError {
	return &HTTPError{Status: http.StatusForbidden, Code: "forbidden"}
}

func NotFound() *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Code: "not_found"}
}

func RequestTimeout() *HTTPError {
	return &HTTPError{Status: http.StatusRequestTimeout, Code: "request_timeout"}
}

func InternalServerError() *HTTPError {
	return &HTTPError{Status: http.StatusInternalServerError, Code: "internal_server_error"}
}

func BadGateway() *HTTPError {
	return &HTTPError{Status: http.StatusBadGateway, Code: "bad_gateway"}
}
