package adapter

import (
	"errors"

	nativehttp "github.com/dvcrn/go-fetch-adapter/internal/http"
)

// Error codes carried by *Error.
const (
	ErrCodeNetwork     = "ERR_NETWORK"
	ErrCodeBadRequest  = "ERR_BAD_REQUEST"
	ErrCodeBadResponse = "ERR_BAD_RESPONSE"
	ErrCodeCanceled    = "ERR_CANCELED"
)

const networkErrorMessage = "Network Error"

// Error is returned for requests that produced no usable response (network
// errors, Response is nil) and for responses rejected by status validation.
type Error struct {
	Message  string
	Code     string
	Config   *RequestConfig
	Request  *nativehttp.Request
	Response *Response
	Err      error
}

// NewError creates an Error. Any of cfg, req and resp may be nil.
func NewError(message string, cfg *RequestConfig, code string, req *nativehttp.Request, resp *Response) *Error {
	return &Error{
		Message:  message,
		Code:     code,
		Config:   cfg,
		Request:  req,
		Response: resp,
	}
}

func newNetworkError(cfg *RequestConfig, req *nativehttp.Request, cause error) *Error {
	e := NewError(networkErrorMessage, cfg, ErrCodeNetwork, req, nil)
	e.Err = cause
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError finds the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNetworkError reports whether err is a transport failure with no response.
func IsNetworkError(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeNetwork && e.Response == nil
}
