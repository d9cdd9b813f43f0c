package adapter

import (
	"fmt"
	"net/http"
)

// SettleFunc decides whether a completed response is returned or rejected.
type SettleFunc func(resp *Response) error

// Settle rejects responses whose status fails the config's ValidateStatus.
func Settle(resp *Response) error {
	validate := DefaultValidateStatus
	if resp.Config != nil && resp.Config.ValidateStatus != nil {
		validate = resp.Config.ValidateStatus
	}

	if validate(resp.Status) {
		return nil
	}

	code := ErrCodeBadResponse
	if resp.Status >= http.StatusBadRequest && resp.Status < http.StatusInternalServerError {
		code = ErrCodeBadRequest
	}

	return NewError(
		fmt.Sprintf("Request failed with status code %d", resp.Status),
		resp.Config,
		code,
		resp.Request,
		resp,
	)
}
