package adapter

import (
	"context"
	"errors"
)

// Cancel is the reason recorded on a canceled CancelToken.
type Cancel struct {
	Message string
}

func (c *Cancel) Error() string {
	if c.Message == "" {
		return "canceled"
	}
	return c.Message
}

// CancelToken is an external cancellation source shared by any number of
// requests. Canceling it aborts every in-flight request that carries it.
type CancelToken struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewCancelTokenSource returns a token and the function that cancels it.
func NewCancelTokenSource() (*CancelToken, func(message string)) {
	t := NewCancelToken()
	return t, t.Cancel
}

// NewCancelToken returns a token that has not been canceled.
func NewCancelToken() *CancelToken {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &CancelToken{ctx: ctx, cancel: cancel}
}

// Cancel cancels the token. Only the first call records a reason.
func (t *CancelToken) Cancel(message string) {
	t.cancel(&Cancel{Message: message})
}

// Done is closed once the token is canceled.
func (t *CancelToken) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Reason returns the *Cancel recorded by the first Cancel call, or nil.
func (t *CancelToken) Reason() error {
	if t.ctx.Err() == nil {
		return nil
	}
	return context.Cause(t.ctx)
}

// onCancel runs fn in its own goroutine once the token is canceled. The
// returned stop function detaches fn.
func (t *CancelToken) onCancel(fn func()) (stop func() bool) {
	return context.AfterFunc(t.ctx, fn)
}

// IsCancel reports whether err is a cancellation reason.
func IsCancel(err error) bool {
	var c *Cancel
	return errors.As(err, &c)
}
