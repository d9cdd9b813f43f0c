// Package http is the native fetch primitive the adapter dispatches to. The
// default build runs on net/http; the js/wasm build calls the Workers fetch API.
package http

import "net/http"

// RedirectMode mirrors the fetch API redirect option.
type RedirectMode string

const (
	RedirectFollow RedirectMode = "follow"
	RedirectManual RedirectMode = "manual"
)

// CredentialsMode mirrors the fetch API credentials option.
type CredentialsMode string

const (
	CredentialsInclude CredentialsMode = "include"
	CredentialsOmit    CredentialsMode = "omit"
)

// Request is a native fetch request. The embedded request's context is the
// abort signal.
type Request struct {
	*http.Request
	Redirect    RedirectMode
	Credentials CredentialsMode
}

// Fetcher performs one native fetch. A returned error means no response was
// obtained; any HTTP status is a successful fetch.
type Fetcher interface {
	Fetch(req *Request) (*http.Response, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(req *Request) (*http.Response, error)

// Fetch calls f(req).
func (f FetcherFunc) Fetch(req *Request) (*http.Response, error) {
	return f(req)
}
