//go:build js && wasm

package http

import (
	"net/http"

	"github.com/syumai/workers/cloudflare/fetch"
)

// WorkersFetcher implements Fetcher for Cloudflare Workers
type WorkersFetcher struct {
	client *fetch.Client
}

// NewFetcher creates a Fetcher for the Workers environment
func NewFetcher() *WorkersFetcher {
	return &WorkersFetcher{
		client: fetch.NewClient(),
	}
}

// NewStatelessFetcher is NewFetcher: the Workers runtime keeps no cookies
// between fetch calls.
func NewStatelessFetcher() *WorkersFetcher {
	return NewFetcher()
}

// Fetch performs the request using Cloudflare Workers fetch. The credentials
// mode has no meaning outside a browser and is ignored.
func (f *WorkersFetcher) Fetch(req *Request) (*http.Response, error) {
	fetchReq, err := fetch.NewRequest(req.Context(), req.Method, req.URL.String(), req.Body)
	if err != nil {
		return nil, err
	}

	for key, values := range req.Header {
		for _, value := range values {
			fetchReq.Header.Add(key, value)
		}
	}

	return f.client.Do(fetchReq, requestInit(req.Redirect))
}

// requestInit carries the redirect mode, which Workers only accepts as a
// fetch() option.
func requestInit(mode RedirectMode) *fetch.RequestInit {
	if mode == RedirectManual {
		return &fetch.RequestInit{Redirect: fetch.RedirectModeManual}
	}
	return &fetch.RequestInit{Redirect: fetch.RedirectModeFollow}
}
