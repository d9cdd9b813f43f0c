//go:build !js || !wasm

package http

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
)

// NativeFetcher implements Fetcher on top of a shared net/http transport.
type NativeFetcher struct {
	transport http.RoundTripper
	jar       http.CookieJar
}

// NewFetcher creates a Fetcher for regular environments. Cookies received on
// requests made with CredentialsInclude are kept in an in-memory jar scoped by
// the public suffix list and shared by every request sent through it.
func NewFetcher() *NativeFetcher {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return NewFetcherWithTransport(newTransport(), jar)
}

// NewStatelessFetcher creates a Fetcher without a cookie jar, for callers that
// serve unrelated clients. CredentialsInclude then stores and sends nothing.
func NewStatelessFetcher() *NativeFetcher {
	return NewFetcherWithTransport(newTransport(), nil)
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}
}

// NewFetcherWithTransport creates a Fetcher using the given transport and jar.
// A nil jar disables cookie handling entirely.
func NewFetcherWithTransport(transport http.RoundTripper, jar http.CookieJar) *NativeFetcher {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &NativeFetcher{transport: transport, jar: jar}
}

// Fetch performs the request. The client is assembled per call because the
// redirect and credentials modes are per-request options.
func (f *NativeFetcher) Fetch(req *Request) (*http.Response, error) {
	client := &http.Client{Transport: f.transport}

	if req.Credentials == CredentialsInclude {
		client.Jar = f.jar
	}

	if req.Redirect == RedirectManual {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return client.Do(req.Request)
}
