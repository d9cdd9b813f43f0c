//go:build !js || !wasm

package platform

// IsStandardBrowserEnv is always false outside a browser.
func IsStandardBrowserEnv() bool {
	return false
}

// Origin is empty outside a browser.
func Origin() string {
	return ""
}

// ReadCookie never finds a cookie outside a browser.
func ReadCookie(name string) (string, bool) {
	return "", false
}
