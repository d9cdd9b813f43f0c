//go:build js && wasm

package platform

import "syscall/js"

// IsStandardBrowserEnv reports whether the program runs in a page with a DOM.
// Web workers, the Workers runtime and React Native all report false.
func IsStandardBrowserEnv() bool {
	global := js.Global()
	navigator := global.Get("navigator")
	if navigator.Truthy() && navigator.Get("product").Truthy() &&
		navigator.Get("product").String() == "ReactNative" {
		return false
	}
	return global.Get("window").Truthy() && global.Get("document").Truthy()
}

// Origin returns location.origin of the current page.
func Origin() string {
	location := js.Global().Get("location")
	if !location.Truthy() || !location.Get("origin").Truthy() {
		return ""
	}
	return location.Get("origin").String()
}

// ReadCookie reads a cookie visible to the current document.
func ReadCookie(name string) (string, bool) {
	if !IsStandardBrowserEnv() {
		return "", false
	}
	return ParseCookie(js.Global().Get("document").Get("cookie").String(), name)
}
