package oauth

import (
	"net/http"
	"net/url"
	"time"
)

// requestTimeout bounds every outbound call to a provider. Provider APIs are unreliable network
// dependencies and must never hold a callback request indefinitely.
const requestTimeout = 10 * time.Second

// newHTTPClient returns the HTTP client used by the provider implementations.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// is2xx returns true if the given status code is in the 2xx range.
func is2xx(status int) bool {
	return status >= 200 && status < 300
}

// mustParseURL parses the given string as a URL. It panics upon error.
// Only used with the hardcoded endpoint constants.
func mustParseURL(u string) *url.URL {
	parsed, err := url.Parse(u)
	if err != nil {
		panic("error in url.Parse call: " + err.Error())
	}
	return parsed
}
