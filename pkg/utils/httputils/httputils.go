package httputils

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/4wpdev/4wp-auth/pkg/utils/errutils"
)

// Write writes the given headers and body to the given response-writer.
func Write(w http.ResponseWriter, status int, headers map[string]string, body any) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}

	// If there's no body, the Content-Type header is not required.
	if body == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response body", "err", err)
	}
}

// WriteErr writes the given error to the given response-writer.
// Non-HTTPError values are reported as internal server errors.
func WriteErr(w http.ResponseWriter, err error) {
	httpErr := errutils.ToHTTPError(err)
	Write(w, httpErr.Status, nil, httpErr)
}

// Is2xx returns true if the given status code is in the 2xx range.
func Is2xx(status int) bool {
	return status >= 200 && status < 300
}
