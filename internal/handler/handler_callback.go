package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/4wpdev/4wp-auth/internal/flow"
	"github.com/4wpdev/4wp-auth/pkg/utils/errutils"
	"github.com/4wpdev/4wp-auth/pkg/utils/httputils"
)

// sessionCookieName is the name of the cookie that holds the session token.
const sessionCookieName = "session"

// Callback handles the provider's OAuth callback.
//
// This endpoint is reached by browser navigation, not by an API client, so it never renders a
// JSON error. Both outcomes are 302 redirects: success lands on the post-login URL with the
// session cookie set, failure lands on the login URL with the error message in a query parameter.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Provider is a path parameter and so it will always be present.
	providerName := mux.Vars(r)["provider"]

	// Provider name validation.
	if err := validateProvider(providerName); err != nil {
		slog.ErrorContext(ctx, "invalid provider in callback", "value", providerName, "error", err)
		errorRedirect(w, errutils.BadRequest().WithReasonErr(err), h.config.Auth.LoginURL)
		return
	}

	query := r.URL.Query()
	result, err := h.flow.HandleCallback(ctx, flow.CallbackInput{
		Provider:         providerName,
		Code:             query.Get("code"),
		State:            query.Get("state"),
		ErrorCode:        query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	})
	if err != nil {
		errorRedirect(w, err, h.config.Auth.LoginURL)
		return
	}

	// Set the session cookie.
	http.SetCookie(w, &http.Cookie{
		Name:  sessionCookieName,
		Value: result.SessionToken,
		Path:  "/",
		// This will be required if the service needs to be used with multiple subdomains.
		Domain: "",
		MaxAge: int((time.Duration(h.config.Session.TTLMinutes) * time.Minute).Seconds()),
		// Use secure mode when the application is running over HTTPS.
		Secure:   strings.HasPrefix(h.config.Application.BaseURL, "https://"),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	// Success redirect URL.
	redirectURL := fmt.Sprintf("%s?provider=%s", h.config.Auth.PostLoginURL, providerName)
	headers := map[string]string{"Location": redirectURL}
	httputils.Write(w, http.StatusFound, headers, nil)
}

// errorRedirect redirects the caller (by writing 302 and the Location header to the response) and
// attaches the given error information as a query parameter.
func errorRedirect(w http.ResponseWriter, err error, targetURL string) {
	var httpErr *errutils.HTTPError
	if !errors.As(err, &httpErr) {
		// Infrastructure errors carry internal detail that must not travel on a URL.
		httpErr = errutils.InternalServerError().WithReasonStr("authentication failed")
	}

	redirectURL := fmt.Sprintf("%s?auth_error=%s", targetURL, url.QueryEscape(httpErr.Error()))
	headers := map[string]string{"Location": redirectURL}
	httputils.Write(w, http.StatusFound, headers, nil)
}
