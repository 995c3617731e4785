package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/4wpdev/4wp-auth/pkg/utils/errutils"
	"github.com/4wpdev/4wp-auth/pkg/utils/httputils"
)

// authResponse is the success body of the Auth endpoint.
type authResponse struct {
	AuthURL string `json:"auth_url"`
}

// Auth starts the OAuth flow by returning the provider's authentication page URL.
//
// The frontend is expected to navigate the browser to the returned auth_url. The URL already
// carries a single-use state token, so it must be fetched fresh for every login attempt.
func (h *Handler) Auth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Provider is a path parameter and so it will always be present.
	providerName := mux.Vars(r)["provider"]

	// Provider name validation.
	if err := validateProvider(providerName); err != nil {
		slog.ErrorContext(ctx, "invalid provider", "value", providerName, "error", err)
		httputils.WriteErr(w, errutils.BadRequest().WithReasonErr(err))
		return
	}

	authURL, err := h.flow.AuthURL(ctx, providerName)
	if err != nil {
		slog.ErrorContext(ctx, "error in flow.AuthURL call", "provider", providerName, "error", err)
		httputils.WriteErr(w, err)
		return
	}

	httputils.Write(w, http.StatusOK, nil, authResponse{AuthURL: authURL})
}
