// Package handler holds the REST handlers of the service.
package handler

import (
	"context"
	"net/http"

	"github.com/4wpdev/4wp-auth/internal/config"
	"github.com/4wpdev/4wp-auth/internal/flow"
	"github.com/4wpdev/4wp-auth/pkg/utils/errutils"
	"github.com/4wpdev/4wp-auth/pkg/utils/httputils"
)

// Flow is the login flow as the REST layer sees it.
type Flow interface {
	AuthURL(ctx context.Context, providerName string) (string, error)
	HandleCallback(ctx context.Context, in flow.CallbackInput) (flow.CallbackResult, error)
}

// Handler encapsulates all REST handlers.
type Handler struct {
	config config.Config
	flow   Flow
}

// NewHandler creates a new Handler instance.
func NewHandler(config config.Config, loginFlow Flow) *Handler {
	return &Handler{config: config, flow: loginFlow}
}

// NotFound handler can be used to serve any unrecognized routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	httputils.WriteErr(w, errutils.NotFound())
}

// Health returns 200 if everything is running fine.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputils.Write(w, http.StatusOK, nil, map[string]string{"status": "ok"})
}
