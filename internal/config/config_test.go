package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithDefaults(t *testing.T) {
	cfg := Config{}
	cfg.Application.BaseURL = "https://auth.example.com"
	cfg.Providers.Facebook.RedirectURI = "https://other.example.com/cb"

	cfg = withDefaults(cfg)

	require.Equal(t, "0.0.0.0:8080", cfg.HTTPServer.Addr)
	require.Equal(t, "info", cfg.Logger.Level)
	require.Equal(t, 600, cfg.Auth.StateTTLSeconds)
	require.Equal(t, 1440, cfg.Session.TTLMinutes)

	// Redirect URIs default to the service's own callback routes, explicit values win.
	require.Equal(t, "https://auth.example.com/api/v1/callback/gmail", cfg.Providers.Gmail.RedirectURI)
	require.Equal(t, "https://auth.example.com/api/v1/callback/tiktok", cfg.Providers.TikTok.RedirectURI)
	require.Equal(t, "https://other.example.com/cb", cfg.Providers.Facebook.RedirectURI)
}
