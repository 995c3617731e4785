package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "yaml"
)

// configPaths are searched in order for the config file.
var configPaths = []string{".", "./configs", "/etc/4wp-auth"}

// loadWithViper reads the config file and overlays environment variables on top.
//
// An env var overrides a file key by upper-casing it and replacing dots with underscores,
// so AUTH_POST_LOGIN_URL overrides auth.post_login_url.
func loadWithViper() Config {
	vpr := viper.New()

	vpr.SetConfigName(configName)
	vpr.SetConfigType(configType)
	for _, path := range configPaths {
		vpr.AddConfigPath(path)
	}

	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	if err := vpr.ReadInConfig(); err != nil {
		panic(fmt.Errorf("error in vpr.ReadInConfig call: %w", err))
	}

	cfg := Config{}
	// The config model uses yaml tags, so the decoder has to be told not to expect mapstructure ones.
	decodeOpt := func(dc *mapstructure.DecoderConfig) { dc.TagName = configType }
	if err := vpr.Unmarshal(&cfg, decodeOpt); err != nil {
		panic(fmt.Errorf("error in vpr.Unmarshal call: %w", err))
	}

	return withDefaults(cfg)
}

// withDefaults fills in the optional keys the config file may leave out.
func withDefaults(cfg Config) Config {
	if cfg.HTTPServer.Addr == "" {
		cfg.HTTPServer.Addr = "0.0.0.0:8080"
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.CORSAllowedOrigin == "" {
		cfg.CORSAllowedOrigin = "http://localhost"
	}
	if cfg.Auth.StateTTLSeconds <= 0 {
		cfg.Auth.StateTTLSeconds = 600
	}
	if cfg.Session.TTLMinutes <= 0 {
		cfg.Session.TTLMinutes = 1440
	}

	// Redirect URIs default to the application's own callback routes.
	for name, pc := range map[string]*ProviderConfig{
		"gmail":    &cfg.Providers.Gmail,
		"facebook": &cfg.Providers.Facebook,
		"tiktok":   &cfg.Providers.TikTok,
	} {
		if pc.RedirectURI == "" {
			pc.RedirectURI = fmt.Sprintf("%s/api/v1/callback/%s", cfg.Application.BaseURL, name)
		}
	}

	return cfg
}
