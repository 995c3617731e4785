package config

// Config represents the configs model.
type Config struct {
	// Application is the model of application configs.
	Application struct {
		// Name of the application.
		Name string `yaml:"name"`
		// BaseURL of the application.
		// It can be http://localhost:8080 during development and https://domain.com in production.
		BaseURL string `yaml:"base_url"`
		// PProf is a flag to enable/disable profiling.
		PProf bool `yaml:"pprof"`
	} `yaml:"application"`

	Database struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	} `yaml:"database"`

	// Redis holds the connection details of the state store.
	// If Addr is empty, states are kept in process memory instead.
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	// HTTPServer is the model of the HTTP Server configs.
	HTTPServer struct {
		// Addr is the address of the HTTP server.
		Addr string `yaml:"addr"`
	} `yaml:"http_server"`

	// Logger is the model of the application logger configs.
	Logger struct {
		// Level of the logger.
		Level string `yaml:"level"`
		// Pretty is a flag that dictates whether the log output should be pretty (human-readable).
		Pretty bool `yaml:"pretty"`
	} `yaml:"logger"`

	// CORSAllowedOrigin is the origin of the frontend that initiates logins.
	CORSAllowedOrigin string `yaml:"cors_allowed_origin"`

	// Auth holds the flow-wide settings shared by all providers.
	Auth struct {
		// StateTTLSeconds is the lifetime of an anti-forgery state token.
		StateTTLSeconds int `yaml:"state_ttl_seconds"`
		// PostLoginURL is where the browser lands after a successful login.
		PostLoginURL string `yaml:"post_login_url"`
		// LoginURL is where the browser lands after a failed login.
		LoginURL string `yaml:"login_url"`
	} `yaml:"auth"`

	// Session holds the session token signing configs.
	Session struct {
		Secret     string `yaml:"secret"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"session"`

	// Providers holds the per-provider OAuth credentials.
	Providers struct {
		Gmail    ProviderConfig `yaml:"gmail"`
		Facebook ProviderConfig `yaml:"facebook"`
		TikTok   ProviderConfig `yaml:"tiktok"`
	} `yaml:"providers"`
}

// ProviderConfig holds one provider's OAuth credentials.
// A provider with an empty ClientID or ClientSecret is treated as disabled.
type ProviderConfig struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURI  string   `yaml:"redirect_uri"`
	Scopes       []string `yaml:"scopes"`
}

// Load loads and returns the config value.
func Load() Config {
	return loadWithViper()
}

// LoadMock provides a mock instance of the config for testing purposes.
func LoadMock() Config {
	cfg := Config{}

	cfg.Application.Name = "example-application"
	cfg.Application.BaseURL = "http://localhost:8080"
	cfg.HTTPServer.Addr = "localhost:8080"

	cfg.Logger.Level = "debug"
	cfg.Logger.Pretty = true

	cfg.Auth.StateTTLSeconds = 600
	cfg.Auth.PostLoginURL = "http://localhost:3000/account"
	cfg.Auth.LoginURL = "http://localhost:3000/login"

	cfg.Session.Secret = "example-secret"
	cfg.Session.TTLMinutes = 1440

	cfg.Providers.Gmail = ProviderConfig{
		ClientID:     "example-client-id",
		ClientSecret: "example-client-secret",
		RedirectURI:  "http://localhost:8080/api/v1/callback/gmail",
	}

	return cfg
}
