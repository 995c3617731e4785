package oauth

import (
	"context"
	"time"
)

// Provider represents an OAuth provider.
type Provider interface {
	// Name provides the name of the provider.
	Name() string

	// Enabled reports whether the provider is usable, which requires both the client ID and the
	// client secret to be configured.
	Enabled() bool

	// GetAuthURL returns the URL to the auth page of the provider.
	//
	// The "state" parameter is returned as is in the provider's callback
	// and can be used to correlate it with the original redirect.
	GetAuthURL(ctx context.Context, state string) string

	// TokenFromCode exchanges the authorization code for the provider's tokens.
	TokenFromCode(ctx context.Context, code string) (Token, error)

	// UserInfo fetches the user's profile with the given access token and normalizes it.
	UserInfo(ctx context.Context, accessToken string) (Identity, error)
}

// Config holds the per-provider OAuth client settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
}

// Enabled reports whether both credentials are present.
func (c Config) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Token holds the credentials returned by a provider's token endpoint.
type Token struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	ExpiresIn    int64
}

// Expiry returns the absolute expiry time of the access token, or the zero time if the provider
// did not report one.
func (t Token) Expiry() time.Time {
	if t.ExpiresIn <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
}

// Identity is the provider-agnostic representation of a remote user profile.
//
// (Provider, ProviderUserID) is the durable linkage key. Email may be absent, and when a provider
// never supplies one, a placeholder is synthesized and EmailSynthetic is set so that account
// resolution never matches existing accounts on it.
type Identity struct {
	Provider       string `json:"provider"`
	ProviderUserID string `json:"provider_user_id"`

	Email          string `json:"email"`
	EmailSynthetic bool   `json:"email_synthetic,omitempty"`

	DisplayName string `json:"display_name"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	AvatarURL   string `json:"avatar_url"`
}
