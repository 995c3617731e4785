package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	facebookAuthURL     = "https://www.facebook.com/v18.0/dialog/oauth"
	facebookTokenURL    = "https://graph.facebook.com/v18.0/oauth/access_token"
	facebookUserInfoURL = "https://graph.facebook.com/v18.0/me"
	// facebookPictureURL is formatted with the user's ID.
	facebookPictureURL = "https://graph.facebook.com/v18.0/%s/picture"
)

// parsedFacebookAuthURL removes the need to repeatedly parse the auth URL.
var parsedFacebookAuthURL = mustParseURL(facebookAuthURL)

// Facebook implements the Provider interface for Facebook login.
//
// Read documentation here: https://developers.facebook.com/docs/facebook-login/guides/advanced/manual-flow
type Facebook struct {
	config     Config
	httpClient *http.Client
	// pictureClient does not follow redirects. The Graph API picture endpoint answers with a 302
	// whose Location header is the actual avatar URL.
	pictureClient *http.Client
}

// facebookError is the Graph API error envelope, shared by the token and userinfo endpoints.
type facebookError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

// facebookTokenResponse is the body schema of the Graph API token endpoint.
type facebookTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`

	Error *facebookError `json:"error"`
}

// facebookUserInfoResponse is the body schema of the /me endpoint with the requested fields.
type facebookUserInfoResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	Error *facebookError `json:"error"`
}

// NewFacebook instantiates a new Facebook provider instance.
func NewFacebook(config Config) *Facebook {
	if len(config.Scopes) == 0 {
		config.Scopes = []string{"email", "public_profile"}
	}

	pictureClient := newHTTPClient()
	pictureClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Facebook{config: config, httpClient: newHTTPClient(), pictureClient: pictureClient}
}

func (f *Facebook) Name() string {
	return "facebook"
}

func (f *Facebook) Enabled() bool {
	return f.config.Enabled()
}

func (f *Facebook) GetAuthURL(ctx context.Context, state string) string {
	var u = &url.URL{}
	// Copy the auth URL value into local pointer. This must not modify the original URL variable.
	*u = *parsedFacebookAuthURL

	// Add all query parameters. Facebook expects comma-joined scopes.
	q := u.Query()
	q.Set("client_id", f.config.ClientID)
	q.Set("redirect_uri", f.config.RedirectURI)
	q.Set("scope", strings.Join(f.config.Scopes, ","))
	q.Set("response_type", "code")
	q.Set("state", state)

	u.RawQuery = q.Encode()
	return u.String()
}

func (f *Facebook) TokenFromCode(ctx context.Context, code string) (Token, error) {
	// The Graph API token exchange is a GET with query-string credentials.
	u := mustParseURL(facebookTokenURL)
	q := u.Query()
	q.Set("client_id", f.config.ClientID)
	q.Set("client_secret", f.config.ClientSecret)
	q.Set("redirect_uri", f.config.RedirectURI)
	q.Set("code", code)
	u.RawQuery = q.Encode()

	// Form the HTTP request.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Token{}, fmt.Errorf("error in http.NewRequestWithContext call: %w", err)
	}

	// Execute request.
	res, err := f.httpClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("error in httpClient.Do call: %w", err)
	}
	// Close response body upon return.
	defer func() { _ = res.Body.Close() }()

	// Decode the response and check the error envelope before the status code.
	var tokenResponse facebookTokenResponse
	if err := json.NewDecoder(res.Body).Decode(&tokenResponse); err != nil {
		return Token{}, fmt.Errorf("error in json Decode call: %w", err)
	}

	if tokenResponse.Error != nil {
		slog.ErrorContext(ctx, "facebook token exchange failed",
			"code", res.StatusCode, "type", tokenResponse.Error.Type, "message", tokenResponse.Error.Message)
		return Token{}, &OAuthError{ErrCode: tokenResponse.Error.Type, Description: tokenResponse.Error.Message}
	}

	if !is2xx(res.StatusCode) {
		return Token{}, fmt.Errorf("token request failed with status code: %d", res.StatusCode)
	}

	return Token{
		AccessToken: tokenResponse.AccessToken,
		TokenType:   tokenResponse.TokenType,
		ExpiresIn:   tokenResponse.ExpiresIn,
	}, nil
}

func (f *Facebook) UserInfo(ctx context.Context, accessToken string) (Identity, error) {
	// The Graph API takes the access token as a query parameter.
	u := mustParseURL(facebookUserInfoURL)
	q := u.Query()
	q.Set("fields", "id,name,email,first_name,last_name")
	q.Set("access_token", accessToken)
	u.RawQuery = q.Encode()

	// Form the HTTP request.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Identity{}, fmt.Errorf("error in http.NewRequestWithContext call: %w", err)
	}

	// Execute request.
	res, err := f.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("error in httpClient.Do call: %w", err)
	}
	// Close response body upon return.
	defer func() { _ = res.Body.Close() }()

	// Decode the response.
	var userInfo facebookUserInfoResponse
	if err := json.NewDecoder(res.Body).Decode(&userInfo); err != nil {
		return Identity{}, fmt.Errorf("error in json Decode call: %w", err)
	}

	if userInfo.Error != nil {
		slog.ErrorContext(ctx, "facebook userinfo request failed",
			"code", res.StatusCode, "message", userInfo.Error.Message)
		return Identity{}, &APIError{Message: userInfo.Error.Message}
	}

	if !is2xx(res.StatusCode) {
		return Identity{}, fmt.Errorf("userinfo request failed with status code: %d", res.StatusCode)
	}

	return Identity{
		Provider:       f.Name(),
		ProviderUserID: userInfo.ID,
		// Facebook may withhold the email depending on the user's privacy settings.
		Email:       userInfo.Email,
		DisplayName: userInfo.Name,
		GivenName:   userInfo.FirstName,
		FamilyName:  userInfo.LastName,
		AvatarURL:   f.pictureURL(ctx, accessToken, userInfo.ID),
	}, nil
}

// pictureURL resolves the user's avatar URL from the Location header of the redirecting picture
// endpoint. Any failure means "no avatar", never a failed login.
func (f *Facebook) pictureURL(ctx context.Context, accessToken, userID string) string {
	u := mustParseURL(fmt.Sprintf(facebookPictureURL, userID))
	q := u.Query()
	q.Set("type", "large")
	q.Set("access_token", accessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return ""
	}

	res, err := f.pictureClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "facebook picture request failed", "error", err)
		return ""
	}
	defer func() { _ = res.Body.Close() }()

	return res.Header.Get("Location")
}
