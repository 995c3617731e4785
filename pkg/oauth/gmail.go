package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	// Source: https://developers.google.com/identity/protocols/oauth2/web-server#creatingclient
	gmailAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
	// Source: https://developers.google.com/identity/protocols/oauth2/web-server#exchange-authorization-code
	gmailTokenURL = "https://oauth2.googleapis.com/token"
	// Userinfo endpoint, reachable with the email and profile scopes.
	gmailUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// parsedGmailAuthURL removes the need to repeatedly parse the auth URL.
var parsedGmailAuthURL = mustParseURL(gmailAuthURL)

// Gmail implements the Provider interface for Google sign-in.
//
// Read documentation here: https://developers.google.com/identity/protocols/oauth2/web-server
type Gmail struct {
	config     Config
	httpClient *http.Client
}

// gmailTokenResponse is the body schema of the response returned by Google's code-to-token
// endpoint. The error fields are set instead of the token fields when the exchange fails.
type gmailTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`

	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// gmailUserInfoResponse is the body schema of Google's userinfo endpoint.
type gmailUserInfoResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`

	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewGmail instantiates a new Gmail provider instance.
func NewGmail(config Config) *Gmail {
	if len(config.Scopes) == 0 {
		config.Scopes = []string{"openid", "email", "profile"}
	}
	return &Gmail{config: config, httpClient: newHTTPClient()}
}

func (g *Gmail) Name() string {
	return "gmail"
}

func (g *Gmail) Enabled() bool {
	return g.config.Enabled()
}

func (g *Gmail) GetAuthURL(ctx context.Context, state string) string {
	var u = &url.URL{}
	// Copy the auth URL value into local pointer. This must not modify the original URL variable.
	*u = *parsedGmailAuthURL

	// Add all query parameters. Google expects space-joined scopes.
	q := u.Query()
	q.Set("client_id", g.config.ClientID)
	q.Set("redirect_uri", g.config.RedirectURI)
	q.Set("scope", strings.Join(g.config.Scopes, " "))
	q.Set("response_type", "code")
	q.Set("state", state)
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")

	u.RawQuery = q.Encode()
	return u.String()
}

func (g *Gmail) TokenFromCode(ctx context.Context, code string) (Token, error) {
	// Google's token endpoint accepts a form POST.
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", g.config.ClientID)
	form.Set("client_secret", g.config.ClientSecret)
	form.Set("redirect_uri", g.config.RedirectURI)
	form.Set("grant_type", "authorization_code")

	// Form the HTTP request.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gmailTokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("error in http.NewRequestWithContext call: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// Execute request.
	res, err := g.httpClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("error in httpClient.Do call: %w", err)
	}
	// Close response body upon return.
	defer func() { _ = res.Body.Close() }()

	// Decode the response. Google reports exchange failures inside the body, so the error
	// envelope is checked before the status code.
	var tokenResponse gmailTokenResponse
	if err := json.NewDecoder(res.Body).Decode(&tokenResponse); err != nil {
		return Token{}, fmt.Errorf("error in json Decode call: %w", err)
	}

	if tokenResponse.Error != "" {
		slog.ErrorContext(ctx, "gmail token exchange failed",
			"code", res.StatusCode, "error", tokenResponse.Error)
		return Token{}, &OAuthError{ErrCode: tokenResponse.Error, Description: tokenResponse.ErrorDescription}
	}

	if !is2xx(res.StatusCode) {
		return Token{}, fmt.Errorf("token request failed with status code: %d", res.StatusCode)
	}

	return Token{
		AccessToken:  tokenResponse.AccessToken,
		RefreshToken: tokenResponse.RefreshToken,
		TokenType:    tokenResponse.TokenType,
		Scope:        tokenResponse.Scope,
		ExpiresIn:    tokenResponse.ExpiresIn,
	}, nil
}

func (g *Gmail) UserInfo(ctx context.Context, accessToken string) (Identity, error) {
	// Form the HTTP request. The access token goes in the bearer header.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gmailUserInfoURL, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("error in http.NewRequestWithContext call: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	// Execute request.
	res, err := g.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("error in httpClient.Do call: %w", err)
	}
	// Close response body upon return.
	defer func() { _ = res.Body.Close() }()

	// Decode the response.
	var userInfo gmailUserInfoResponse
	if err := json.NewDecoder(res.Body).Decode(&userInfo); err != nil {
		return Identity{}, fmt.Errorf("error in json Decode call: %w", err)
	}

	if userInfo.Error != nil {
		slog.ErrorContext(ctx, "gmail userinfo request failed",
			"code", res.StatusCode, "message", userInfo.Error.Message)
		return Identity{}, &APIError{Message: userInfo.Error.Message}
	}

	if !is2xx(res.StatusCode) {
		// Decode response body only for logging.
		resBody, _ := io.ReadAll(res.Body)
		slog.ErrorContext(ctx, "gmail userinfo request failed",
			"code", res.StatusCode, "body", string(resBody))
		return Identity{}, fmt.Errorf("userinfo request failed with status code: %d", res.StatusCode)
	}

	return Identity{
		Provider:       g.Name(),
		ProviderUserID: userInfo.ID,
		Email:          userInfo.Email,
		DisplayName:    userInfo.Name,
		GivenName:      userInfo.GivenName,
		FamilyName:     userInfo.FamilyName,
		AvatarURL:      userInfo.Picture,
	}, nil
}
