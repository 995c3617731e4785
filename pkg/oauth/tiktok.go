package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	tiktokAuthURL     = "https://www.tiktok.com/v2/auth/authorize/"
	tiktokTokenURL    = "https://open.tiktokapis.com/v2/oauth/token/"
	tiktokUserInfoURL = "https://open.tiktokapis.com/v2/user/info/"
)

// parsedTikTokAuthURL removes the need to repeatedly parse the auth URL.
var parsedTikTokAuthURL = mustParseURL(tiktokAuthURL)

// TikTok implements the Provider interface for TikTok login kit.
//
// Read documentation here: https://developers.tiktok.com/doc/login-kit-web
//
// TikTok never supplies an email address. A placeholder of the form
// "{display_name}@tiktok.local" is synthesized and flagged as synthetic so account resolution
// does not treat it as a real, matchable address.
type TikTok struct {
	config     Config
	httpClient *http.Client
}

// tiktokError is TikTok's error envelope. Depending on the endpoint and the era of the API, the
// "error" field is either a plain string or an object, so it unmarshals both.
type tiktokError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *tiktokError) UnmarshalJSON(data []byte) error {
	// Plain string form: "error": "invalid_grant".
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Code = s
		return nil
	}

	// Object form: "error": {"code": "...", "message": "..."}.
	var obj struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	e.Code, e.Message = obj.Code, obj.Message
	return nil
}

// present reports whether the envelope actually carries an error.
// TikTok's v2 endpoints include {"code": "ok"} on success.
func (e *tiktokError) present() bool {
	return e != nil && e.Code != "" && e.Code != "ok"
}

// tiktokTokenData holds the token fields, which arrive either flat or under a "data" wrapper.
type tiktokTokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
	OpenID       string `json:"open_id"`
}

// tiktokTokenResponse is the body schema of TikTok's token endpoint.
type tiktokTokenResponse struct {
	tiktokTokenData
	Data *tiktokTokenData `json:"data"`

	Error            *tiktokError `json:"error"`
	ErrorDescription string       `json:"error_description"`
}

// tiktokUserInfoResponse is the body schema of TikTok's user-info endpoint.
type tiktokUserInfoResponse struct {
	Data struct {
		User struct {
			OpenID      string `json:"open_id"`
			UnionID     string `json:"union_id"`
			DisplayName string `json:"display_name"`
			Username    string `json:"username"`
			AvatarURL   string `json:"avatar_url"`
		} `json:"user"`
	} `json:"data"`

	Error *tiktokError `json:"error"`
}

// NewTikTok instantiates a new TikTok provider instance.
func NewTikTok(config Config) *TikTok {
	if len(config.Scopes) == 0 {
		config.Scopes = []string{"user.info.basic"}
	}
	return &TikTok{config: config, httpClient: newHTTPClient()}
}

func (t *TikTok) Name() string {
	return "tiktok"
}

func (t *TikTok) Enabled() bool {
	return t.config.Enabled()
}

func (t *TikTok) GetAuthURL(ctx context.Context, state string) string {
	var u = &url.URL{}
	// Copy the auth URL value into local pointer. This must not modify the original URL variable.
	*u = *parsedTikTokAuthURL

	// Add all query parameters. TikTok names the client ID parameter "client_key" and expects
	// comma-joined scopes.
	q := u.Query()
	q.Set("client_key", t.config.ClientID)
	q.Set("redirect_uri", t.config.RedirectURI)
	q.Set("scope", strings.Join(t.config.Scopes, ","))
	q.Set("response_type", "code")
	q.Set("state", state)

	u.RawQuery = q.Encode()
	return u.String()
}

func (t *TikTok) TokenFromCode(ctx context.Context, code string) (Token, error) {
	// TikTok's token endpoint accepts a form POST with "client_key" instead of "client_id".
	form := url.Values{}
	form.Set("client_key", t.config.ClientID)
	form.Set("client_secret", t.config.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", t.config.RedirectURI)

	// Form the HTTP request.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tiktokTokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("error in http.NewRequestWithContext call: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// Execute request.
	res, err := t.httpClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("error in httpClient.Do call: %w", err)
	}
	// Close response body upon return.
	defer func() { _ = res.Body.Close() }()

	// Decode the response and check the error envelope before the status code.
	var tokenResponse tiktokTokenResponse
	if err := json.NewDecoder(res.Body).Decode(&tokenResponse); err != nil {
		return Token{}, fmt.Errorf("error in json Decode call: %w", err)
	}

	if tokenResponse.Error.present() {
		description := tokenResponse.ErrorDescription
		if description == "" {
			description = tokenResponse.Error.Message
		}
		slog.ErrorContext(ctx, "tiktok token exchange failed",
			"code", res.StatusCode, "error", tokenResponse.Error.Code)
		return Token{}, &OAuthError{ErrCode: tokenResponse.Error.Code, Description: description}
	}

	if !is2xx(res.StatusCode) {
		return Token{}, fmt.Errorf("token request failed with status code: %d", res.StatusCode)
	}

	// Prefer the "data" wrapper when present, fall back to the flat form.
	data := tokenResponse.tiktokTokenData
	if tokenResponse.Data != nil {
		data = *tokenResponse.Data
	}

	return Token{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		TokenType:    data.TokenType,
		Scope:        data.Scope,
		ExpiresIn:    data.ExpiresIn,
	}, nil
}

func (t *TikTok) UserInfo(ctx context.Context, accessToken string) (Identity, error) {
	// The user-info endpoint is a POST with a JSON body listing the requested fields.
	body, err := json.Marshal(map[string]any{
		"fields": []string{"open_id", "union_id", "avatar_url", "display_name", "username"},
	})
	if err != nil {
		return Identity{}, fmt.Errorf("error in json.Marshal call: %w", err)
	}

	// Form the HTTP request.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tiktokUserInfoURL, bytes.NewReader(body))
	if err != nil {
		return Identity{}, fmt.Errorf("error in http.NewRequestWithContext call: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	// Execute request.
	res, err := t.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("error in httpClient.Do call: %w", err)
	}
	// Close response body upon return.
	defer func() { _ = res.Body.Close() }()

	// Decode the response.
	var userInfo tiktokUserInfoResponse
	if err := json.NewDecoder(res.Body).Decode(&userInfo); err != nil {
		return Identity{}, fmt.Errorf("error in json Decode call: %w", err)
	}

	if userInfo.Error.present() {
		slog.ErrorContext(ctx, "tiktok userinfo request failed",
			"code", res.StatusCode, "message", userInfo.Error.Message)
		return Identity{}, &APIError{Message: userInfo.Error.Message}
	}

	if !is2xx(res.StatusCode) {
		return Identity{}, fmt.Errorf("userinfo request failed with status code: %d", res.StatusCode)
	}

	user := userInfo.Data.User

	identity := Identity{
		Provider:       t.Name(),
		ProviderUserID: user.OpenID,
		DisplayName:    user.DisplayName,
		AvatarURL:      user.AvatarURL,
	}

	// TikTok does not expose email addresses. Synthesize a local placeholder so downstream
	// account creation, which requires an email, can proceed.
	identity.Email = user.DisplayName + "@tiktok.local"
	identity.EmailSynthetic = true

	return identity, nil
}
