package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/4wpdev/4wp-auth/pkg/utils/httputils"
)

func newTestFacebook() *Facebook {
	return NewFacebook(Config{
		ClientID:     "mockAppID",
		ClientSecret: "mockAppSecret",
		RedirectURI:  "https://host.example.com/api/v1/callback/facebook",
	})
}

func TestFacebook_Name(t *testing.T) {
	require.Equal(t, "facebook", (&Facebook{}).Name())
}

func TestFacebook_GetAuthURL(t *testing.T) {
	// Mock inputs.
	mockState := "mockState"
	facebook := newTestFacebook()

	// Method to test.
	authURL := facebook.GetAuthURL(context.Background(), mockState)

	// Verify that the returned URL is valid.
	parsed, err := url.Parse(authURL)
	require.NoError(t, err, "Expected URL parsing to succeed")

	// Returned URL must be the Facebook dialog URL.
	require.Equal(t, facebookAuthURL, parsed.Scheme+"://"+parsed.Host+parsed.Path)

	// Match query params. Facebook scopes are comma-joined.
	require.Equal(t, facebook.config.ClientID, parsed.Query().Get("client_id"), "Incorrect Client ID")
	require.Equal(t, "email,public_profile", parsed.Query().Get("scope"), "Incorrect Scope")
	require.Equal(t, "code", parsed.Query().Get("response_type"), "Incorrect Response Type")
	require.Equal(t, facebook.config.RedirectURI, parsed.Query().Get("redirect_uri"), "Incorrect Redirect URI")
	require.Equal(t, mockState, parsed.Query().Get("state"), "Incorrect state")
}

func TestFacebook_TokenFromCode(t *testing.T) {
	// Mock inputs.
	mockCode := "mockCode"
	facebook := newTestFacebook()

	// Mock success response.
	validTokenResponse := facebookTokenResponse{
		AccessToken: "mockAccessToken",
		TokenType:   "bearer",
		ExpiresIn:   5183944,
	}

	validResponseJSON, err := json.Marshal(validTokenResponse)
	require.NoError(t, err, "Failed to marshal success response")

	errorResponseJSON := []byte(`{"error":{"message":"Invalid verification code format.","type":"OAuthException","code":100}}`)

	for _, tc := range []struct {
		name             string
		mockResponse     *http.Response
		errExpected      bool
		oauthErrExpected bool
	}{
		{
			name: "Everything good, no errors",
			mockResponse: &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewReader(validResponseJSON)),
			},
		},
		{
			name: "Provider returns error envelope, OAuthError expected",
			mockResponse: &http.Response{
				StatusCode: http.StatusBadRequest,
				Body:       io.NopCloser(bytes.NewReader(errorResponseJSON)),
			},
			errExpected:      true,
			oauthErrExpected: true,
		},
		{
			name: "Response body fails to unmarshal, error expected",
			mockResponse: &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewReader([]byte("not-json"))),
			},
			errExpected: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Transport to mock the HTTP request.
			transport := httputils.RoundTripFunc(func(req *http.Request) *http.Response {
				// The exchange must be a GET with query-string credentials.
				require.Equal(t, http.MethodGet, req.Method)
				require.True(t, strings.HasPrefix(req.URL.String(), facebookTokenURL),
					"Unexpected token endpoint")

				q := req.URL.Query()
				require.Equal(t, facebook.config.ClientID, q.Get("client_id"))
				require.Equal(t, facebook.config.ClientSecret, q.Get("client_secret"))
				require.Equal(t, facebook.config.RedirectURI, q.Get("redirect_uri"))
				require.Equal(t, mockCode, q.Get("code"))
				return tc.mockResponse
			})

			// Attach mock HTTP client.
			facebook.httpClient = &http.Client{Transport: transport}
			token, err := facebook.TokenFromCode(context.Background(), mockCode)

			// Verify based on error expectation.
			if tc.errExpected {
				require.Error(t, err, "Expected error but got none")
				if tc.oauthErrExpected {
					var oauthErr *OAuthError
					require.ErrorAs(t, err, &oauthErr, "Expected an OAuthError")
					require.Equal(t, "Invalid verification code format.", oauthErr.Description)
				}
				return
			}

			require.NoError(t, err, "Expected no error but got one")
			require.Equal(t, validTokenResponse.AccessToken, token.AccessToken)
		})
	}
}

func TestFacebook_UserInfo(t *testing.T) {
	// Mock inputs.
	mockAccessToken := "mockAccessToken"
	mockAvatarURL := "https://scontent.example.com/avatar.jpg"

	validUserInfo := facebookUserInfoResponse{
		ID:        "10223344",
		Name:      "John Doe",
		Email:     "john@hey.com",
		FirstName: "John",
		LastName:  "Doe",
	}

	validResponseJSON, err := json.Marshal(validUserInfo)
	require.NoError(t, err, "Failed to marshal success response")

	for _, tc := range []struct {
		name           string
		pictureStatus  int
		pictureHeaders http.Header
		avatarExpected string
	}{
		{
			name:           "Picture endpoint redirects, avatar resolved from Location header",
			pictureStatus:  http.StatusFound,
			pictureHeaders: http.Header{"Location": []string{mockAvatarURL}},
			avatarExpected: mockAvatarURL,
		},
		{
			name:           "Picture endpoint fails, avatar absent but login succeeds",
			pictureStatus:  http.StatusInternalServerError,
			pictureHeaders: http.Header{},
			avatarExpected: "",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			facebook := newTestFacebook()

			// Transport for the userinfo call.
			transport := httputils.RoundTripFunc(func(req *http.Request) *http.Response {
				require.Equal(t, http.MethodGet, req.Method)
				require.True(t, strings.HasPrefix(req.URL.String(), facebookUserInfoURL),
					"Unexpected userinfo endpoint")
				require.Equal(t, "id,name,email,first_name,last_name", req.URL.Query().Get("fields"))
				require.Equal(t, mockAccessToken, req.URL.Query().Get("access_token"))

				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewReader(validResponseJSON)),
				}
			})

			// Transport for the picture call. It must not be followed as a redirect.
			pictureTransport := httputils.RoundTripFunc(func(req *http.Request) *http.Response {
				require.Contains(t, req.URL.Path, "/"+validUserInfo.ID+"/picture")
				require.Equal(t, "large", req.URL.Query().Get("type"))

				return &http.Response{
					StatusCode: tc.pictureStatus,
					Header:     tc.pictureHeaders,
					Body:       io.NopCloser(bytes.NewReader(nil)),
				}
			})

			facebook.httpClient = &http.Client{Transport: transport}
			facebook.pictureClient = &http.Client{
				Transport: pictureTransport,
				CheckRedirect: func(req *http.Request, via []*http.Request) error {
					return http.ErrUseLastResponse
				},
			}

			identity, err := facebook.UserInfo(context.Background(), mockAccessToken)
			require.NoError(t, err, "Expected no error but got one")

			require.Equal(t, Identity{
				Provider:       "facebook",
				ProviderUserID: validUserInfo.ID,
				Email:          validUserInfo.Email,
				DisplayName:    validUserInfo.Name,
				GivenName:      validUserInfo.FirstName,
				FamilyName:     validUserInfo.LastName,
				AvatarURL:      tc.avatarExpected,
			}, identity)
		})
	}
}

func TestFacebook_UserInfo_ErrorEnvelope(t *testing.T) {
	facebook := newTestFacebook()

	transport := httputils.RoundTripFunc(func(req *http.Request) *http.Response {
		return &http.Response{
			StatusCode: http.StatusBadRequest,
			Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"Invalid OAuth access token.","type":"OAuthException"}}`)),
		}
	})
	facebook.httpClient = &http.Client{Transport: transport}

	_, err := facebook.UserInfo(context.Background(), "badToken")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr, "Expected an APIError")
	require.Equal(t, "Invalid OAuth access token.", apiErr.Message)
}
