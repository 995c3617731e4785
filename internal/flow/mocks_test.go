package flow

import (
	"context"

	"github.com/4wpdev/4wp-auth/pkg/oauth"
)

// mockProvider is a mock implementation of the oauth.Provider interface.
type mockProvider struct {
	// To mock the Name and Enabled methods.
	name    string
	enabled bool
	// To mock the GetAuthURL method.
	argState string
	authURL  string
	// To mock the TokenFromCode method.
	argCode          string
	calledExchange   bool
	errTokenFromCode error
	token            oauth.Token
	// To mock the UserInfo method.
	argAccessToken string
	errUserInfo    error
	identity       oauth.Identity
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Enabled() bool { return m.enabled }

func (m *mockProvider) GetAuthURL(_ context.Context, state string) string {
	m.argState = state
	return m.authURL
}

func (m *mockProvider) TokenFromCode(_ context.Context, code string) (oauth.Token, error) {
	m.argCode, m.calledExchange = code, true
	if m.errTokenFromCode != nil {
		return oauth.Token{}, m.errTokenFromCode
	}
	return m.token, nil
}

func (m *mockProvider) UserInfo(_ context.Context, accessToken string) (oauth.Identity, error) {
	m.argAccessToken = accessToken
	if m.errUserInfo != nil {
		return oauth.Identity{}, m.errUserInfo
	}
	return m.identity, nil
}

// mockStateStore is a mock implementation of the statestore.Store interface.
type mockStateStore struct {
	issuedToken string
	errIssue    error

	argProvider string
	argToken    string
	verifyOK    bool
	errVerify   error
}

func (m *mockStateStore) Issue(_ context.Context, _ string) (string, error) {
	if m.errIssue != nil {
		return "", m.errIssue
	}
	return m.issuedToken, nil
}

func (m *mockStateStore) VerifyAndConsume(_ context.Context, provider, token string) (bool, error) {
	m.argProvider, m.argToken = provider, token
	return m.verifyOK, m.errVerify
}

// mockResolver is a mock implementation of the AccountResolver interface.
type mockResolver struct {
	argIdentity oauth.Identity
	accountID   string
	errResolve  error
}

func (m *mockResolver) Resolve(_ context.Context, identity oauth.Identity, _ oauth.Token) (string, error) {
	m.argIdentity = identity
	if m.errResolve != nil {
		return "", m.errResolve
	}
	return m.accountID, nil
}

// mockSessions is a mock implementation of the SessionIssuer interface.
type mockSessions struct {
	argAccountID string
	token        string
	errIssue     error
}

func (m *mockSessions) IssueSession(_ context.Context, accountID string) (string, error) {
	m.argAccountID = accountID
	if m.errIssue != nil {
		return "", m.errIssue
	}
	return m.token, nil
}
