package handler

import (
	"context"

	"github.com/4wpdev/4wp-auth/internal/flow"
)

// mockFlow is a mock implementation of the Flow interface.
type mockFlow struct {
	// To mock the AuthURL method.
	argProvider string
	authURL     string
	errAuthURL  error

	// To mock the HandleCallback method.
	argInput    flow.CallbackInput
	result      flow.CallbackResult
	errCallback error
}

func (m *mockFlow) AuthURL(_ context.Context, providerName string) (string, error) {
	m.argProvider = providerName
	if m.errAuthURL != nil {
		return "", m.errAuthURL
	}
	return m.authURL, nil
}

func (m *mockFlow) HandleCallback(_ context.Context, in flow.CallbackInput) (flow.CallbackResult, error) {
	m.argInput = in
	if m.errCallback != nil {
		return flow.CallbackResult{}, m.errCallback
	}
	return m.result, nil
}
