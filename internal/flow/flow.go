// Package flow implements the authorize-callback state machine that coordinates the state store,
// the provider clients, account resolution and session issuance.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/4wpdev/4wp-auth/internal/resolver"
	"github.com/4wpdev/4wp-auth/internal/statestore"
	"github.com/4wpdev/4wp-auth/pkg/oauth"
	"github.com/4wpdev/4wp-auth/pkg/utils/errutils"
)

// maxUpstreamMessageLen caps provider-supplied error text before it travels on a redirect URL.
const maxUpstreamMessageLen = 200

// AccountResolver resolves a normalized identity to a local account ID.
type AccountResolver interface {
	Resolve(ctx context.Context, identity oauth.Identity, token oauth.Token) (string, error)
}

// SessionIssuer mints a session credential for a resolved account.
type SessionIssuer interface {
	IssueSession(ctx context.Context, accountID string) (string, error)
}

// CallbackInput carries the query parameters the provider sends to the callback endpoint.
type CallbackInput struct {
	Provider         string
	Code             string
	State            string
	ErrorCode        string
	ErrorDescription string
}

// CallbackResult is the outcome of a successful callback.
type CallbackResult struct {
	AccountID    string
	Identity     oauth.Identity
	SessionToken string
}

// Orchestrator presents the two public operations of the login flow.
type Orchestrator struct {
	registry *oauth.Registry
	states   statestore.Store
	resolver AccountResolver
	sessions SessionIssuer
}

// New returns a new Orchestrator with the given collaborators.
func New(registry *oauth.Registry, states statestore.Store, accountResolver AccountResolver,
	sessions SessionIssuer) *Orchestrator {
	return &Orchestrator{registry: registry, states: states, resolver: accountResolver, sessions: sessions}
}

// AuthURL returns the provider's authorization URL carrying a freshly issued state token.
func (o *Orchestrator) AuthURL(ctx context.Context, providerName string) (string, error) {
	provider := o.registry.Get(providerName)
	if provider == nil {
		return "", errInvalidProvider
	}

	if !provider.Enabled() {
		return "", errProviderDisabled
	}

	state, err := o.states.Issue(ctx, providerName)
	if err != nil {
		return "", fmt.Errorf("error in states.Issue call: %w", err)
	}

	return provider.GetAuthURL(ctx, state), nil
}

// HandleCallback runs the code-to-session sequence for a provider callback.
func (o *Orchestrator) HandleCallback(ctx context.Context, in CallbackInput) (CallbackResult, error) {
	// A set error parameter means the user denied or the provider aborted. Nothing further to
	// verify, the flow is over.
	if in.ErrorCode != "" {
		slog.WarnContext(ctx, "provider called back with error",
			"provider", in.Provider, "error", in.ErrorCode)
		return CallbackResult{}, errUpstreamDenied.WithReasonStr(upstreamMessage(in))
	}

	if in.Code == "" {
		slog.ErrorContext(ctx, "callback without authorization code", "provider", in.Provider)
		return CallbackResult{}, errMissingCode
	}

	provider := o.registry.Get(in.Provider)
	if provider == nil {
		slog.ErrorContext(ctx, "callback for unknown provider", "provider", in.Provider)
		return CallbackResult{}, errInvalidProvider
	}

	// State verification is mandatory. An absent state is treated exactly like a forged one,
	// and consumption guarantees a replayed callback can never verify twice.
	ok, err := o.states.VerifyAndConsume(ctx, in.Provider, in.State)
	if err != nil {
		return CallbackResult{}, fmt.Errorf("error in states.VerifyAndConsume call: %w", err)
	}
	if !ok {
		// Potential CSRF or a very late callback. Either way, fail closed.
		slog.ErrorContext(ctx, "state verification failed", "provider", in.Provider)
		return CallbackResult{}, errInvalidState
	}

	// Exchange the code. Never retried: authorization codes are single-use and a retry after an
	// ambiguous failure could fail spuriously.
	token, err := provider.TokenFromCode(ctx, in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "token exchange failed", "provider", in.Provider, "error", err)
		return CallbackResult{}, mapProviderError(err, errTokenExchange)
	}

	identity, err := provider.UserInfo(ctx, token.AccessToken)
	if err != nil {
		slog.ErrorContext(ctx, "profile fetch failed", "provider", in.Provider, "error", err)
		return CallbackResult{}, mapProviderError(err, errProviderAPI)
	}

	accountID, err := o.resolver.Resolve(ctx, identity, token)
	if err != nil {
		slog.ErrorContext(ctx, "account resolution failed", "provider", in.Provider, "error", err)
		if errors.Is(err, resolver.ErrNoEmail) {
			return CallbackResult{}, errNoEmail
		}
		return CallbackResult{}, errResolution
	}

	sessionToken, err := o.sessions.IssueSession(ctx, accountID)
	if err != nil {
		slog.ErrorContext(ctx, "session issuance failed", "account_id", accountID, "error", err)
		return CallbackResult{}, errSessionIssue
	}

	slog.InfoContext(ctx, "login flow completed", "provider", in.Provider, "account_id", accountID)
	return CallbackResult{AccountID: accountID, Identity: identity, SessionToken: sessionToken}, nil
}

// upstreamMessage joins the provider's error code and description into a display message.
func upstreamMessage(in CallbackInput) string {
	message := in.ErrorCode
	if in.ErrorDescription != "" {
		message += ": " + in.ErrorDescription
	}
	return truncate(message, maxUpstreamMessageLen)
}

// mapProviderError converts provider adapter errors into user-displayable flow errors. Only the
// provider's own error text is surfaced, transport failures get a generic message.
func mapProviderError(err error, envelope *errutils.HTTPError) error {
	var oauthErr *oauth.OAuthError
	if errors.As(err, &oauthErr) {
		return envelope.WithReasonStr(truncate(oauthErr.Error(), maxUpstreamMessageLen))
	}

	var apiErr *oauth.APIError
	if errors.As(err, &apiErr) {
		return envelope.WithReasonStr(truncate(apiErr.Error(), maxUpstreamMessageLen))
	}

	return errProviderUnreachable
}

// truncate caps s at max characters.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
