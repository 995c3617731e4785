// Package resolver maps normalized provider identities to local accounts.
package resolver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/4wpdev/4wp-auth/internal/repository"
	"github.com/4wpdev/4wp-auth/pkg/oauth"
)

// ErrNoEmail is returned when a new account would be needed but the identity carries no email.
// Recognizing a returning linked user never requires an email.
var ErrNoEmail = errors.New("email is required to create an account")

// maxHandleProbes bounds the suffix search during handle generation.
const maxHandleProbes = 1000

// handleSanitizer matches every character that is not allowed in a handle.
var handleSanitizer = regexp.MustCompile(`[^a-z0-9._-]+`)

// Resolver resolves identities against the account repository.
type Resolver struct {
	repo repository.Repository
}

// New returns a new Resolver backed by the given repository.
func New(repo repository.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the local account ID for the given identity, creating or linking an account as
// needed. The provider tokens are persisted on the identity's link record.
//
// Resolution order:
//  1. An existing link on (provider, provider_user_id) wins and gets its tokens refreshed.
//  2. A real (non-synthetic) email matching an existing account attaches a new link to it.
//  3. Otherwise a new account is created with a generated unique handle.
func (r *Resolver) Resolve(ctx context.Context, identity oauth.Identity, token oauth.Token) (string, error) {
	// Returning linked user.
	accountID, err := r.repo.FindLinkAccountID(ctx, identity.Provider, identity.ProviderUserID)
	if err == nil {
		link := repository.Link{
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			TokenExpiry:  token.Expiry(),
		}
		if err := r.repo.UpdateLinkTokens(ctx, identity.Provider, identity.ProviderUserID, link); err != nil {
			// The account is resolved either way. Stale tokens are not worth failing a login.
			slog.WarnContext(ctx, "failed to refresh link tokens", "error", err)
		}
		return accountID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("error in FindLinkAccountID call: %w", err)
	}

	// No link. An email is mandatory from here on.
	if identity.Email == "" {
		return "", ErrNoEmail
	}

	// First-pass heuristic: attach to an existing account with the same email. Synthetic
	// placeholder emails are excluded, two remote users must never fold into one account just
	// because their placeholder collided.
	if !identity.EmailSynthetic {
		accountID, err := r.repo.FindAccountIDByEmail(ctx, identity.Email)
		if err == nil {
			if err := r.attachLink(ctx, accountID, identity, token); err != nil {
				return "", err
			}
			return accountID, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("error in FindAccountIDByEmail call: %w", err)
		}
	}

	return r.createAccount(ctx, identity, token)
}

// attachLink records a new provider link on an existing account.
func (r *Resolver) attachLink(ctx context.Context, accountID string, identity oauth.Identity, token oauth.Token) error {
	link := repository.Link{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		Provider:       identity.Provider,
		ProviderUserID: identity.ProviderUserID,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		TokenExpiry:    token.Expiry(),
	}

	if err := r.repo.CreateLink(ctx, link); err != nil {
		return fmt.Errorf("error in CreateLink call: %w", err)
	}
	return nil
}

// createAccount creates a fresh local account for the identity, links it, and returns its ID.
func (r *Resolver) createAccount(ctx context.Context, identity oauth.Identity, token oauth.Token) (string, error) {
	handle, err := r.generateHandle(ctx, identity)
	if err != nil {
		return "", err
	}

	credential, err := placeholderCredential()
	if err != nil {
		return "", err
	}

	account := repository.Account{
		ID:         uuid.NewString(),
		Email:      identity.Email,
		Handle:     handle,
		GivenName:  identity.GivenName,
		FamilyName: identity.FamilyName,
		AvatarURL:  identity.AvatarURL,
		Credential: credential,
	}

	if err := r.repo.CreateAccount(ctx, account); err != nil {
		return "", fmt.Errorf("error in CreateAccount call: %w", err)
	}

	if err := r.attachLink(ctx, account.ID, identity, token); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "new account resolved from provider identity",
		"account_id", account.ID, "provider", identity.Provider)
	return account.ID, nil
}

// generateHandle derives a unique handle for a new account. The base comes from the display name,
// falling back to the email's local part. On collision, a numeric suffix starting at 1 is probed
// until a free handle is found.
func (r *Resolver) generateHandle(ctx context.Context, identity oauth.Identity) (string, error) {
	base := sanitizeHandle(identity.DisplayName)
	if base == "" {
		local, _, _ := strings.Cut(identity.Email, "@")
		base = sanitizeHandle(local)
	}
	if base == "" {
		base = "user"
	}

	handle := base
	for probe := 1; probe <= maxHandleProbes; probe++ {
		exists, err := r.repo.HandleExists(ctx, handle)
		if err != nil {
			return "", fmt.Errorf("error in HandleExists call: %w", err)
		}
		if !exists {
			return handle, nil
		}
		handle = base + strconv.Itoa(probe)
	}

	return "", fmt.Errorf("could not find a free handle for base %q", base)
}

// sanitizeHandle lowercases the input and strips every disallowed character.
func sanitizeHandle(s string) string {
	return handleSanitizer.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

// placeholderCredential returns a bcrypt hash of a random secret. It exists only to satisfy the
// account schema, these accounts authenticate through their provider.
func placeholderCredential() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error in rand.Read call: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(base64.RawStdEncoding.EncodeToString(buf)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("error in bcrypt.GenerateFromPassword call: %w", err)
	}

	return string(hash), nil
}
