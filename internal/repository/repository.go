// Package repository persists local accounts and their provider identity links.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// Account represents a local user account.
//
// Credential is a bcrypt hash of a random placeholder. Accounts created through social login are
// provider-authenticated, the credential only exists because the account schema requires one.
type Account struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Handle     string `json:"handle"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	AvatarURL  string `json:"avatar_url"`
	Credential string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Link is the persisted association between a local account and a provider identity.
// (Provider, ProviderUserID) is unique: a provider identity maps to at most one account.
type Link struct {
	ID             string `json:"id"`
	AccountID      string `json:"account_id"`
	Provider       string `json:"provider"`
	ProviderUserID string `json:"provider_user_id"`

	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"token_expiry"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository encapsulates all operations available on the database.
type Repository interface {
	// FindAccountIDByEmail returns the ID of the account with the given email,
	// or ErrNotFound.
	FindAccountIDByEmail(ctx context.Context, email string) (string, error)

	// HandleExists reports whether any account already owns the given handle.
	HandleExists(ctx context.Context, handle string) (bool, error)

	// CreateAccount inserts the given account.
	CreateAccount(ctx context.Context, account Account) error

	// FindLinkAccountID returns the account ID linked to the given provider identity,
	// or ErrNotFound.
	FindLinkAccountID(ctx context.Context, provider, providerUserID string) (string, error)

	// CreateLink inserts the given link.
	CreateLink(ctx context.Context, link Link) error

	// UpdateLinkTokens refreshes the stored provider tokens and the updated_at timestamp of an
	// existing link.
	UpdateLinkTokens(ctx context.Context, provider, providerUserID string, link Link) error
}

// repository implements Repository on top of database/sql.
type repository struct {
	database *sql.DB
}

// NewRepository returns a new implementation of Repository.
func NewRepository(database *sql.DB) Repository {
	return &repository{database: database}
}

func (r *repository) FindAccountIDByEmail(ctx context.Context, email string) (string, error) {
	query, args := findAccountIDByEmailQuery(email)

	var id string
	if err := r.database.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("error in query execution: %w", err)
	}

	return id, nil
}

func (r *repository) HandleExists(ctx context.Context, handle string) (bool, error) {
	query, args := handleExistsQuery(handle)

	var exists bool
	if err := r.database.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error in query execution: %w", err)
	}

	return exists, nil
}

func (r *repository) CreateAccount(ctx context.Context, account Account) error {
	query, args := insertAccountQuery(account)
	if _, err := r.database.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error in query execution: %w", err)
	}

	slog.InfoContext(ctx, "account created", "id", account.ID, "handle", account.Handle)
	return nil
}

func (r *repository) FindLinkAccountID(ctx context.Context, provider, providerUserID string) (string, error) {
	query, args := findLinkAccountIDQuery(provider, providerUserID)

	var accountID string
	if err := r.database.QueryRowContext(ctx, query, args...).Scan(&accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("error in query execution: %w", err)
	}

	return accountID, nil
}

func (r *repository) CreateLink(ctx context.Context, link Link) error {
	query, args := insertLinkQuery(link)
	if _, err := r.database.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error in query execution: %w", err)
	}

	slog.InfoContext(ctx, "identity link created",
		"account_id", link.AccountID, "provider", link.Provider)
	return nil
}

func (r *repository) UpdateLinkTokens(ctx context.Context, provider, providerUserID string, link Link) error {
	query, args := updateLinkTokensQuery(provider, providerUserID, link)
	if _, err := r.database.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error in query execution: %w", err)
	}

	return nil
}
