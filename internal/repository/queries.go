package repository

import (
	"database/sql"
	"time"
)

func findAccountIDByEmailQuery(email string) (string, []any) {
	return `SELECT id FROM accounts WHERE email = $1`, []any{email}
}

func handleExistsQuery(handle string) (string, []any) {
	return `SELECT EXISTS (SELECT 1 FROM accounts WHERE handle = $1)`, []any{handle}
}

func insertAccountQuery(a Account) (string, []any) {
	return `INSERT INTO accounts (id, email, handle, given_name, family_name, avatar_url, credential)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		[]any{a.ID, a.Email, a.Handle, a.GivenName, a.FamilyName, a.AvatarURL, a.Credential}
}

func findLinkAccountIDQuery(provider, providerUserID string) (string, []any) {
	return `SELECT account_id FROM auth_links WHERE provider = $1 AND provider_user_id = $2`,
		[]any{provider, providerUserID}
}

func insertLinkQuery(l Link) (string, []any) {
	return `INSERT INTO auth_links (id, account_id, provider, provider_user_id, access_token, refresh_token, token_expiry)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		[]any{l.ID, l.AccountID, l.Provider, l.ProviderUserID, l.AccessToken, l.RefreshToken,
			nullableTime(l.TokenExpiry)}
}

func updateLinkTokensQuery(provider, providerUserID string, l Link) (string, []any) {
	return `UPDATE auth_links SET access_token = $3, refresh_token = $4, token_expiry = $5, updated_at = now()
WHERE provider = $1 AND provider_user_id = $2`,
		[]any{provider, providerUserID, l.AccessToken, l.RefreshToken, nullableTime(l.TokenExpiry)}
}

// nullableTime maps the zero time to SQL NULL. Providers don't always report token expiry.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return t
}
