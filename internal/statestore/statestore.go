// Package statestore issues and consumes the short-lived anti-forgery tokens that bind an
// authorization redirect to its callback.
package statestore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// DefaultTTL is the maximum time a provider gets to invoke the callback before the pending
// authorization request expires.
const DefaultTTL = 600 * time.Second

// tokenEntropyBytes is the amount of randomness behind every state token.
const tokenEntropyBytes = 32

// Store records pending authorization requests.
//
// Every token is single-use: the first VerifyAndConsume wins and removes the record, any
// subsequent call with the same token fails, even under concurrent delivery.
type Store interface {
	// Issue generates an opaque token bound to the given provider and records it with a TTL.
	Issue(ctx context.Context, provider string) (string, error)

	// VerifyAndConsume reports whether the token is known, unexpired and bound to the given
	// provider, deleting the record in the same step.
	VerifyAndConsume(ctx context.Context, provider, token string) (bool, error)
}

// newToken returns a fresh random state token.
func newToken() (string, error) {
	buf := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error in rand.Read call: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
