package handler

import (
	"errors"
	"regexp"
)

var errInvalidProviderName = errors.New("provider must be upto 20 characters and must include only a-z, 0-9, - and _")

var providerRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// validateProvider validates the provider name parameter when received from an external user.
func validateProvider(p string) error {
	if len(p) == 0 || len(p) > 20 {
		return errInvalidProviderName
	}

	if !providerRegex.MatchString(p) {
		return errInvalidProviderName
	}

	return nil
}
