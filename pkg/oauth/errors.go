package oauth

// OAuthError is returned when a provider's token endpoint responds with an error envelope.
// It carries the provider's own error code and description for display.
type OAuthError struct {
	ErrCode     string
	Description string
}

// Error implements the error interface.
func (e *OAuthError) Error() string {
	if e.Description == "" {
		return e.ErrCode
	}
	return e.Description
}

// APIError is returned when a provider's user-info endpoint responds with an error envelope.
type APIError struct {
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return "unknown provider API error"
	}
	return e.Message
}
