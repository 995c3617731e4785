package flow

import "github.com/4wpdev/4wp-auth/pkg/utils/errutils"

// The callback endpoint is reached by browser navigation, so every one of these must carry a
// message that is safe to show to the end user. Diagnostic detail stays in the server logs.
var (
	errInvalidProvider = errutils.BadRequest().
				WithCode("invalid_provider").WithReasonStr("unknown authentication provider")

	errProviderDisabled = errutils.Forbidden().
				WithCode("provider_disabled").WithReasonStr("this provider is not enabled")

	errMissingCode = errutils.BadRequest().
			WithCode("missing_code").WithReasonStr("authorization code is missing")

	errInvalidState = errutils.BadRequest().
			WithCode("invalid_state").WithReasonStr("invalid or expired state parameter")

	errUpstreamDenied = errutils.BadRequest().
				WithCode("upstream_denied")

	errProviderUnreachable = errutils.BadGateway().
				WithCode("provider_unreachable").WithReasonStr("could not reach the authentication provider")

	errTokenExchange = errutils.BadGateway().
				WithCode("oauth_error")

	errProviderAPI = errutils.BadGateway().
			WithCode("api_error")

	errNoEmail = errutils.BadRequest().
			WithCode("no_email").WithReasonStr("the provider did not supply an email address")

	errResolution = errutils.InternalServerError().
			WithCode("resolution_failed").WithReasonStr("could not resolve a local account")

	errSessionIssue = errutils.InternalServerError().
			WithCode("session_failed").WithReasonStr("could not establish a session")
)
