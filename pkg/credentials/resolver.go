package credentials

import "apstramcp/internal/config"

// SessionError reports a supplied session token that is unknown or
// expired. It is distinct from controller-side failures so clients can
// decide to re-login rather than retry the operation.
type SessionError struct {
	Reason string
}

func (e *SessionError) Error() string {
	return "session error: " + e.Reason
}

// Resolver resolves the credential bundle for one tool call against the
// process configuration and, on the HTTP transport, the session store.
type Resolver struct {
	Sessions SessionValidator
	Config   config.Config

	// RequireSession makes a supplied-but-invalid session token an error
	// instead of a silent fall-through to the static configuration. Set on
	// the HTTP transport, where callers are distinct users.
	RequireSession bool
}

// ForCall resolves credentials from the tool call's optional serverURL
// override and session token.
func (r *Resolver) ForCall(serverURL, sessionToken string) (Bundle, error) {
	if r.RequireSession && sessionToken != "" {
		if _, ok := r.Sessions.Validate(sessionToken); !ok {
			return Bundle{}, &SessionError{Reason: "invalid or expired session token"}
		}
	}

	var override *Bundle
	if serverURL != "" {
		override = &Bundle{Server: serverURL}
	}

	return Resolve(override, sessionToken, r.Sessions, r.Config)
}
