// Package credentials resolves the controller identity used by a single
// tool call. Three tiers can supply it, highest precedence first: an
// explicit per-call override, a session looked up by token, and the static
// process configuration.
package credentials

import (
	"strings"

	"apstramcp/internal/config"
)

// DefaultPort is appended to a server value that does not embed a port.
const DefaultPort = "443"

// Bundle is one authentication identity against the controller. It is
// immutable once resolved for a call.
type Bundle struct {
	Server   string
	Port     string
	Username string
	Password string
}

// Addr returns the host:port the controller is reachable at. A Server value
// that already embeds a port is used verbatim; otherwise the configured Port
// is appended, defaulting to 443.
func (b Bundle) Addr() string {
	return JoinServerPort(b.Server, b.Port)
}

func (b Bundle) usable() bool {
	return b.Server != "" && b.Username != "" && b.Password != ""
}

// JoinServerPort applies the uniform server/port combination policy.
func JoinServerPort(server, port string) string {
	if strings.Contains(server, ":") {
		return server
	}
	if port == "" {
		port = DefaultPort
	}
	return server + ":" + port
}

// ConfigurationError reports that no tier yielded a usable identity.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// SessionValidator looks up the credentials bound to a session token.
// A false return means the token is absent, unknown or expired.
type SessionValidator interface {
	Validate(token string) (Bundle, bool)
}

// Resolve determines the identity for one call.
//
// Precedence: explicit override, then session-bound credentials (when a
// token and a validator are supplied), then the static configuration.
// An override that only names a server borrows username/password from the
// lower tiers.
func Resolve(override *Bundle, sessionToken string, sessions SessionValidator, cfg config.Config) (Bundle, error) {
	base := Bundle{
		Server:   cfg.Server,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
	}

	if sessionToken != "" && sessions != nil {
		if b, ok := sessions.Validate(sessionToken); ok {
			base = b
		}
	}

	if override != nil {
		if override.Server != "" {
			base.Server = override.Server
			base.Port = override.Port
		}
		if override.Username != "" {
			base.Username = override.Username
			base.Password = override.Password
		}
	}

	if !base.usable() {
		return Bundle{}, &ConfigurationError{
			Reason: "no usable Apstra credentials: supply a server_url, a valid session_token, or a populated config file",
		}
	}

	return base, nil
}
