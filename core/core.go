package core

import "time"

const (
	DefaultCookieName = "RJ_session"
	DefaultLoginPath  = "/login"
	DefaultMaxAge     = 30 * 24 * time.Hour
)

type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	// Secure marks the cookie HTTPS-only. Leave off for local plain-HTTP development.
	Secure    bool
	LoginPath string
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		CookieName: DefaultCookieName,
		MaxAge:     DefaultMaxAge,
		LoginPath:  DefaultLoginPath,
	}
}
