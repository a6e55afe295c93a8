package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultName   = "RJ_session"
	DefaultPath   = "/"
	DefaultMaxAge = 30 * 24 * time.Hour
)

var (
	ErrNoSecrets   = errors.New("at least one session secret is required")
	ErrEmptySecret = errors.New("session secrets must not be empty")
)

type Options struct {
	Name string
	// Secrets are ordered newest first. The first one signs, all of them verify.
	Secrets []string
	MaxAge  time.Duration
	Secure  bool
	Path    string
}

type claims struct {
	Data map[string]any `json:"data"`
	jwt.RegisteredClaims
}

// Codec turns a Cookie request header into a Session and a Session back into
// a Set-Cookie header value. Payloads are HS256-signed and carry their own
// expiry, so a cookie replayed after Max-Age is rejected server-side too.
type Codec struct {
	name   string
	keys   [][]byte
	maxAge time.Duration
	secure bool
	path   string
	now    func() time.Time
}

func NewCodec(opts Options) (*Codec, error) {
	if len(opts.Secrets) == 0 {
		return nil, ErrNoSecrets
	}

	keys := make([][]byte, 0, len(opts.Secrets))
	for _, secret := range opts.Secrets {
		if secret == "" {
			return nil, ErrEmptySecret
		}
		keys = append(keys, []byte(secret))
	}

	c := &Codec{
		name:   opts.Name,
		keys:   keys,
		maxAge: opts.MaxAge,
		secure: opts.Secure,
		path:   opts.Path,
		now:    time.Now,
	}
	if c.name == "" {
		c.name = DefaultName
	}
	if c.maxAge <= 0 {
		c.maxAge = DefaultMaxAge
	}
	if c.path == "" {
		c.path = DefaultPath
	}

	return c, nil
}

// Name is the cookie name this codec reads and writes.
func (c *Codec) Name() string {
	return c.name
}

func (c *Codec) Empty() *Session {
	return newSession(nil)
}

// Decode never fails: a missing, expired, malformed or tampered cookie
// decodes to an empty session.
func (c *Codec) Decode(cookieHeader string) *Session {
	if cookieHeader == "" {
		return c.Empty()
	}

	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return c.Empty()
	}

	for _, cookie := range cookies {
		if cookie.Name != c.name {
			continue
		}
		if data, ok := c.verify(cookie.Value); ok {
			return newSession(data)
		}
	}

	return c.Empty()
}

// verify tries every key, newest first. Only a signature mismatch moves on
// to the next key; any other failure rejects the token outright.
func (c *Codec) verify(token string) (map[string]any, bool) {
	if token == "" {
		return nil, false
	}

	for _, key := range c.keys {
		var cl claims
		_, err := jwt.ParseWithClaims(token, &cl,
			func(*jwt.Token) (any, error) { return key, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithStrictDecoding(),
			jwt.WithTimeFunc(c.now),
		)
		if err == nil {
			return cl.Data, true
		}
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, false
		}
	}

	return nil, false
}

// Encode signs s with the newest secret and returns the Set-Cookie header value.
func (c *Codec) Encode(s *Session) (string, error) {
	now := c.now()
	cl := claims{
		Data: s.values,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}

	cookie := c.cookie(token)
	cookie.MaxAge = int(c.maxAge / time.Second)
	return cookie.String(), nil
}

// Destroy empties s and returns a Set-Cookie header value that makes the
// client drop the cookie.
func (c *Codec) Destroy(s *Session) string {
	s.clear()

	cookie := c.cookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0).UTC()
	return cookie.String()
}

func (c *Codec) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     c.path,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
