package jokes

import (
	"fmt"
	"log/slog"

	"github.com/lborres/jokes/core"
	"github.com/lborres/jokes/pkg/cache"
	"github.com/lborres/jokes/pkg/crypto"
	"github.com/lborres/jokes/pkg/session"
	"github.com/lborres/jokes/services"
)

// interfaces
type (
	Storage     = core.Storage
	UserStorage = core.UserStorage
	JokeStorage = core.JokeStorage
	UserCache   = core.UserCache

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	SessionConfig = core.SessionConfig
	CacheConfig   = core.CacheConfig
	CacheStats    = core.CacheStats
)

type (
	User            = core.User
	Joke            = core.Joke
	JokeListItem    = core.JokeListItem
	SessionIssuance = core.SessionIssuance
	AuthRedirect    = core.AuthRedirect
	Endpoint        = core.Endpoint
)

const minSecretLen = 32

const (
	DefaultCookieName = core.DefaultCookieName
	DefaultLoginPath  = core.DefaultLoginPath
	DefaultMaxAge     = core.DefaultMaxAge
)

// Constructors & helpers (convenience re-exports)
var (
	NewUserCache         = cache.NewUserCache
	NewBcrypt            = crypto.NewBcrypt
	NewArgon2            = crypto.NewArgon2
	DefaultSessionConfig = core.DefaultSessionConfig
)

var (
	ErrUserExists         = core.ErrUserExists
	ErrUserNotFound       = core.ErrUserNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
)

var (
	ErrUnauthenticated = core.ErrUnauthenticated
	ErrSessionRevoked  = core.ErrSessionRevoked
	ErrCacheNotFound   = core.ErrCacheNotFound
)

var (
	ErrJokeNotFound = core.ErrJokeNotFound
	ErrForbidden    = core.ErrForbidden
)

var (
	ErrMalformedSubmission = core.ErrMalformedSubmission
	ErrUnsupportedIntent   = core.ErrUnsupportedIntent
)

var (
	ErrStorageRequired     = core.ErrStorageRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
	ErrSecretRequired      = core.ErrSecretRequired
	ErrSecretTooShort      = core.ErrSecretTooShort
)

// HTTPAdapter mounts the site's endpoints on a web framework.
type HTTPAdapter interface {
	RegisterRoutes(j *Jokes) error
}

type Config struct {
	// Secrets key the session cookie. The first one signs; every one verifies.
	Secrets []string

	Database Storage

	HTTP HTTPAdapter

	// Optional config
	//
	// The user cache is off unless UserCache is set or EnableCache is true.
	// A cached identity is served for up to the cache TTL without asking the
	// store, so a deleted user keeps their session until the entry expires.
	UserCache      UserCache
	EnableCache    bool
	SessionConfig  *SessionConfig
	PasswordHasher PasswordHandler
	Logger         *slog.Logger
}

// Jokes is the assembled site: storage, session rules and the actions the
// HTTP adapter dispatches to.
type Jokes struct {
	Storage   Storage
	Sessions  *services.SessionManager
	Auth      *services.AuthService
	Content   *services.JokeService
	Actions   *services.Actions
	Endpoints *services.EndpointRegistry
	Cache     UserCache
	Logger    *slog.Logger
}

func New(config Config) (*Jokes, error) {
	if len(config.Secrets) == 0 {
		return nil, ErrSecretRequired
	}
	for _, secret := range config.Secrets {
		if len(secret) < minSecretLen {
			return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, minSecretLen)
		}
	}
	if config.Database == nil {
		return nil, ErrStorageRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userCache := config.UserCache
	if userCache == nil && config.EnableCache {
		userCache = NewUserCache(CacheConfig{
			TTL:     cache.DefaultTTL,
			MaxSize: cache.DefaultMaxSize,
		})
	}

	sessionConfig := DefaultSessionConfig()
	if config.SessionConfig != nil {
		sessionConfig = *config.SessionConfig
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = NewBcrypt()
	}

	codec, err := session.NewCodec(session.Options{
		Name:    sessionConfig.CookieName,
		Secrets: config.Secrets,
		MaxAge:  sessionConfig.MaxAge,
		Secure:  sessionConfig.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSecretRequired, err)
	}

	sessions := services.NewSessionManager(codec, config.Database, userCache, sessionConfig.LoginPath, logger)
	auth := services.NewAuthService(config.Database, passwordHasher, logger)
	content := services.NewJokeService(config.Database, logger)

	j := &Jokes{
		Storage:   config.Database,
		Sessions:  sessions,
		Auth:      auth,
		Content:   content,
		Actions:   services.NewActions(auth, sessions, content, logger),
		Endpoints: services.NewEndpointRegistry(),
		Cache:     userCache,
		Logger:    logger,
	}

	if err := config.HTTP.RegisterRoutes(j); err != nil {
		return nil, err
	}

	return j, nil
}
