package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/lborres/jokes/core"
	"github.com/lborres/jokes/pkg/metrics"
	"github.com/lborres/jokes/pkg/session"
)

const userIDKey = "userId"

// SessionManager applies the site's session rules on top of the cookie codec.
// It never writes responses; it hands back Set-Cookie values and, when the
// request must go elsewhere, a *core.AuthRedirect.
type SessionManager struct {
	codec     *session.Codec
	users     core.UserStorage
	cache     core.UserCache // optional, can be nil if caching is disabled
	loginPath string
	logger    *slog.Logger
}

func NewSessionManager(codec *session.Codec, users core.UserStorage, cache core.UserCache, loginPath string, logger *slog.Logger) *SessionManager {
	if loginPath == "" {
		loginPath = core.DefaultLoginPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{codec: codec, users: users, cache: cache, loginPath: loginPath, logger: logger}
}

// CurrentUserID returns the user id stored in the session cookie, if any.
func (sm *SessionManager) CurrentUserID(cookieHeader string) (string, bool) {
	userID, ok := sm.codec.Decode(cookieHeader).GetString(userIDKey)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// RequireUserID returns the session's user id or an *core.AuthRedirect to the
// login page that carries returnPath so the user lands back there afterwards.
func (sm *SessionManager) RequireUserID(cookieHeader, returnPath string) (string, error) {
	if userID, ok := sm.CurrentUserID(cookieHeader); ok {
		return userID, nil
	}

	params := url.Values{"redirectTo": {returnPath}}
	return "", &core.AuthRedirect{
		Location: sm.loginPath + "?" + params.Encode(),
		Reason:   core.ErrUnauthenticated,
	}
}

// Create issues a fresh session holding only userID.
func (sm *SessionManager) Create(userID, redirectTo string) (*core.SessionIssuance, error) {
	s := sm.codec.Empty()
	s.Set(userIDKey, userID)

	cookie, err := sm.codec.Encode(s)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &core.SessionIssuance{SetCookie: cookie, RedirectTo: redirectTo}, nil
}

// Destroy invalidates whatever session the request carries and points the
// client at the login page.
func (sm *SessionManager) Destroy(cookieHeader string) *core.SessionIssuance {
	s := sm.codec.Decode(cookieHeader)
	return &core.SessionIssuance{
		SetCookie:  sm.codec.Destroy(s),
		RedirectTo: sm.loginPath,
	}
}

// CurrentUser resolves the session's user. No session is (nil, nil). A
// session whose user cannot be loaded is destroyed: the returned error is an
// *core.AuthRedirect wrapping ErrSessionRevoked.
func (sm *SessionManager) CurrentUser(ctx context.Context, cookieHeader string) (*core.User, error) {
	userID, ok := sm.CurrentUserID(cookieHeader)
	if !ok {
		return nil, nil
	}

	// Try cache first if caching is enabled
	if sm.cache != nil {
		if user, err := sm.cache.Get(userID); err == nil {
			return user, nil
		}
	}

	user, err := sm.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, sm.revoke(cookieHeader, userID, err)
	}

	user = user.Identity()
	if sm.cache != nil {
		// We don't fail the request if caching fails
		_ = sm.cache.Set(userID, user)
	}

	return user, nil
}

// revoke destroys a session whose user could not be resolved and returns the
// redirect that carries the replacement cookie.
func (sm *SessionManager) revoke(cookieHeader, userID string, cause error) error {
	if errors.Is(cause, core.ErrUserNotFound) {
		sm.logger.Warn("session references a missing user", slog.String("user_id", userID))
	} else {
		sm.logger.Error("failed to load session user", slog.String("user_id", userID), slog.Any("error", cause))
	}
	metrics.ObserveSessionRevoked()

	issuance := sm.Destroy(cookieHeader)
	return &core.AuthRedirect{
		Location:  issuance.RedirectTo,
		SetCookie: issuance.SetCookie,
		Reason:    fmt.Errorf("%w: %w", core.ErrSessionRevoked, cause),
	}
}
