package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/lborres/jokes/core"
	"github.com/lborres/jokes/pkg/form"
	"github.com/lborres/jokes/pkg/metrics"
)

const (
	LoginTypeLogin    = "login"
	LoginTypeRegister = "register"

	IntentDelete = "delete"

	DefaultRedirect = "/jokes"

	// bcrypt rejects longer input
	maxPasswordBytes = 72
)

// redirectAllowList is matched exactly; anything else falls back to DefaultRedirect.
var redirectAllowList = []string{"/jokes", "/", "https://remix.run"}

var (
	validateUsername    = form.MinLength(3, "Username must be at least 3 characters long")
	validatePassword    = form.MinLength(6, "Password must be at least 6 characters long")
	validatePasswordMax = form.MaxBytes(maxPasswordBytes, fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	validateJokeName    = form.MinLength(3, "This joke name is too short")
	validateJokeContent = form.MinLength(10, "This joke is too short")
)

// LoginSubmission is the raw login form. A nil field was not submitted.
type LoginSubmission struct {
	LoginType  *string `json:"loginType" form:"loginType"`
	Username   *string `json:"username" form:"username"`
	Password   *string `json:"password" form:"password"`
	RedirectTo *string `json:"redirectTo" form:"redirectTo"`
}

type LoginFields struct {
	LoginType string `json:"loginType"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type JokeSubmission struct {
	Name    *string `json:"name" form:"name"`
	Content *string `json:"content" form:"content"`
}

type JokeFields struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type DeleteSubmission struct {
	Intent *string `json:"intent" form:"intent"`
}

// Actions are the mutating form endpoints of the site. Each returns a
// form.Result for anything the user can act on and an error only for
// failures the request cannot recover from, or an *core.AuthRedirect.
type Actions struct {
	auth     *AuthService
	sessions *SessionManager
	jokes    *JokeService
	logger   *slog.Logger
}

func NewActions(auth *AuthService, sessions *SessionManager, jokes *JokeService, logger *slog.Logger) *Actions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Actions{auth: auth, sessions: sessions, jokes: jokes, logger: logger}
}

// SafeRedirect returns to when it is an allowed destination, DefaultRedirect otherwise.
func SafeRedirect(to string) string {
	if slices.Contains(redirectAllowList, to) {
		return to
	}
	return DefaultRedirect
}

func (a *Actions) Login(ctx context.Context, sub LoginSubmission) (form.Result[LoginFields], error) {
	if sub.LoginType == nil || sub.Username == nil || sub.Password == nil || sub.RedirectTo == nil {
		return form.Malformed[LoginFields](), nil
	}

	redirectTo := SafeRedirect(*sub.RedirectTo)
	fields := LoginFields{
		LoginType: *sub.LoginType,
		Username:  *sub.Username,
		Password:  *sub.Password,
	}

	fieldErrors := form.Validate(
		form.Check{Field: "username", Value: fields.Username, Validator: validateUsername},
		form.Check{Field: "password", Value: fields.Password, Validator: validatePassword},
		form.Check{Field: "password", Value: fields.Password, Validator: validatePasswordMax},
	)
	if fieldErrors.Any() {
		metrics.ObserveAuthAttempt(fields.LoginType, "invalid")
		return form.Invalid(fields, fieldErrors), nil
	}

	var (
		user *core.User
		err  error
	)
	switch fields.LoginType {
	case LoginTypeLogin:
		user, err = a.auth.Login(ctx, fields.Username, fields.Password)
		if errors.Is(err, core.ErrInvalidCredentials) {
			metrics.ObserveAuthAttempt(LoginTypeLogin, "rejected")
			return form.Rejected(fields, "Username/Password combination is incorrect"), nil
		}
	case LoginTypeRegister:
		user, err = a.auth.Register(ctx, fields.Username, fields.Password)
		if errors.Is(err, core.ErrUserExists) {
			metrics.ObserveAuthAttempt(LoginTypeRegister, "rejected")
			return form.Rejected(fields, fmt.Sprintf("User with username %s already exists", fields.Username)), nil
		}
	default:
		return form.Rejected(fields, "Login type invalid"), nil
	}
	if err != nil {
		metrics.ObserveAuthAttempt(fields.LoginType, "error")
		return form.Result[LoginFields]{}, err
	}

	issuance, err := a.sessions.Create(user.ID, redirectTo)
	if err != nil {
		return form.Result[LoginFields]{}, err
	}

	metrics.ObserveAuthAttempt(fields.LoginType, "success")
	return form.Redirect[LoginFields](issuance.RedirectTo, issuance.SetCookie), nil
}

// NewJoke requires a session before it looks at the submission.
func (a *Actions) NewJoke(ctx context.Context, cookieHeader string, sub JokeSubmission) (form.Result[JokeFields], error) {
	jokesterID, err := a.sessions.RequireUserID(cookieHeader, "/jokes/new")
	if err != nil {
		return form.Result[JokeFields]{}, err
	}

	if sub.Name == nil || sub.Content == nil {
		return form.Malformed[JokeFields](), nil
	}

	fields := JokeFields{Name: *sub.Name, Content: *sub.Content}
	fieldErrors := form.Validate(
		form.Check{Field: "name", Value: fields.Name, Validator: validateJokeName},
		form.Check{Field: "content", Value: fields.Content, Validator: validateJokeContent},
	)
	if fieldErrors.Any() {
		return form.Invalid(fields, fieldErrors), nil
	}

	joke, err := a.jokes.Create(ctx, jokesterID, fields.Name, fields.Content)
	if errors.Is(err, core.ErrUserNotFound) {
		return form.Result[JokeFields]{}, a.sessions.revoke(cookieHeader, jokesterID, err)
	}
	if err != nil {
		return form.Result[JokeFields]{}, err
	}

	return form.Redirect[JokeFields]("/jokes/"+joke.ID, ""), nil
}

// DeleteJoke checks, in order: a session (401), the intent (400), that the
// joke exists (404) and that the session user owns it (403).
func (a *Actions) DeleteJoke(ctx context.Context, cookieHeader, jokeID string, sub DeleteSubmission) (form.Result[struct{}], error) {
	userID, ok := a.sessions.CurrentUserID(cookieHeader)
	if !ok {
		return form.Fail[struct{}](http.StatusUnauthorized, "Not Authorized"), nil
	}

	intent := ""
	if sub.Intent != nil {
		intent = *sub.Intent
	}
	if intent != IntentDelete {
		return form.Fail[struct{}](http.StatusBadRequest, fmt.Sprintf("Intent %s is not supported", intent)), nil
	}

	switch err := a.jokes.Delete(ctx, userID, jokeID); {
	case errors.Is(err, core.ErrJokeNotFound):
		return form.Fail[struct{}](http.StatusNotFound, fmt.Sprintf("Joke %s not found", jokeID)), nil
	case errors.Is(err, core.ErrForbidden):
		return form.Fail[struct{}](http.StatusForbidden, "Nice try! This is not your joke"), nil
	case err != nil:
		return form.Result[struct{}]{}, err
	}

	a.logger.Info("joke deleted", slog.String("user_id", userID), slog.String("joke_id", jokeID))
	return form.Redirect[struct{}](DefaultRedirect, ""), nil
}
