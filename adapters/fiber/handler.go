package fiber

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/lborres/jokes"
	"github.com/lborres/jokes/core"
	"github.com/lborres/jokes/pkg/form"
	"github.com/lborres/jokes/services"
)

const latestJokes = 5

func (a *Adapter) handlers() map[string]fiber.Handler {
	return map[string]fiber.Handler{
		services.OpRandomJoke:     a.randomJoke,
		services.OpNewJokeForm:    a.newJokeForm,
		services.OpCreateJoke:     a.createJoke,
		services.OpGetJoke:        a.getJoke,
		services.OpDeleteJoke:     a.deleteJoke,
		services.OpLogin:          a.login,
		services.OpLogout:         a.logout,
		services.OpLogoutRedirect: a.logoutRedirect,
		services.OpCurrentUser:    a.currentUser,
		services.OpHealth:         a.health,
	}
}

func cookieHeader(c fiber.Ctx) string {
	return c.Get(fiber.HeaderCookie)
}

func (a *Adapter) randomJoke(c fiber.Ctx) error {
	ctx := c.Context()

	user, err := a.site.Sessions.CurrentUser(ctx, cookieHeader(c))
	if err != nil {
		return a.handleError(c, err)
	}

	items, err := a.site.Content.Latest(ctx, latestJokes)
	if err != nil {
		return a.handleError(c, err)
	}

	joke, err := a.site.Content.Random(ctx)
	if errors.Is(err, jokes.ErrJokeNotFound) {
		return c.Status(http.StatusNotFound).JSON(core.ErrorResponse{Error: "No random joke found"})
	}
	if err != nil {
		return a.handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":          user,
		"jokeListItems": items,
		"randomJoke":    joke,
	})
}

func (a *Adapter) newJokeForm(c fiber.Ctx) error {
	if _, ok := a.site.Sessions.CurrentUserID(cookieHeader(c)); !ok {
		return c.Status(http.StatusUnauthorized).JSON(core.ErrorResponse{Error: "Unauthorized"})
	}
	return c.JSON(fiber.Map{})
}

func (a *Adapter) createJoke(c fiber.Ctx) error {
	var sub services.JokeSubmission
	// an unreadable body leaves every field nil, which the action reports as malformed
	_ = c.Bind().Body(&sub)

	res, err := a.site.Actions.NewJoke(c.Context(), cookieHeader(c), sub)
	return respond(a, c, res, err)
}

func (a *Adapter) getJoke(c fiber.Ctx) error {
	joke, err := a.site.Content.Get(c.Context(), c.Params("jokeId"))
	if errors.Is(err, jokes.ErrJokeNotFound) {
		return c.Status(http.StatusNotFound).JSON(core.ErrorResponse{Error: "What a joke! Not found."})
	}
	if err != nil {
		return a.handleError(c, err)
	}

	userID, ok := a.site.Sessions.CurrentUserID(cookieHeader(c))
	return c.JSON(fiber.Map{
		"joke":    joke,
		"isOwner": ok && userID == joke.JokesterID,
	})
}

func (a *Adapter) deleteJoke(c fiber.Ctx) error {
	var sub services.DeleteSubmission
	_ = c.Bind().Body(&sub)

	res, err := a.site.Actions.DeleteJoke(c.Context(), cookieHeader(c), c.Params("jokeId"), sub)
	return respond(a, c, res, err)
}

func (a *Adapter) login(c fiber.Ctx) error {
	var sub services.LoginSubmission
	_ = c.Bind().Body(&sub)

	res, err := a.site.Actions.Login(c.Context(), sub)
	return respond(a, c, res, err)
}

func (a *Adapter) logout(c fiber.Ctx) error {
	issuance := a.site.Sessions.Destroy(cookieHeader(c))
	return redirect(c, issuance.RedirectTo, issuance.SetCookie)
}

func (a *Adapter) logoutRedirect(c fiber.Ctx) error {
	return redirect(c, "/", "")
}

func (a *Adapter) currentUser(c fiber.Ctx) error {
	user, err := a.site.Sessions.CurrentUser(c.Context(), cookieHeader(c))
	if err != nil {
		return a.handleError(c, err)
	}
	return c.JSON(user)
}

func (a *Adapter) health(c fiber.Ctx) error {
	if err := a.site.Storage.Ping(c.Context()); err != nil {
		a.site.Logger.Error("health check failed", slog.Any("error", err))
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// respond writes an action's outcome: a redirect, a 400 with the data needed
// to re-render the form, or a status with a message.
func respond[F any](a *Adapter, c fiber.Ctx, res form.Result[F], err error) error {
	if err != nil {
		return a.handleError(c, err)
	}

	switch res.Kind {
	case form.KindRedirect:
		return redirect(c, res.Location, res.SetCookie)
	case form.KindInvalid:
		return c.Status(res.Status).JSON(res.Data)
	default:
		return c.Status(res.Status).JSON(core.ErrorResponse{Error: res.Message})
	}
}

func redirect(c fiber.Ctx, location, setCookie string) error {
	if setCookie != "" {
		c.Set(fiber.HeaderSetCookie, setCookie)
	}
	return c.Redirect().Status(http.StatusFound).To(location)
}

// handleError executes redirect signals and maps everything else to a status.
// Server-side failures are logged and answered with a generic body.
func (a *Adapter) handleError(c fiber.Ctx, err error) error {
	var signal *core.AuthRedirect
	if errors.As(err, &signal) {
		return redirect(c, signal.Location, signal.SetCookie)
	}

	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		a.site.Logger.Error("request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err))
		return c.Status(status).JSON(core.ErrorResponse{Error: http.StatusText(status)})
	}

	return c.Status(status).JSON(core.ErrorResponse{Error: err.Error()})
}

// mapErrorToStatus maps site error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, jokes.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, jokes.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, jokes.ErrJokeNotFound),
		errors.Is(err, jokes.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, jokes.ErrUserExists):
		return http.StatusConflict

	case errors.Is(err, jokes.ErrMalformedSubmission),
		errors.Is(err, jokes.ErrUnsupportedIntent),
		errors.Is(err, jokes.ErrInvalidCredentials):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
