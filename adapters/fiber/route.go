package fiber

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/lborres/jokes"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Adapter struct {
	app  *fiber.App
	site *jokes.Jokes
}

var _ jokes.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

// RegisterRoutes mounts every endpoint in the site's registry, in registry
// order, plus the Prometheus scrape endpoint.
func (a *Adapter) RegisterRoutes(site *jokes.Jokes) error {
	a.site = site
	handlers := a.handlers()

	a.app.Use(observe)

	for _, ep := range site.Endpoints.Endpoints() {
		handler, ok := handlers[ep.Metadata.OperationID]
		if !ok {
			return fmt.Errorf("no handler for operation %q (%s %s)", ep.Metadata.OperationID, ep.Method, ep.Path)
		}

		if ep.Metadata.Protected {
			a.app.Add([]string{ep.Method}, ep.Path, noStore, handler)
			continue
		}
		a.app.Add([]string{ep.Method}, ep.Path, handler)
	}

	a.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return nil
}
