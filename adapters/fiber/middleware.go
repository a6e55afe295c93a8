package fiber

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/lborres/jokes/pkg/metrics"
)

// observe records request count and latency per route pattern.
func observe(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}

	path := c.Route().Path
	if path == "" || (path == "/" && c.Path() != "/") {
		path = "unmatched"
	}

	metrics.ObserveHTTPRequest(c.Method(), path, strconv.Itoa(status), time.Since(start))
	return err
}

// noStore keeps session-dependent responses out of shared caches.
func noStore(c fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "private, no-store")
	return c.Next()
}
