package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics exposes the registry in the Prometheus text format.
func Metrics(g prometheus.Gatherer) fiber.Handler {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	return func(c *fiber.Ctx) error {
		mfs, err := g.Gather()
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		var buf bytes.Buffer
		enc := expfmt.NewEncoder(&buf, format)
		for _, mf := range mfs {
			if err := enc.Encode(mf); err != nil {
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		c.Set(fiber.HeaderContentType, string(format))
		return c.Send(buf.Bytes())
	}
}
