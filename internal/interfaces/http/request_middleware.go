package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/marketplace-api/pkg/logger"
)

// HeaderRequestID cabecera de correlación aceptada y devuelta.
const HeaderRequestID = "X-Request-ID"

const (
	LocalRequestID = "request_id"
	localLogger    = "logger"
)

// RequestID asigna un id de correlación y un logger hijo con request_id a cada petición.
func RequestID(base *logger.Logger) fiber.Handler {
	if base == nil {
		base = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)
		log := base.Child("request_id", id)
		c.Locals(LocalRequestID, id)
		c.Locals(localLogger, log)

		start := time.Now()
		err := c.Next()
		log.Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("petición atendida")
		return err
	}
}

// RequestLogger logger de la petición; Nop si RequestID no corrió.
func RequestLogger(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(localLogger).(*logger.Logger); ok {
		return l
	}
	return logger.Nop()
}
