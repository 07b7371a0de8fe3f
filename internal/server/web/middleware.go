package web

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/userservice/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"
)

type ctxKey string

const requestIDKey ctxKey = "requestID"

// maxRequestIDLen bounds inbound X-Request-ID values that are echoed back.
const maxRequestIDLen = 128

// requestID tags the request with the caller's X-Request-ID, or a fresh uuid.
func (s *Server) requestID(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Get(fiber.HeaderXRequestID))
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)
	c.Locals(requestIDKey, id)
	return c.Next()
}

// accessLog renders errors from the rest of the chain through the error
// handler so that the logged status is the one the client receives.
func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.requestLogger(c).Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return nil
}

// writeLimiter guards routes that insert users. A zero limit lets everything through.
func (s *Server) writeLimiter() fiber.Handler {
	if s.rateLimitMax <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        s.rateLimitMax,
		Expiration: s.rateLimitWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, msgTooManyRequests)
		},
	})
}

func (s *Server) requestLogger(c *fiber.Ctx) logging.Logger {
	if id, ok := c.Locals(requestIDKey).(string); ok {
		return s.logger.With("request_id", id)
	}
	return s.logger
}
