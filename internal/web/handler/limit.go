package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Limiter rate limits the public write endpoints per client address.
func (d *Deps) Limiter() fiber.Handler {
	rl := d.Cfg.Webserver.RateLimit

	return limiter.New(limiter.Config{
		Max:        rl.Max,
		Expiration: rl.Expiration,
		LimitReached: func(c *fiber.Ctx) error {
			return Message(c, fiber.StatusTooManyRequests, "too many requests")
		},
	})
}
