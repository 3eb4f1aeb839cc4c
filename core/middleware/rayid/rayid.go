package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header is the request and response header carrying the RayID.
	Header = "X-Ray-ID"
	// LocalsKey is the fiber locals key the RayID is stored under.
	LocalsKey = "ray_id"
)

// New returns a middleware that tags every request with a RayID.
// An incoming X-Ray-ID header is kept so callers can correlate their own logs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
