package http

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed map.html
var surfacePage []byte

// SurfaceHandler serves the embedded map surface. The page connects back
// over /ws and speaks the bridge protocol.
func SurfaceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(surfacePage)
	}
}
