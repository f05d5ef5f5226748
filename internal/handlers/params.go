package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// queryInt returns the parsed query value, or def when the key is absent or
// not an integer. Range checks are left to the catalog engine.
func queryInt(c *fiber.Ctx, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
