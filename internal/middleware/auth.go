package middleware

import (
	"context"
	"strings"

	"github.com/fathima-sithara/clips-service/internal/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	localUser   = "user"
	localUserID = "user_id"
)

// Authenticator resolves a bearer token to its account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// JWTMiddleware rejects requests without a valid bearer token and stores the
// caller in the request locals.
func JWTMiddleware(a Authenticator, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearer(c.Get(fiber.HeaderAuthorization))
		u, err := a.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(localUser, u)
		c.Locals(localUserID, u.ID)
		logger.Debug("JWT validated", zap.String("user_id", u.ID))
		return c.Next()
	}
}

func bearer(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentUser returns the account JWTMiddleware stored, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(localUser).(*models.User)
	return u
}
