package utils

import (
	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

func JSONError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

func JSONValidation(c *fiber.Ctx, errs []apperr.ValidationError) error {
	msg := "Validation failed"
	if len(errs) > 0 {
		msg = errs[0].Message
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg, "errors": errs})
}
