package handlers

import (
	"github.com/fathima-sithara/clips-service/internal/middleware"
	"github.com/fathima-sithara/clips-service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	res, err := h.svc.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	res, err := h.svc.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	u, err := h.svc.Profile(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(u.Public())
}
