package handlers

import (
	"github.com/fathima-sithara/clips-service/internal/seed"
	"github.com/fathima-sithara/clips-service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	svc    *services.CategoryService
	seeder *seed.Seeder
}

func NewCategoryHandler(svc *services.CategoryService, seeder *seed.Seeder) *CategoryHandler {
	return &CategoryHandler{svc: svc, seeder: seeder}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(cats)
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	d, err := h.svc.Get(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(d)
}

// Init runs the seeding routine on demand.
func (h *CategoryHandler) Init(c *fiber.Ctx) error {
	if err := h.seeder.Run(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Database initialized with default data"})
}
