package controller

import (
	"ai-playground-be/internal/dto"
	"ai-playground-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAiController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
}

type aiController struct {
	service service.IGenerationService
	auth    fiber.Handler
}

func NewAiController(service service.IGenerationService, auth fiber.Handler) IAiController {
	return &aiController{service: service, auth: auth}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai")
	h.Use(c.auth)
	h.Post("/generate", c.Generate)
}

func (c *aiController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
