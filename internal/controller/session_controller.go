package controller

import (
	"ai-playground-be/internal/dto"
	"ai-playground-be/internal/pkg/apperrors"
	"ai-playground-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
	auth    fiber.Handler
	gate    fiber.Handler
}

func NewSessionController(service service.ISessionService, auth fiber.Handler, gate fiber.Handler) ISessionController {
	return &sessionController{service: service, auth: auth, gate: gate}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Use(c.gate)
	h.Use(c.auth)
	h.Get("/", c.List)
	h.Post("/", c.Create)
	h.Get("/:id", c.Get)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.Context(), userID)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *sessionController) Get(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.Context(), userID, sessionID)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *sessionController) Update(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), userID, sessionID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), userID, sessionID); err != nil {
		return err
	}
	return ctx.JSON(dto.DeleteSessionResponse{Success: true})
}

func currentUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, apperrors.Unauthorized("Unauthorized")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Unauthorized("Unauthorized")
	}
	return userID, nil
}

func sessionIDParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.NotFound("Not found")
	}
	return sessionID, nil
}
