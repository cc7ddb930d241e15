package controller

import (
	"fmt"

	"ai-playground-be/internal/config"
	"ai-playground-be/internal/pkg/apperrors"
	"ai-playground-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service service.IOAuthService
	cfg     *config.Config
	gate    fiber.Handler
}

func NewOAuthController(service service.IOAuthService, cfg *config.Config, gate fiber.Handler) IOAuthController {
	return &oauthController{service: service, cfg: cfg, gate: gate}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/oauth")
	h.Use(c.gate)
	h.Get("/:provider/login", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	url, err := c.service.GetLoginURL(ctx.Context(), ctx.Params("provider"))
	if err != nil {
		return err
	}
	return ctx.Redirect(url)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		return apperrors.InvalidInput("Missing code")
	}

	res, err := c.service.HandleCallback(ctx.Context(), ctx.Params("provider"), code, ctx.Query("state"))
	if err != nil {
		return err
	}

	redirectURL := fmt.Sprintf("%s/?token=%s", c.cfg.App.ClientURL, res.Token)
	return ctx.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
