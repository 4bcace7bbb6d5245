package handlers

import (
	"github.com/SundayYogurt/site_service/internal/dto"
	"github.com/SundayYogurt/site_service/internal/helper"
	"github.com/SundayYogurt/site_service/internal/helper/utils"
	"github.com/SundayYogurt/site_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type BuildHandler struct {
	svc  services.BuildService
	auth helper.Auth
}

func NewBuildHandler(svc services.BuildService, auth helper.Auth) *BuildHandler {
	return &BuildHandler{svc: svc, auth: auth}
}

func (h *BuildHandler) SetupRoutes(app *fiber.App) {
	app.Get("/builds", h.ListBuilds)
	app.Post("/builds", h.TriggerBuild)
}

func (h *BuildHandler) ListBuilds(ctx *fiber.Ctx) error {
	// deployment identifiers are only shown to a valid session holder
	masked := true
	if _, err := h.auth.VerifyToken(ctx.Get("Authorization")); err == nil {
		masked = false
	}

	builds, err := h.svc.ListBuilds(ctx.Context(), masked)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "something went wrong")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "builds fetched", builds)
}

func (h *BuildHandler) TriggerBuild(ctx *fiber.Ctx) error {
	var requestBody dto.TriggerBuildRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}
	if !h.svc.CheckSecret(requestBody.Secret) {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	built, err := h.svc.TriggerBuild(ctx.Context())
	if err != nil || !built {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "build could not be triggered")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "build triggered", fiber.Map{
		"built": built,
	})
}
