package handlers

import (
	"errors"
	"strconv"

	"github.com/SundayYogurt/site_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/site_service/internal/dto"
	"github.com/SundayYogurt/site_service/internal/helper"
	"github.com/SundayYogurt/site_service/internal/helper/utils"
	"github.com/SundayYogurt/site_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

const minPasswordLength = 8

type UserHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewUserHandler(svc services.UserService, auth helper.Auth) *UserHandler {
	return &UserHandler{svc: svc, auth: auth}
}

func (h *UserHandler) SetupRoutes(app *fiber.App) {
	app.Post("/users", h.Signup)
	app.Post("/tokens", h.IssueAuthToken)
	// the confirmation token is the credential here, no session required
	app.Put("/users/:id/verify", h.ProcessUserToken)

	authed := middleware.AuthMiddleware(h.auth)
	app.Get("/users/:id", authed, h.GetUser)
	app.Put("/users/:id", authed, h.UpdateUser)
	app.Delete("/users/:id", authed, h.RequestDeletion)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrTokenInvalid):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrUserNotVerified):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPostNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrUserAlreadyExists):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrNothingToUpdate):
		return fiber.StatusUnprocessableEntity, err.Error()
	}
	return fiber.StatusInternalServerError, services.ErrInternal.Error()
}

func userIDFromParams(ctx *fiber.Ctx) (uint, error) {
	raw, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil || raw == 0 {
		return 0, errors.New("user id is not valid")
	}
	return uint(raw), nil
}

func validEmail(email string) bool {
	_, err := utils.ExtractEmailDomain(email)
	return err == nil
}

func (h *UserHandler) Signup(ctx *fiber.Ctx) error {
	var requestBody dto.UserSignup
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}
	if !validEmail(requestBody.Email) || len(requestBody.Password) < minPasswordLength {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	result, err := h.svc.Signup(requestBody)
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, "user created", result)
}

func (h *UserHandler) IssueAuthToken(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}
	if !validEmail(requestBody.Email) || requestBody.Password == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	token, err := h.svc.Login(requestBody)
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "auth token issued", fiber.Map{
		"token": token,
	})
}

func (h *UserHandler) GetUser(ctx *fiber.Ctx) error {
	userID, err := userIDFromParams(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	authed, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.svc.GetUser(authed, userID)
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "user fetched", user)
}

func (h *UserHandler) UpdateUser(ctx *fiber.Ctx) error {
	userID, err := userIDFromParams(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	authed, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.UpdateUserProfile
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}
	if requestBody.Email != "" && !validEmail(requestBody.Email) {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}
	if requestBody.Password != "" && len(requestBody.Password) < minPasswordLength {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	result, err := h.svc.UpdateProfile(authed, userID, requestBody)
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "user updated", result)
}

func (h *UserHandler) RequestDeletion(ctx *fiber.Ctx) error {
	userID, err := userIDFromParams(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	authed, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.svc.RequestDeletion(authed, userID); err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "user deletion requested", nil)
}

// ProcessUserToken commits whichever confirmation token the request carries:
// verification, staged modification, or account deletion.
func (h *UserHandler) ProcessUserToken(ctx *fiber.Ctx) error {
	userID, err := userIDFromParams(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	var requestBody dto.ProcessUserToken
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}
	if !validEmail(requestBody.Email) {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	switch {
	case requestBody.VerifToken != "":
		result, err := h.svc.ConfirmVerification(userID, requestBody.Email, requestBody.VerifToken)
		if err != nil {
			status, msg := statusFor(err)
			return utils.ResponseError(ctx, status, msg)
		}
		return utils.ResponseSuccess(ctx, fiber.StatusOK, "user verified", result)
	case requestBody.ModifyToken != "":
		result, err := h.svc.ConfirmModification(userID, requestBody.Email, requestBody.ModifyToken)
		if err != nil {
			status, msg := statusFor(err)
			return utils.ResponseError(ctx, status, msg)
		}
		return utils.ResponseSuccess(ctx, fiber.StatusOK, "user modification committed", result)
	case requestBody.DeleteToken != "":
		if err := h.svc.ConfirmDeletion(userID, requestBody.Email, requestBody.DeleteToken); err != nil {
			status, msg := statusFor(err)
			return utils.ResponseError(ctx, status, msg)
		}
		return ctx.SendStatus(fiber.StatusNoContent)
	}
	return utils.ResponseError(ctx, fiber.StatusBadRequest, "no supported user token provided")
}
