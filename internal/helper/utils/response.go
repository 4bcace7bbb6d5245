package utils

import "github.com/gofiber/fiber/v2"

// every response carries the same {message, data} envelope; error responses
// never leak internal error text, only a fixed message per outcome
func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"message": msg,
		"data":    nil,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, msg string, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{
		"message": msg,
		"data":    data,
	})
}
