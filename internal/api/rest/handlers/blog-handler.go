package handlers

import (
	"fmt"

	"github.com/SundayYogurt/site_service/internal/helper/utils"
	"github.com/SundayYogurt/site_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type BlogHandler struct {
	svc services.BlogService
}

func NewBlogHandler(svc services.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

func (h *BlogHandler) SetupRoutes(app *fiber.App) {
	app.Get("/blog-posts", h.ListPosts)
	app.Get("/blog-posts/:slug", h.GetPost)
}

func (h *BlogHandler) ListPosts(ctx *fiber.Ctx) error {
	posts, err := h.svc.ListPosts(ctx.Context())
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "something went wrong")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK,
		fmt.Sprintf("%d blog posts fetched", len(posts)), posts)
}

func (h *BlogHandler) GetPost(ctx *fiber.Ctx) error {
	slug := ctx.Params("slug")

	post, err := h.svc.GetPost(ctx.Context(), slug)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusNotFound,
			fmt.Sprintf("%s blog post data not found", slug))
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK,
		fmt.Sprintf("%s blog post data fetched", slug), post)
}
