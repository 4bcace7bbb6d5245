package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SundayYogurt/site_service/internal/dto"
	"github.com/SundayYogurt/site_service/internal/services"
)

type fakeBlogService struct {
	posts []dto.BlogPostMeta
	post  *dto.BlogPost
}

func (f *fakeBlogService) ListPosts(ctx context.Context) ([]dto.BlogPostMeta, error) {
	return f.posts, nil
}

func (f *fakeBlogService) GetPost(ctx context.Context, slug string) (*dto.BlogPost, error) {
	if f.post == nil {
		return nil, services.ErrPostNotFound
	}
	return f.post, nil
}

func newBlogApp(svc *fakeBlogService) *fiber.App {
	app := fiber.New()
	NewBlogHandler(svc).SetupRoutes(app)
	return app
}

func TestListPostsHandler(t *testing.T) {
	app := newBlogApp(&fakeBlogService{posts: []dto.BlogPostMeta{
		{Date: "2024-05-01", Slug: "hello", Title: "Hello"},
	}})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/blog-posts", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	msg, data := decodeEnvelope(t, res)
	assert.Equal(t, "1 blog posts fetched", msg)

	var posts []dto.BlogPostMeta
	require.NoError(t, json.Unmarshal(data, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "hello", posts[0].Slug)
}

func TestGetPostHandler(t *testing.T) {
	app := newBlogApp(&fakeBlogService{post: &dto.BlogPost{
		BlogPostMeta: dto.BlogPostMeta{Date: "2024-05-01", Slug: "hello", Title: "Hello"},
		Contents:     "body",
	}})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/blog-posts/hello", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestGetPostHandlerNotFound(t *testing.T) {
	app := newBlogApp(&fakeBlogService{})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/blog-posts/ghost", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	msg, _ := decodeEnvelope(t, res)
	assert.Equal(t, "ghost blog post data not found", msg)
}
