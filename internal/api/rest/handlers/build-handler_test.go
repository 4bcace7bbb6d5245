package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SundayYogurt/site_service/internal/dto"
	"github.com/SundayYogurt/site_service/internal/helper"
)

type fakeBuildService struct {
	lastMasked bool
	builds     []dto.Deployment
	built      bool
	secret     string
}

func (f *fakeBuildService) ListBuilds(ctx context.Context, masked bool) ([]dto.Deployment, error) {
	f.lastMasked = masked
	return f.builds, nil
}

func (f *fakeBuildService) TriggerBuild(ctx context.Context) (bool, error) {
	return f.built, nil
}

func (f *fakeBuildService) CheckSecret(candidate string) bool {
	return f.secret != "" && candidate == f.secret
}

func newBuildApp(svc *fakeBuildService) (*fiber.App, helper.Auth) {
	auth := helper.SetupAuth("test-secret", time.Hour)
	app := fiber.New()
	NewBuildHandler(svc, auth).SetupRoutes(app)
	return app, auth
}

func TestListBuildsMaskedWithoutSession(t *testing.T) {
	svc := &fakeBuildService{}
	app, _ := newBuildApp(svc)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/builds", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.True(t, svc.lastMasked)
}

func TestListBuildsUnmaskedWithSession(t *testing.T) {
	svc := &fakeBuildService{}
	app, auth := newBuildApp(svc)

	token, err := auth.GenerateToken(1, "user@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/builds", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.False(t, svc.lastMasked)
}

func TestListBuildsBadTokenStaysMasked(t *testing.T) {
	svc := &fakeBuildService{}
	app, _ := newBuildApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/builds", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.True(t, svc.lastMasked)
}

func TestTriggerBuildRequiresSecret(t *testing.T) {
	app, _ := newBuildApp(&fakeBuildService{secret: "build-secret", built: true})

	res, err := app.Test(jsonRequest(t, http.MethodPost, "/builds", dto.TriggerBuildRequest{
		Secret: "wrong",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestTriggerBuild(t *testing.T) {
	app, _ := newBuildApp(&fakeBuildService{secret: "build-secret", built: true})

	res, err := app.Test(jsonRequest(t, http.MethodPost, "/builds", dto.TriggerBuildRequest{
		Secret: "build-secret",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestTriggerBuildFailure(t *testing.T) {
	app, _ := newBuildApp(&fakeBuildService{secret: "build-secret", built: false})

	res, err := app.Test(jsonRequest(t, http.MethodPost, "/builds", dto.TriggerBuildRequest{
		Secret: "build-secret",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, res.StatusCode)
}
