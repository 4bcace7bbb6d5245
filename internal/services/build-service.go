package services

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SundayYogurt/site_service/internal/dto"
	"github.com/SundayYogurt/site_service/internal/helper/utils"
)

const (
	deploymentStateReady = "READY"
	maskedValue          = "MASKED"
	maxProviderBody      = 4 << 20
)

type BuildService interface {
	// ListBuilds proxies the provider's deployment list; masked strips
	// identifying fields for unauthenticated callers.
	ListBuilds(ctx context.Context, masked bool) ([]dto.Deployment, error)
	// TriggerBuild redeploys the latest READY deployment and prunes older
	// ones. Returns whether the build went through.
	TriggerBuild(ctx context.Context) (bool, error)
	// CheckSecret gates build triggering behind the shared secret.
	CheckSecret(candidate string) bool
}

type buildService struct {
	httpClient *http.Client
	baseURL    string
	token      string
	project    string
	secret     string
}

func NewBuildService(token, project, secret string) BuildService {
	return &buildService{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://api.vercel.com",
		token:      token,
		project:    project,
		secret:     secret,
	}
}

func (b *buildService) CheckSecret(candidate string) bool {
	if b.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(b.secret)) == 1
}

func (b *buildService) ListBuilds(ctx context.Context, masked bool) ([]dto.Deployment, error) {
	page, err := b.fetchDeployments(ctx)
	if err != nil {
		// the proxy degrades to an empty list rather than exposing provider
		// failures to the public endpoint
		log.Printf("list builds error: %v", err)
		return []dto.Deployment{}, nil
	}
	if !masked {
		return page.Deployments, nil
	}

	deployments := make([]dto.Deployment, 0, len(page.Deployments))
	for _, d := range page.Deployments {
		deployments = append(deployments, maskDeployment(d))
	}
	return deployments, nil
}

func (b *buildService) TriggerBuild(ctx context.Context) (bool, error) {
	page, err := b.fetchDeployments(ctx)
	if err != nil {
		log.Printf("trigger build list error: %v", err)
		return false, nil
	}

	built := false
	for _, d := range page.Deployments {
		if d.State != deploymentStateReady {
			continue
		}
		// redeploy from the latest ready deployment's git source
		payload := map[string]interface{}{
			"gitSource": map[string]string{
				"ref":    d.Meta.GithubCommitRef,
				"repoId": d.Meta.GithubRepoID,
				"type":   "github",
			},
			"name":   b.project,
			"target": "production",
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return false, nil
		}
		status, err := b.call(ctx, http.MethodPost, "/v13/deployments", body)
		if err != nil {
			log.Printf("trigger build error: %v", err)
			return false, nil
		}
		built = status == http.StatusOK
		break
	}

	// prune deployments from n-2 on so the provider quota does not fill up
	if built && len(page.Deployments) > 2 {
		for _, d := range page.Deployments[2:] {
			if _, err := b.call(ctx, http.MethodDelete, "/v13/deployments/"+d.UID, nil); err != nil {
				log.Printf("delete deployment %s error: %v", d.UID, err)
			}
		}
	}

	return built, nil
}

func (b *buildService) fetchDeployments(ctx context.Context) (*dto.DeploymentsPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/v6/deployments", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+b.token)

	res, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := utils.ReadAllLimit(res.Body, maxProviderBody)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", res.StatusCode)
	}

	page := &dto.DeploymentsPage{}
	if err := json.Unmarshal(raw, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (b *buildService) call(ctx context.Context, method, path string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := b.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if _, err := utils.ReadAllLimit(res.Body, maxProviderBody); err != nil {
		return res.StatusCode, err
	}
	return res.StatusCode, nil
}

func maskDeployment(d dto.Deployment) dto.Deployment {
	d.AliasAssigned = nil
	d.AliasError = nil
	d.BuildingAt = nil
	d.Created = nil
	d.CreatedAt = nil
	d.Creator = nil
	d.InspectorURL = maskedValue
	d.IsRollbackCandidate = nil
	d.Meta.GithubCommitAuthorLogin = maskedValue
	d.Meta.GithubCommitRepoID = maskedValue
	d.Meta.GithubDeployment = maskedValue
	d.Meta.GithubRepoID = maskedValue
	d.Meta.GithubRepoOwnerType = maskedValue
	d.Name = maskedValue
	d.State = maskedValue
	d.Type = maskedValue
	d.UID = maskedValue
	d.URL = maskedValue
	return d
}
