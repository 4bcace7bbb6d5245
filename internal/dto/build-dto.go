package dto

// Deployment mirrors the subset of the Vercel deployments API the proxy
// exposes. Pointer fields are nulled out when the caller is not entitled to
// see them.
type Deployment struct {
	AliasAssigned       *int64             `json:"aliasAssigned"`
	AliasError          *string            `json:"aliasError"`
	BuildingAt          *int64             `json:"buildingAt"`
	Created             *int64             `json:"created"`
	CreatedAt           *int64             `json:"createdAt"`
	Creator             *DeploymentCreator `json:"creator"`
	InspectorURL        string             `json:"inspectorUrl"`
	IsRollbackCandidate *bool              `json:"isRollbackCandidate"`
	Meta                DeploymentMeta     `json:"meta"`
	Name                string             `json:"name"`
	Ready               int64              `json:"ready"`
	State               string             `json:"state"`
	Type                string             `json:"type"`
	UID                 string             `json:"uid"`
	URL                 string             `json:"url"`
}

type DeploymentCreator struct {
	Email       string `json:"email"`
	GithubLogin string `json:"githubLogin"`
	UID         string `json:"uid"`
	Username    string `json:"username"`
}

type DeploymentMeta struct {
	GithubCommitAuthorLogin string `json:"githubCommitAuthorLogin"`
	GithubCommitAuthorName  string `json:"githubCommitAuthorName"`
	GithubCommitMessage     string `json:"githubCommitMessage"`
	GithubCommitOrg         string `json:"githubCommitOrg"`
	GithubCommitRef         string `json:"githubCommitRef"`
	GithubCommitRepo        string `json:"githubCommitRepo"`
	GithubCommitRepoID      string `json:"githubCommitRepoId"`
	GithubCommitSha         string `json:"githubCommitSha"`
	GithubDeployment        string `json:"githubDeployment"`
	GithubOrg               string `json:"githubOrg"`
	GithubRepo              string `json:"githubRepo"`
	GithubRepoID            string `json:"githubRepoId"`
	GithubRepoOwnerType     string `json:"githubRepoOwnerType"`
}

type DeploymentsPage struct {
	Deployments []Deployment `json:"deployments"`
}

type TriggerBuildRequest struct {
	Secret string `json:"secret"`
}
