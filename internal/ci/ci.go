// Package ci defines the CI-platform adapter contract spec.md names as an
// out-of-scope collaborator (§1: "CI-platform adapters (stubs only)"). The
// three concrete adapters mirror original_source/octopus/ci's unimplemented
// method bodies: the shape exists, the platform wiring does not.
package ci

import (
	"context"
	"fmt"
)

// PipelineStatus is the status snapshot GetPipelineStatus returns.
type PipelineStatus struct {
	ID        string
	Status    string
	Ref       string
	SHA       string
	CreatedAt string
	UpdatedAt string
}

// PipelineConfig configures TriggerPipeline.
type PipelineConfig struct {
	ProjectID string
	Ref       string
	Variables map[string]string
}

// Adapter is the capability a CI platform integration exposes, grounded on
// original_source/octopus/ext_api/base.py's CIAdapter abstract base class.
type Adapter interface {
	GetPipelineStatus(ctx context.Context, pipelineID string) (PipelineStatus, error)
	TriggerPipeline(ctx context.Context, cfg PipelineConfig) (string, error)
	CancelPipeline(ctx context.Context, pipelineID string) (bool, error)
	GetJobLogs(ctx context.Context, jobID string) (string, error)
}

// errNotImplemented is returned by every stub adapter method; the platform
// wiring itself is out of scope (spec.md §1).
func errNotImplemented(platform, op string) error {
	return fmt.Errorf("%s adapter: %s not implemented", platform, op)
}

// base carries the two fields every adapter constructor takes in the source
// (api_url, token), unused by the stub bodies but kept so a future wiring
// pass has somewhere to put them.
type base struct {
	APIURL string
	Token  string
}

// GitHubAdapter mirrors ci/github.py: every method is an unimplemented stub.
type GitHubAdapter struct{ base }

// NewGitHubAdapter constructs a GitHub adapter stub.
func NewGitHubAdapter(apiURL, token string) *GitHubAdapter {
	return &GitHubAdapter{base{APIURL: apiURL, Token: token}}
}

func (a *GitHubAdapter) GetPipelineStatus(ctx context.Context, pipelineID string) (PipelineStatus, error) {
	return PipelineStatus{}, errNotImplemented("github", "get_pipeline_status")
}

func (a *GitHubAdapter) TriggerPipeline(ctx context.Context, cfg PipelineConfig) (string, error) {
	return "", errNotImplemented("github", "trigger_pipeline")
}

func (a *GitHubAdapter) CancelPipeline(ctx context.Context, pipelineID string) (bool, error) {
	return false, errNotImplemented("github", "cancel_pipeline")
}

func (a *GitHubAdapter) GetJobLogs(ctx context.Context, jobID string) (string, error) {
	return "", errNotImplemented("github", "get_job_logs")
}

// JenkinsAdapter mirrors ci/jenkins.py: every method is an unimplemented stub.
type JenkinsAdapter struct{ base }

// NewJenkinsAdapter constructs a Jenkins adapter stub.
func NewJenkinsAdapter(apiURL, token string) *JenkinsAdapter {
	return &JenkinsAdapter{base{APIURL: apiURL, Token: token}}
}

func (a *JenkinsAdapter) GetPipelineStatus(ctx context.Context, pipelineID string) (PipelineStatus, error) {
	return PipelineStatus{}, errNotImplemented("jenkins", "get_pipeline_status")
}

func (a *JenkinsAdapter) TriggerPipeline(ctx context.Context, cfg PipelineConfig) (string, error) {
	return "", errNotImplemented("jenkins", "trigger_pipeline")
}

func (a *JenkinsAdapter) CancelPipeline(ctx context.Context, pipelineID string) (bool, error) {
	return false, errNotImplemented("jenkins", "cancel_pipeline")
}

func (a *JenkinsAdapter) GetJobLogs(ctx context.Context, jobID string) (string, error) {
	return "", errNotImplemented("jenkins", "get_job_logs")
}

// GitLabAdapter mirrors ci/gitlab.py. Unlike the GitHub/Jenkins stubs, the
// source's GitLab adapter is fleshed out against a GitLab client; no GitLab
// client library appears anywhere in the example pack, so (per spec.md §1's
// "stubs only") this stays a stub like its siblings rather than reaching for
// an ungrounded dependency.
type GitLabAdapter struct{ base }

// NewGitLabAdapter constructs a GitLab adapter stub.
func NewGitLabAdapter(apiURL, token string) *GitLabAdapter {
	return &GitLabAdapter{base{APIURL: apiURL, Token: token}}
}

func (a *GitLabAdapter) GetPipelineStatus(ctx context.Context, pipelineID string) (PipelineStatus, error) {
	return PipelineStatus{}, errNotImplemented("gitlab", "get_pipeline_status")
}

func (a *GitLabAdapter) TriggerPipeline(ctx context.Context, cfg PipelineConfig) (string, error) {
	return "", errNotImplemented("gitlab", "trigger_pipeline")
}

func (a *GitLabAdapter) CancelPipeline(ctx context.Context, pipelineID string) (bool, error) {
	return false, errNotImplemented("gitlab", "cancel_pipeline")
}

func (a *GitLabAdapter) GetJobLogs(ctx context.Context, jobID string) (string, error) {
	return "", errNotImplemented("gitlab", "get_job_logs")
}
