package testrail

import (
	"context"
	"encoding/json"
	"net/http"
)

// ProjectsClient wraps the project endpoints
type ProjectsClient struct {
	base *BaseClient
}

// ProjectsPage is one page of get_projects
type ProjectsPage struct {
	Pagination
	Projects []Project `json:"projects"`
}

// ProjectFilter narrows get_projects
type ProjectFilter struct {
	ListOptions
	IsCompleted *bool
}

// GetProject returns an existing project
func (c *ProjectsClient) GetProject(ctx context.Context, projectID int) (*Project, error) {
	project, err := request[Project](ctx, c.base, http.MethodGet, endpoint("get_project", projectID), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get project %d", projectID)
	}
	return &project, nil
}

// GetProjects returns one page of projects
func (c *ProjectsClient) GetProjects(ctx context.Context, filter ProjectFilter) (*ProjectsPage, error) {
	query := listQuery(filter.ListOptions)
	query.setBool("is_completed", filter.IsCompleted)

	path := withQuery(endpoint("get_projects"), query.urlValues())
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get projects")
	}

	page, projects, err := decodePage[Project](c.base, raw, "projects", filter.ListOptions)
	if err != nil {
		return nil, handleAPIError(err, "failed to get projects")
	}
	return &ProjectsPage{Pagination: page, Projects: projects}, nil
}

// AddProject creates a new project
func (c *ProjectsClient) AddProject(ctx context.Context, fields ProjectFields) (*Project, error) {
	project, err := request[Project](ctx, c.base, http.MethodPost, endpoint("add_project"), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to add project")
	}
	return &project, nil
}

// UpdateProject updates an existing project. Only the given fields are sent.
func (c *ProjectsClient) UpdateProject(ctx context.Context, projectID int, fields ProjectFields) (*Project, error) {
	project, err := request[Project](ctx, c.base, http.MethodPost, endpoint("update_project", projectID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to update project %d", projectID)
	}
	return &project, nil
}

// DeleteProject deletes a project and everything it contains. This cannot be undone.
func (c *ProjectsClient) DeleteProject(ctx context.Context, projectID int) error {
	if err := c.base.Request(ctx, http.MethodPost, endpoint("delete_project", projectID), emptyBody, nil); err != nil {
		return handleAPIError(err, "failed to delete project %d", projectID)
	}
	return nil
}
