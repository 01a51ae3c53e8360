package testrail

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// SharedStepsClient wraps the shared step endpoints
type SharedStepsClient struct {
	base *BaseClient
}

// SharedStepsPage is one page of get_shared_steps
type SharedStepsPage struct {
	Pagination
	SharedSteps []SharedStep `json:"shared_steps"`
}

// SharedStepFilter narrows get_shared_steps. Zero values are not sent.
type SharedStepFilter struct {
	ListOptions
	CreatedAfter  time.Time
	CreatedBefore time.Time
	CreatedBy     []int
	UpdatedAfter  time.Time
	UpdatedBefore time.Time
	Refs          string
}

type deleteSharedStepBody struct {
	KeepInCases int `json:"keep_in_cases"`
}

// GetSharedStep returns an existing set of shared steps
func (c *SharedStepsClient) GetSharedStep(ctx context.Context, sharedStepID int) (*SharedStep, error) {
	step, err := request[SharedStep](ctx, c.base, http.MethodGet, endpoint("get_shared_step", sharedStepID), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get shared step %d", sharedStepID)
	}
	return &step, nil
}

// GetSharedStepHistory returns the change history of a set of shared steps
func (c *SharedStepsClient) GetSharedStepHistory(ctx context.Context, sharedStepID int) ([]SharedStepHistory, error) {
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, endpoint("get_shared_step_history", sharedStepID), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get history for shared step %d", sharedStepID)
	}
	history, err := decodeList[SharedStepHistory](c.base, raw, "step_history")
	if err != nil {
		return nil, handleAPIError(err, "failed to get history for shared step %d", sharedStepID)
	}
	return history, nil
}

// GetSharedSteps returns one page of shared steps of a project
func (c *SharedStepsClient) GetSharedSteps(ctx context.Context, projectID int, filter SharedStepFilter) (*SharedStepsPage, error) {
	query := listQuery(filter.ListOptions)
	query.setTime("created_after", filter.CreatedAfter)
	query.setTime("created_before", filter.CreatedBefore)
	query.setInts("created_by", filter.CreatedBy)
	query.setTime("updated_after", filter.UpdatedAfter)
	query.setTime("updated_before", filter.UpdatedBefore)
	query.setString("refs", filter.Refs)

	path := withQuery(endpoint("get_shared_steps", projectID), query.urlValues())
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get shared steps for project %d", projectID)
	}

	page, steps, err := decodePage[SharedStep](c.base, raw, "shared_steps", filter.ListOptions)
	if err != nil {
		return nil, handleAPIError(err, "failed to get shared steps for project %d", projectID)
	}
	return &SharedStepsPage{Pagination: page, SharedSteps: steps}, nil
}

// AddSharedStep creates a set of shared steps in a project
func (c *SharedStepsClient) AddSharedStep(ctx context.Context, projectID int, fields SharedStepFields) (*SharedStep, error) {
	step, err := request[SharedStep](ctx, c.base, http.MethodPost, endpoint("add_shared_step", projectID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to add shared step to project %d", projectID)
	}
	return &step, nil
}

// UpdateSharedStep updates a set of shared steps
func (c *SharedStepsClient) UpdateSharedStep(ctx context.Context, sharedStepID int, fields SharedStepFields) (*SharedStep, error) {
	step, err := request[SharedStep](ctx, c.base, http.MethodPost, endpoint("update_shared_step", sharedStepID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to update shared step %d", sharedStepID)
	}
	return &step, nil
}

// DeleteSharedStep deletes a set of shared steps. With keepInCases the steps
// are copied into every case that used them.
func (c *SharedStepsClient) DeleteSharedStep(ctx context.Context, sharedStepID int, keepInCases bool) error {
	body := deleteSharedStepBody{}
	if keepInCases {
		body.KeepInCases = 1
	}
	if err := c.base.Request(ctx, http.MethodPost, endpoint("delete_shared_step", sharedStepID), body, nil); err != nil {
		return handleAPIError(err, "failed to delete shared step %d", sharedStepID)
	}
	return nil
}
