package testrail

import (
	"context"
	"encoding/json"
	"net/http"
)

// MilestonesClient wraps the milestone endpoints
type MilestonesClient struct {
	base *BaseClient
}

// MilestonesPage is one page of get_milestones
type MilestonesPage struct {
	Pagination
	Milestones []Milestone `json:"milestones"`
}

// MilestoneFilter narrows get_milestones
type MilestoneFilter struct {
	ListOptions
	IsCompleted *bool
	IsStarted   *bool
}

// GetMilestone returns an existing milestone
func (c *MilestonesClient) GetMilestone(ctx context.Context, milestoneID int) (*Milestone, error) {
	milestone, err := request[Milestone](ctx, c.base, http.MethodGet, endpoint("get_milestone", milestoneID), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get milestone %d", milestoneID)
	}
	return &milestone, nil
}

// GetMilestones returns one page of milestones of a project
func (c *MilestonesClient) GetMilestones(ctx context.Context, projectID int, filter MilestoneFilter) (*MilestonesPage, error) {
	query := listQuery(filter.ListOptions)
	query.setBool("is_completed", filter.IsCompleted)
	query.setBool("is_started", filter.IsStarted)

	path := withQuery(endpoint("get_milestones", projectID), query.urlValues())
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get milestones for project %d", projectID)
	}

	page, milestones, err := decodePage[Milestone](c.base, raw, "milestones", filter.ListOptions)
	if err != nil {
		return nil, handleAPIError(err, "failed to get milestones for project %d", projectID)
	}
	return &MilestonesPage{Pagination: page, Milestones: milestones}, nil
}

// AddMilestone creates a milestone in a project
func (c *MilestonesClient) AddMilestone(ctx context.Context, projectID int, fields MilestoneFields) (*Milestone, error) {
	milestone, err := request[Milestone](ctx, c.base, http.MethodPost, endpoint("add_milestone", projectID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to add milestone to project %d", projectID)
	}
	return &milestone, nil
}

// UpdateMilestone updates an existing milestone
func (c *MilestonesClient) UpdateMilestone(ctx context.Context, milestoneID int, fields MilestoneFields) (*Milestone, error) {
	milestone, err := request[Milestone](ctx, c.base, http.MethodPost, endpoint("update_milestone", milestoneID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to update milestone %d", milestoneID)
	}
	return &milestone, nil
}

// DeleteMilestone deletes a milestone
func (c *MilestonesClient) DeleteMilestone(ctx context.Context, milestoneID int) error {
	if err := c.base.Request(ctx, http.MethodPost, endpoint("delete_milestone", milestoneID), emptyBody, nil); err != nil {
		return handleAPIError(err, "failed to delete milestone %d", milestoneID)
	}
	return nil
}
