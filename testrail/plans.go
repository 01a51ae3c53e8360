package testrail

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// PlansClient wraps the plan endpoints
type PlansClient struct {
	base *BaseClient
}

// PlansPage is one page of get_plans
type PlansPage struct {
	Pagination
	Plans []Plan `json:"plans"`
}

// PlanFilter narrows get_plans. Zero values are not sent.
type PlanFilter struct {
	ListOptions
	CreatedAfter  time.Time
	CreatedBefore time.Time
	CreatedBy     []int
	IsCompleted   *bool
	MilestoneID   []int
}

// GetPlan returns an existing plan with its entries
func (c *PlansClient) GetPlan(ctx context.Context, planID int) (*Plan, error) {
	plan, err := request[Plan](ctx, c.base, http.MethodGet, endpoint("get_plan", planID), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get plan %d", planID)
	}
	return &plan, nil
}

// GetPlans returns one page of plans of a project
func (c *PlansClient) GetPlans(ctx context.Context, projectID int, filter PlanFilter) (*PlansPage, error) {
	query := listQuery(filter.ListOptions)
	query.setTime("created_after", filter.CreatedAfter)
	query.setTime("created_before", filter.CreatedBefore)
	query.setInts("created_by", filter.CreatedBy)
	query.setBool("is_completed", filter.IsCompleted)
	query.setInts("milestone_id", filter.MilestoneID)

	path := withQuery(endpoint("get_plans", projectID), query.urlValues())
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get plans for project %d", projectID)
	}

	page, plans, err := decodePage[Plan](c.base, raw, "plans", filter.ListOptions)
	if err != nil {
		return nil, handleAPIError(err, "failed to get plans for project %d", projectID)
	}
	return &PlansPage{Pagination: page, Plans: plans}, nil
}

// AddPlan creates a plan in a project
func (c *PlansClient) AddPlan(ctx context.Context, projectID int, fields PlanFields) (*Plan, error) {
	plan, err := request[Plan](ctx, c.base, http.MethodPost, endpoint("add_plan", projectID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to add plan to project %d", projectID)
	}
	return &plan, nil
}

// AddPlanEntry adds one or more runs of a suite to a plan
func (c *PlansClient) AddPlanEntry(ctx context.Context, planID int, fields PlanEntryFields) (*PlanEntry, error) {
	entry, err := request[PlanEntry](ctx, c.base, http.MethodPost, endpoint("add_plan_entry", planID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to add entry to plan %d", planID)
	}
	return &entry, nil
}

// UpdatePlan updates an existing plan
func (c *PlansClient) UpdatePlan(ctx context.Context, planID int, fields PlanFields) (*Plan, error) {
	plan, err := request[Plan](ctx, c.base, http.MethodPost, endpoint("update_plan", planID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to update plan %d", planID)
	}
	return &plan, nil
}

// UpdatePlanEntry updates the runs of a plan entry
func (c *PlansClient) UpdatePlanEntry(ctx context.Context, planID int, entryID string, fields PlanEntryFields) (*PlanEntry, error) {
	entry, err := request[PlanEntry](ctx, c.base, http.MethodPost, endpoint("update_plan_entry", planID, entryID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to update entry %s of plan %d", entryID, planID)
	}
	return &entry, nil
}

// AddRunToPlanEntry adds a run with a configuration to an existing plan entry
func (c *PlansClient) AddRunToPlanEntry(ctx context.Context, planID int, entryID string, fields RunFields) (*PlanEntry, error) {
	entry, err := request[PlanEntry](ctx, c.base, http.MethodPost, endpoint("add_run_to_plan_entry", planID, entryID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to add run to entry %s of plan %d", entryID, planID)
	}
	return &entry, nil
}

// UpdateRunInPlanEntry updates a run that lives inside a plan entry
func (c *PlansClient) UpdateRunInPlanEntry(ctx context.Context, runID int, fields RunFields) (*Run, error) {
	run, err := request[Run](ctx, c.base, http.MethodPost, endpoint("update_run_in_plan_entry", runID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to update run %d in plan entry", runID)
	}
	return &run, nil
}

// ClosePlan closes a plan and archives its runs
func (c *PlansClient) ClosePlan(ctx context.Context, planID int) (*Plan, error) {
	plan, err := request[Plan](ctx, c.base, http.MethodPost, endpoint("close_plan", planID), emptyBody)
	if err != nil {
		return nil, handleAPIError(err, "failed to close plan %d", planID)
	}
	return &plan, nil
}

// DeletePlan deletes a plan with all its runs and results
func (c *PlansClient) DeletePlan(ctx context.Context, planID int) error {
	if err := c.base.Request(ctx, http.MethodPost, endpoint("delete_plan", planID), emptyBody, nil); err != nil {
		return handleAPIError(err, "failed to delete plan %d", planID)
	}
	return nil
}

// DeletePlanEntry removes an entry and its runs from a plan
func (c *PlansClient) DeletePlanEntry(ctx context.Context, planID int, entryID string) error {
	if err := c.base.Request(ctx, http.MethodPost, endpoint("delete_plan_entry", planID, entryID), emptyBody, nil); err != nil {
		return handleAPIError(err, "failed to delete entry %s of plan %d", entryID, planID)
	}
	return nil
}

// DeleteRunFromPlanEntry removes a single run from its plan entry
func (c *PlansClient) DeleteRunFromPlanEntry(ctx context.Context, runID int) error {
	if err := c.base.Request(ctx, http.MethodPost, endpoint("delete_run_from_plan_entry", runID), emptyBody, nil); err != nil {
		return handleAPIError(err, "failed to delete run %d from plan entry", runID)
	}
	return nil
}
