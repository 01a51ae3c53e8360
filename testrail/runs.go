package testrail

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// RunsClient wraps the run endpoints
type RunsClient struct {
	base *BaseClient
}

// RunsPage is one page of get_runs
type RunsPage struct {
	Pagination
	Runs []Run `json:"runs"`
}

// RunFilter narrows get_runs. Zero values are not sent.
type RunFilter struct {
	ListOptions
	CreatedAfter  time.Time
	CreatedBefore time.Time
	CreatedBy     []int
	IsCompleted   *bool
	MilestoneID   []int
	RefsFilter    string
	SuiteID       []int
}

// GetRun returns an existing run
func (c *RunsClient) GetRun(ctx context.Context, runID int) (*Run, error) {
	run, err := request[Run](ctx, c.base, http.MethodGet, endpoint("get_run", runID), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get run %d", runID)
	}
	return &run, nil
}

// GetRuns returns one page of runs of a project. Runs that belong to plans
// are not included.
func (c *RunsClient) GetRuns(ctx context.Context, projectID int, filter RunFilter) (*RunsPage, error) {
	query := listQuery(filter.ListOptions)
	query.setTime("created_after", filter.CreatedAfter)
	query.setTime("created_before", filter.CreatedBefore)
	query.setInts("created_by", filter.CreatedBy)
	query.setBool("is_completed", filter.IsCompleted)
	query.setInts("milestone_id", filter.MilestoneID)
	query.setString("refs_filter", filter.RefsFilter)
	query.setInts("suite_id", filter.SuiteID)

	path := withQuery(endpoint("get_runs", projectID), query.urlValues())
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get runs for project %d", projectID)
	}

	page, runs, err := decodePage[Run](c.base, raw, "runs", filter.ListOptions)
	if err != nil {
		return nil, handleAPIError(err, "failed to get runs for project %d", projectID)
	}
	return &RunsPage{Pagination: page, Runs: runs}, nil
}

// AddRun creates a run in a project
func (c *RunsClient) AddRun(ctx context.Context, projectID int, fields RunFields) (*Run, error) {
	run, err := request[Run](ctx, c.base, http.MethodPost, endpoint("add_run", projectID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to add run to project %d", projectID)
	}
	return &run, nil
}

// UpdateRun updates an existing run
func (c *RunsClient) UpdateRun(ctx context.Context, runID int, fields RunFields) (*Run, error) {
	run, err := request[Run](ctx, c.base, http.MethodPost, endpoint("update_run", runID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to update run %d", runID)
	}
	return &run, nil
}

// CloseRun closes a run and archives its tests and results
func (c *RunsClient) CloseRun(ctx context.Context, runID int) (*Run, error) {
	run, err := request[Run](ctx, c.base, http.MethodPost, endpoint("close_run", runID), emptyBody)
	if err != nil {
		return nil, handleAPIError(err, "failed to close run %d", runID)
	}
	return &run, nil
}

// DeleteRun deletes a run. With soft set nothing is deleted and the service
// reports the affected counts.
func (c *RunsClient) DeleteRun(ctx context.Context, runID int, soft bool) (map[string]any, error) {
	path := softDelete(endpoint("delete_run", runID), soft)
	result, err := request[map[string]any](ctx, c.base, http.MethodPost, path, emptyBody)
	if err != nil {
		return nil, handleAPIError(err, "failed to delete run %d", runID)
	}
	return result, nil
}
