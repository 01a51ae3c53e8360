package testrail

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// ResultsClient wraps the result endpoints
type ResultsClient struct {
	base *BaseClient
}

// ResultsPage is one page of get_results*
type ResultsPage struct {
	Pagination
	Results []Result `json:"results"`
}

// ResultFilter narrows get_results and get_results_for_case
type ResultFilter struct {
	ListOptions
	DefectsFilter string
	StatusID      []int
}

// RunResultFilter narrows get_results_for_run
type RunResultFilter struct {
	ListOptions
	CreatedAfter  time.Time
	CreatedBefore time.Time
	CreatedBy     []int
	DefectsFilter string
	StatusID      []int
}

type resultsBody struct {
	Results []ResultFields `json:"results"`
}

func (f ResultFilter) query() filterValues {
	query := listQuery(f.ListOptions)
	query.setString("defects_filter", f.DefectsFilter)
	query.setInts("status_id", f.StatusID)
	return query
}

// GetResults returns one page of results of a test
func (c *ResultsClient) GetResults(ctx context.Context, testID int, filter ResultFilter) (*ResultsPage, error) {
	path := withQuery(endpoint("get_results", testID), filter.query().urlValues())
	page, err := c.getPage(ctx, path, filter.ListOptions)
	if err != nil {
		return nil, handleAPIError(err, "failed to get results for test %d", testID)
	}
	return page, nil
}

// GetResultsForCase returns one page of results of a case within a run
func (c *ResultsClient) GetResultsForCase(ctx context.Context, runID, caseID int, filter ResultFilter) (*ResultsPage, error) {
	path := withQuery(endpoint("get_results_for_case", runID, caseID), filter.query().urlValues())
	page, err := c.getPage(ctx, path, filter.ListOptions)
	if err != nil {
		return nil, handleAPIError(err, "failed to get results for case %d in run %d", caseID, runID)
	}
	return page, nil
}

// GetResultsForRun returns one page of results of a run
func (c *ResultsClient) GetResultsForRun(ctx context.Context, runID int, filter RunResultFilter) (*ResultsPage, error) {
	query := listQuery(filter.ListOptions)
	query.setTime("created_after", filter.CreatedAfter)
	query.setTime("created_before", filter.CreatedBefore)
	query.setInts("created_by", filter.CreatedBy)
	query.setString("defects_filter", filter.DefectsFilter)
	query.setInts("status_id", filter.StatusID)

	path := withQuery(endpoint("get_results_for_run", runID), query.urlValues())
	page, err := c.getPage(ctx, path, filter.ListOptions)
	if err != nil {
		return nil, handleAPIError(err, "failed to get results for run %d", runID)
	}
	return page, nil
}

func (c *ResultsClient) getPage(ctx context.Context, path string, opts ListOptions) (*ResultsPage, error) {
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	page, results, err := decodePage[Result](c.base, raw, "results", opts)
	if err != nil {
		return nil, err
	}
	return &ResultsPage{Pagination: page, Results: results}, nil
}

// AddResult adds a result to a test
func (c *ResultsClient) AddResult(ctx context.Context, testID int, fields ResultFields) (*Result, error) {
	result, err := request[Result](ctx, c.base, http.MethodPost, endpoint("add_result", testID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to add result to test %d", testID)
	}
	return &result, nil
}

// AddResultForCase adds a result to the test of a case within a run
func (c *ResultsClient) AddResultForCase(ctx context.Context, runID, caseID int, fields ResultFields) (*Result, error) {
	result, err := request[Result](ctx, c.base, http.MethodPost, endpoint("add_result_for_case", runID, caseID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to add result for case %d in run %d", caseID, runID)
	}
	return &result, nil
}

// AddResults adds several results to a run, keyed by test ID
func (c *ResultsClient) AddResults(ctx context.Context, runID int, results []ResultFields) ([]Result, error) {
	added, err := request[[]Result](ctx, c.base, http.MethodPost, endpoint("add_results", runID), resultsBody{Results: results})
	if err != nil {
		return nil, handleAPIError(err, "failed to add results to run %d", runID)
	}
	return added, nil
}

// AddResultsForCases adds several results to a run, keyed by case ID
func (c *ResultsClient) AddResultsForCases(ctx context.Context, runID int, results []ResultFields) ([]Result, error) {
	added, err := request[[]Result](ctx, c.base, http.MethodPost, endpoint("add_results_for_cases", runID), resultsBody{Results: results})
	if err != nil {
		return nil, handleAPIError(err, "failed to add results for cases to run %d", runID)
	}
	return added, nil
}

// GetResultFields returns the custom result field definitions
func (c *ResultsClient) GetResultFields(ctx context.Context) ([]ResultField, error) {
	fields, err := request[[]ResultField](ctx, c.base, http.MethodGet, endpoint("get_result_fields"), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get result fields")
	}
	return fields, nil
}
