package testrail

import (
	"context"
	"encoding/json"
	"net/http"
)

// TestsClient wraps the test endpoints
type TestsClient struct {
	base *BaseClient
}

// TestsPage is one page of get_tests
type TestsPage struct {
	Pagination
	Tests []Test `json:"tests"`
}

// TestFilter narrows get_tests
type TestFilter struct {
	ListOptions
	StatusID []int
}

// GetTest returns an existing test
func (c *TestsClient) GetTest(ctx context.Context, testID int) (*Test, error) {
	test, err := request[Test](ctx, c.base, http.MethodGet, endpoint("get_test", testID), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get test %d", testID)
	}
	return &test, nil
}

// GetTests returns one page of tests of a run
func (c *TestsClient) GetTests(ctx context.Context, runID int, filter TestFilter) (*TestsPage, error) {
	query := listQuery(filter.ListOptions)
	query.setInts("status_id", filter.StatusID)

	path := withQuery(endpoint("get_tests", runID), query.urlValues())
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get tests for run %d", runID)
	}

	page, tests, err := decodePage[Test](c.base, raw, "tests", filter.ListOptions)
	if err != nil {
		return nil, handleAPIError(err, "failed to get tests for run %d", runID)
	}
	return &TestsPage{Pagination: page, Tests: tests}, nil
}
