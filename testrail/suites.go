package testrail

import (
	"context"
	"encoding/json"
	"net/http"
)

// SuitesClient wraps the suite endpoints
type SuitesClient struct {
	base *BaseClient
}

// GetSuite returns an existing suite
func (c *SuitesClient) GetSuite(ctx context.Context, suiteID int) (*Suite, error) {
	suite, err := request[Suite](ctx, c.base, http.MethodGet, endpoint("get_suite", suiteID), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get suite %d", suiteID)
	}
	return &suite, nil
}

// GetSuites returns every suite of a project. The endpoint takes no
// pagination parameters.
func (c *SuitesClient) GetSuites(ctx context.Context, projectID int) ([]Suite, error) {
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, endpoint("get_suites", projectID), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get suites for project %d", projectID)
	}
	suites, err := decodeList[Suite](c.base, raw, "suites")
	if err != nil {
		return nil, handleAPIError(err, "failed to get suites for project %d", projectID)
	}
	return suites, nil
}

// AddSuite creates a suite in a project
func (c *SuitesClient) AddSuite(ctx context.Context, projectID int, fields SuiteFields) (*Suite, error) {
	suite, err := request[Suite](ctx, c.base, http.MethodPost, endpoint("add_suite", projectID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to add suite to project %d", projectID)
	}
	return &suite, nil
}

// UpdateSuite updates an existing suite
func (c *SuitesClient) UpdateSuite(ctx context.Context, suiteID int, fields SuiteFields) (*Suite, error) {
	suite, err := request[Suite](ctx, c.base, http.MethodPost, endpoint("update_suite", suiteID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to update suite %d", suiteID)
	}
	return &suite, nil
}

// DeleteSuite deletes a suite. With soft set the service only reports what
// would be deleted.
func (c *SuitesClient) DeleteSuite(ctx context.Context, suiteID int, soft bool) (map[string]any, error) {
	path := softDelete(endpoint("delete_suite", suiteID), soft)
	result, err := request[map[string]any](ctx, c.base, http.MethodPost, path, emptyBody)
	if err != nil {
		return nil, handleAPIError(err, "failed to delete suite %d", suiteID)
	}
	return result, nil
}
