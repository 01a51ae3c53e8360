package testrail

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// CasesClient wraps the case endpoints
type CasesClient struct {
	base *BaseClient
}

// CasesPage is one page of get_cases
type CasesPage struct {
	Pagination
	Cases []Case `json:"cases"`
}

// CaseFilter narrows get_cases. Zero values are not sent.
type CaseFilter struct {
	ListOptions
	SuiteID       int
	SectionID     int
	CreatedAfter  time.Time
	CreatedBefore time.Time
	CreatedBy     []int
	UpdatedAfter  time.Time
	UpdatedBefore time.Time
	UpdatedBy     []int
	MilestoneID   []int
	PriorityID    []int
	TemplateID    []int
	TypeID        []int
	Refs          string
	Filter        string // matched against titles
}

// GetCase returns an existing test case
func (c *CasesClient) GetCase(ctx context.Context, caseID int) (*Case, error) {
	testCase, err := request[Case](ctx, c.base, http.MethodGet, endpoint("get_case", caseID), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get case %d", caseID)
	}
	return &testCase, nil
}

// GetCases returns one page of cases of a project
func (c *CasesClient) GetCases(ctx context.Context, projectID int, filter CaseFilter) (*CasesPage, error) {
	query := listQuery(filter.ListOptions)
	query.setInt("suite_id", filter.SuiteID)
	query.setInt("section_id", filter.SectionID)
	query.setTime("created_after", filter.CreatedAfter)
	query.setTime("created_before", filter.CreatedBefore)
	query.setInts("created_by", filter.CreatedBy)
	query.setTime("updated_after", filter.UpdatedAfter)
	query.setTime("updated_before", filter.UpdatedBefore)
	query.setInts("updated_by", filter.UpdatedBy)
	query.setInts("milestone_id", filter.MilestoneID)
	query.setInts("priority_id", filter.PriorityID)
	query.setInts("template_id", filter.TemplateID)
	query.setInts("type_id", filter.TypeID)
	query.setString("refs", filter.Refs)
	query.setString("filter", filter.Filter)

	path := withQuery(endpoint("get_cases", projectID), query.urlValues())
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get cases for project %d", projectID)
	}

	page, cases, err := decodePage[Case](c.base, raw, "cases", filter.ListOptions)
	if err != nil {
		return nil, handleAPIError(err, "failed to get cases for project %d", projectID)
	}
	return &CasesPage{Pagination: page, Cases: cases}, nil
}

// GetHistoryForCase returns the edit history of a case
func (c *CasesClient) GetHistoryForCase(ctx context.Context, caseID int, opts ListOptions) ([]CaseHistory, error) {
	path := withQuery(endpoint("get_history_for_case", caseID), opts.values())
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get history for case %d", caseID)
	}
	history, err := decodeList[CaseHistory](c.base, raw, "history")
	if err != nil {
		return nil, handleAPIError(err, "failed to get history for case %d", caseID)
	}
	return history, nil
}

// AddCase creates a case in a section
func (c *CasesClient) AddCase(ctx context.Context, sectionID int, fields CaseFields) (*Case, error) {
	testCase, err := request[Case](ctx, c.base, http.MethodPost, endpoint("add_case", sectionID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to add case to section %d", sectionID)
	}
	return &testCase, nil
}

// UpdateCase updates an existing case. The body is exactly the given fields;
// nothing is merged with the stored case.
func (c *CasesClient) UpdateCase(ctx context.Context, caseID int, fields CaseFields) (*Case, error) {
	testCase, err := request[Case](ctx, c.base, http.MethodPost, endpoint("update_case", caseID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to update case %d", caseID)
	}
	return &testCase, nil
}

// UpdateCases applies the same field values to several cases of a suite
func (c *CasesClient) UpdateCases(ctx context.Context, suiteID int, caseIDs []int, fields CaseFields) (map[string]any, error) {
	body, err := withCaseIDs(fields, caseIDs)
	if err != nil {
		return nil, handleAPIError(err, "failed to update cases in suite %d", suiteID)
	}
	result, err := request[map[string]any](ctx, c.base, http.MethodPost, endpoint("update_cases", suiteID), body)
	if err != nil {
		return nil, handleAPIError(err, "failed to update cases in suite %d", suiteID)
	}
	return result, nil
}

// DeleteCase deletes a case. With soft set nothing is deleted and the service
// reports the affected counts.
func (c *CasesClient) DeleteCase(ctx context.Context, caseID int, soft bool) (map[string]any, error) {
	path := softDelete(endpoint("delete_case", caseID), soft)
	result, err := request[map[string]any](ctx, c.base, http.MethodPost, path, emptyBody)
	if err != nil {
		return nil, handleAPIError(err, "failed to delete case %d", caseID)
	}
	return result, nil
}

// DeleteCases deletes several cases of a suite
func (c *CasesClient) DeleteCases(ctx context.Context, suiteID int, caseIDs []int, soft bool) (map[string]any, error) {
	path := softDelete(endpoint("delete_cases", suiteID), soft)
	body := caseIDsBody{CaseIDs: nonNilIDs(caseIDs)}
	result, err := request[map[string]any](ctx, c.base, http.MethodPost, path, body)
	if err != nil {
		return nil, handleAPIError(err, "failed to delete cases in suite %d", suiteID)
	}
	return result, nil
}

// CopyCasesToSection copies cases into a section. The response body is
// returned as is.
func (c *CasesClient) CopyCasesToSection(ctx context.Context, sectionID int, caseIDs []int) (map[string]any, error) {
	body := caseIDsBody{CaseIDs: nonNilIDs(caseIDs)}
	result, err := request[map[string]any](ctx, c.base, http.MethodPost, endpoint("copy_cases_to_section", sectionID), body)
	if err != nil {
		return nil, handleAPIError(err, "failed to copy cases to section %d", sectionID)
	}
	return result, nil
}

// MoveCasesToSection moves cases of a suite into a section
func (c *CasesClient) MoveCasesToSection(ctx context.Context, sectionID, suiteID int, caseIDs []int) (map[string]any, error) {
	body := moveCasesBody{SuiteID: suiteID, CaseIDs: nonNilIDs(caseIDs)}
	result, err := request[map[string]any](ctx, c.base, http.MethodPost, endpoint("move_cases_to_section", sectionID), body)
	if err != nil {
		return nil, handleAPIError(err, "failed to move cases to section %d", sectionID)
	}
	return result, nil
}

// GetCaseTypes returns the available case types
func (c *CasesClient) GetCaseTypes(ctx context.Context) ([]CaseType, error) {
	types, err := request[[]CaseType](ctx, c.base, http.MethodGet, endpoint("get_case_types"), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get case types")
	}
	return types, nil
}

// GetCaseFields returns the custom case field definitions
func (c *CasesClient) GetCaseFields(ctx context.Context) ([]CaseField, error) {
	fields, err := request[[]CaseField](ctx, c.base, http.MethodGet, endpoint("get_case_fields"), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get case fields")
	}
	return fields, nil
}

type caseIDsBody struct {
	CaseIDs []int `json:"case_ids"`
}

type moveCasesBody struct {
	SuiteID int   `json:"suite_id"`
	CaseIDs []int `json:"case_ids"`
}

// nonNilIDs keeps an empty ID list encoding as [] rather than null.
func nonNilIDs(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}

// withCaseIDs merges case_ids into the encoded fields object.
func withCaseIDs(fields CaseFields, caseIDs []int) (map[string]any, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	body := make(map[string]any)
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	body["case_ids"] = nonNilIDs(caseIDs)
	return body, nil
}
