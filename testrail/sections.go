package testrail

import (
	"context"
	"encoding/json"
	"net/http"
)

// SectionsClient wraps the section endpoints
type SectionsClient struct {
	base *BaseClient
}

// SectionsPage is one page of get_sections
type SectionsPage struct {
	Pagination
	Sections []Section `json:"sections"`
}

// SectionFilter narrows get_sections. SuiteID is required for projects in
// multi-suite mode.
type SectionFilter struct {
	ListOptions
	SuiteID int
}

// GetSection returns an existing section
func (c *SectionsClient) GetSection(ctx context.Context, sectionID int) (*Section, error) {
	section, err := request[Section](ctx, c.base, http.MethodGet, endpoint("get_section", sectionID), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get section %d", sectionID)
	}
	return &section, nil
}

// GetSections returns one page of sections of a project
func (c *SectionsClient) GetSections(ctx context.Context, projectID int, filter SectionFilter) (*SectionsPage, error) {
	query := listQuery(filter.ListOptions)
	query.setInt("suite_id", filter.SuiteID)

	path := withQuery(endpoint("get_sections", projectID), query.urlValues())
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get sections for project %d", projectID)
	}

	page, sections, err := decodePage[Section](c.base, raw, "sections", filter.ListOptions)
	if err != nil {
		return nil, handleAPIError(err, "failed to get sections for project %d", projectID)
	}
	return &SectionsPage{Pagination: page, Sections: sections}, nil
}

// AddSection creates a section in a project
func (c *SectionsClient) AddSection(ctx context.Context, projectID int, fields SectionFields) (*Section, error) {
	section, err := request[Section](ctx, c.base, http.MethodPost, endpoint("add_section", projectID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to add section to project %d", projectID)
	}
	return &section, nil
}

// UpdateSection updates an existing section
func (c *SectionsClient) UpdateSection(ctx context.Context, sectionID int, fields SectionFields) (*Section, error) {
	section, err := request[Section](ctx, c.base, http.MethodPost, endpoint("update_section", sectionID), fields)
	if err != nil {
		return nil, handleAPIError(err, "failed to update section %d", sectionID)
	}
	return &section, nil
}

// MoveSection moves a section to another parent or position
func (c *SectionsClient) MoveSection(ctx context.Context, sectionID int, move MoveSection) (*Section, error) {
	section, err := request[Section](ctx, c.base, http.MethodPost, endpoint("move_section", sectionID), move)
	if err != nil {
		return nil, handleAPIError(err, "failed to move section %d", sectionID)
	}
	return &section, nil
}

// DeleteSection deletes a section with all its cases. With soft set nothing
// is deleted and the service reports the affected counts.
func (c *SectionsClient) DeleteSection(ctx context.Context, sectionID int, soft bool) (map[string]any, error) {
	path := softDelete(endpoint("delete_section", sectionID), soft)
	result, err := request[map[string]any](ctx, c.base, http.MethodPost, path, emptyBody)
	if err != nil {
		return nil, handleAPIError(err, "failed to delete section %d", sectionID)
	}
	return result, nil
}
