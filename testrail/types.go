package testrail

import (
	"encoding/json"
	"maps"
	"strings"
	"time"
)

// customPrefix marks user-defined fields on cases and results.
const customPrefix = "custom_"

// Unix converts a TestRail timestamp (seconds since epoch) to time.Time.
// Zero stays the zero time.
func Unix(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// Project represents a TestRail project
type Project struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Announcement     string `json:"announcement,omitempty"`
	ShowAnnouncement bool   `json:"show_announcement"`
	IsCompleted      bool   `json:"is_completed"`
	CompletedOn      int64  `json:"completed_on,omitempty"`
	SuiteMode        int    `json:"suite_mode"`
	URL              string `json:"url"`
}

// ProjectFields is the body of add_project/update_project
type ProjectFields struct {
	Name             string `json:"name,omitempty"`
	Announcement     string `json:"announcement,omitempty"`
	ShowAnnouncement *bool  `json:"show_announcement,omitempty"`
	SuiteMode        int    `json:"suite_mode,omitempty"`
	IsCompleted      *bool  `json:"is_completed,omitempty"`
}

// Suite represents a test suite
type Suite struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ProjectID   int    `json:"project_id"`
	IsMaster    bool   `json:"is_master"`
	IsBaseline  bool   `json:"is_baseline"`
	IsCompleted bool   `json:"is_completed"`
	CompletedOn int64  `json:"completed_on,omitempty"`
	URL         string `json:"url"`
}

// SuiteFields is the body of add_suite/update_suite
type SuiteFields struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Section represents a case section
type Section struct {
	ID           int    `json:"id"`
	SuiteID      int    `json:"suite_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ParentID     *int   `json:"parent_id"`
	DisplayOrder int    `json:"display_order"`
	Depth        int    `json:"depth"`
}

// SectionFields is the body of add_section/update_section
type SectionFields struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	SuiteID     int    `json:"suite_id,omitempty"`
	ParentID    int    `json:"parent_id,omitempty"`
}

// MoveSection is the body of move_section. A nil ParentID moves to the root.
type MoveSection struct {
	ParentID *int `json:"parent_id"`
	AfterID  *int `json:"after_id,omitempty"`
}

// Case represents a test case
type Case struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	SectionID        int    `json:"section_id"`
	TemplateID       int    `json:"template_id"`
	TypeID           int    `json:"type_id"`
	PriorityID       int    `json:"priority_id"`
	MilestoneID      *int   `json:"milestone_id"`
	Refs             string `json:"refs,omitempty"`
	CreatedBy        int    `json:"created_by"`
	CreatedOn        int64  `json:"created_on"`
	UpdatedBy        int    `json:"updated_by"`
	UpdatedOn        int64  `json:"updated_on"`
	Estimate         string `json:"estimate,omitempty"`
	EstimateForecast string `json:"estimate_forecast,omitempty"`
	SuiteID          int    `json:"suite_id"`
	DisplayOrder     int    `json:"display_order"`
	IsDeleted        int    `json:"is_deleted"`
	CaseAssignedToID *int   `json:"case_assignedto_id,omitempty"`

	// Custom holds every custom_* field returned by the service.
	Custom map[string]any `json:"-"`
}

// UnmarshalJSON keeps custom_* fields that the struct does not declare
func (c *Case) UnmarshalJSON(data []byte) error {
	type plain Case
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	custom, err := customFields(data)
	if err != nil {
		return err
	}
	*c = Case(p)
	c.Custom = custom
	return nil
}

// MarshalJSON writes custom fields back at the top level
func (c Case) MarshalJSON() ([]byte, error) {
	type plain Case
	return withCustomFields(plain(c), c.Custom)
}

// CaseFields is the body of add_case/update_case/update_cases. Only set
// fields are sent.
type CaseFields struct {
	Title       string `json:"title,omitempty"`
	SectionID   int    `json:"section_id,omitempty"`
	TemplateID  int    `json:"template_id,omitempty"`
	TypeID      int    `json:"type_id,omitempty"`
	PriorityID  int    `json:"priority_id,omitempty"`
	Estimate    string `json:"estimate,omitempty"`
	MilestoneID int    `json:"milestone_id,omitempty"`
	Refs        string `json:"refs,omitempty"`

	// Custom is flattened into the body; keys should carry the custom_ prefix.
	Custom map[string]any `json:"-"`
}

// MarshalJSON writes custom fields at the top level
func (f CaseFields) MarshalJSON() ([]byte, error) {
	type plain CaseFields
	return withCustomFields(plain(f), f.Custom)
}

// UnmarshalJSON collects custom_* keys into Custom
func (f *CaseFields) UnmarshalJSON(data []byte) error {
	type plain CaseFields
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	custom, err := customFields(data)
	if err != nil {
		return err
	}
	*f = CaseFields(p)
	f.Custom = custom
	return nil
}

// CaseHistory is one entry of get_history_for_case
type CaseHistory struct {
	ID        int              `json:"id"`
	TypeID    int              `json:"type_id"`
	CreatedOn int64            `json:"created_on"`
	UserID    int              `json:"user_id"`
	Changes   []map[string]any `json:"changes"`
}

// CaseType represents a case type
type CaseType struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// CaseField describes a custom case field
type CaseField struct {
	ID           int              `json:"id"`
	IsActive     bool             `json:"is_active"`
	TypeID       int              `json:"type_id"`
	Name         string           `json:"name"`
	SystemName   string           `json:"system_name"`
	Label        string           `json:"label"`
	Description  string           `json:"description,omitempty"`
	Configs      []map[string]any `json:"configs"`
	DisplayOrder int              `json:"display_order"`
	IncludeAll   bool             `json:"include_all"`
	TemplateIDs  []int            `json:"template_ids"`
}

// ResultField describes a custom result field
type ResultField = CaseField

// Run represents a test run
type Run struct {
	ID            int    `json:"id"`
	SuiteID       int    `json:"suite_id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	MilestoneID   *int   `json:"milestone_id"`
	AssignedToID  *int   `json:"assignedto_id"`
	IncludeAll    bool   `json:"include_all"`
	IsCompleted   bool   `json:"is_completed"`
	CompletedOn   int64  `json:"completed_on,omitempty"`
	Config        string `json:"config,omitempty"`
	ConfigIDs     []int  `json:"config_ids,omitempty"`
	PassedCount   int    `json:"passed_count"`
	BlockedCount  int    `json:"blocked_count"`
	UntestedCount int    `json:"untested_count"`
	RetestCount   int    `json:"retest_count"`
	FailedCount   int    `json:"failed_count"`
	ProjectID     int    `json:"project_id"`
	PlanID        *int   `json:"plan_id"`
	EntryIndex    int    `json:"entry_index,omitempty"`
	EntryID       string `json:"entry_id,omitempty"`
	CreatedOn     int64  `json:"created_on"`
	CreatedBy     int    `json:"created_by"`
	UpdatedOn     int64  `json:"updated_on,omitempty"`
	Refs          string `json:"refs,omitempty"`
	URL           string `json:"url"`
}

// RunFields is the body of add_run/update_run and of run entries in plans
type RunFields struct {
	SuiteID      int    `json:"suite_id,omitempty"`
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	MilestoneID  int    `json:"milestone_id,omitempty"`
	AssignedToID int    `json:"assignedto_id,omitempty"`
	IncludeAll   *bool  `json:"include_all,omitempty"`
	CaseIDs      []int  `json:"case_ids,omitempty"`
	ConfigIDs    []int  `json:"config_ids,omitempty"`
	Refs         string `json:"refs,omitempty"`
}

// Test represents a test, an instance of a case inside a run
type Test struct {
	ID               int    `json:"id"`
	CaseID           int    `json:"case_id"`
	StatusID         int    `json:"status_id"`
	AssignedToID     *int   `json:"assignedto_id"`
	RunID            int    `json:"run_id"`
	Title            string `json:"title"`
	TemplateID       int    `json:"template_id"`
	TypeID           int    `json:"type_id"`
	PriorityID       int    `json:"priority_id"`
	Estimate         string `json:"estimate,omitempty"`
	EstimateForecast string `json:"estimate_forecast,omitempty"`
	Refs             string `json:"refs,omitempty"`
	MilestoneID      *int   `json:"milestone_id"`
}

// Result represents a test result
type Result struct {
	ID            int    `json:"id"`
	TestID        int    `json:"test_id"`
	StatusID      *int   `json:"status_id"`
	CreatedBy     int    `json:"created_by"`
	CreatedOn     int64  `json:"created_on"`
	AssignedToID  *int   `json:"assignedto_id"`
	Comment       string `json:"comment,omitempty"`
	Version       string `json:"version,omitempty"`
	Elapsed       string `json:"elapsed,omitempty"`
	Defects       string `json:"defects,omitempty"`
	AttachmentIDs []int  `json:"attachment_ids,omitempty"`

	// Custom holds every custom_* field returned by the service.
	Custom map[string]any `json:"-"`
}

// UnmarshalJSON keeps custom_* fields that the struct does not declare
func (r *Result) UnmarshalJSON(data []byte) error {
	type plain Result
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	custom, err := customFields(data)
	if err != nil {
		return err
	}
	*r = Result(p)
	r.Custom = custom
	return nil
}

// MarshalJSON writes custom fields back at the top level
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return withCustomFields(plain(r), r.Custom)
}

// ResultFields is the body of add_result/add_result_for_case and one entry of
// the bulk result endpoints. TestID or CaseID identifies the target in bulk
// calls and is omitted otherwise.
type ResultFields struct {
	TestID       int    `json:"test_id,omitempty"`
	CaseID       int    `json:"case_id,omitempty"`
	StatusID     int    `json:"status_id,omitempty"`
	Comment      string `json:"comment,omitempty"`
	Version      string `json:"version,omitempty"`
	Elapsed      string `json:"elapsed,omitempty"`
	Defects      string `json:"defects,omitempty"`
	AssignedToID int    `json:"assignedto_id,omitempty"`

	// Custom is flattened into the body; keys should carry the custom_ prefix.
	Custom map[string]any `json:"-"`
}

// MarshalJSON writes custom fields at the top level
func (f ResultFields) MarshalJSON() ([]byte, error) {
	type plain ResultFields
	return withCustomFields(plain(f), f.Custom)
}

// UnmarshalJSON collects custom_* keys into Custom
func (f *ResultFields) UnmarshalJSON(data []byte) error {
	type plain ResultFields
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	custom, err := customFields(data)
	if err != nil {
		return err
	}
	*f = ResultFields(p)
	f.Custom = custom
	return nil
}

// Plan represents a test plan
type Plan struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	MilestoneID   *int        `json:"milestone_id"`
	AssignedToID  *int        `json:"assignedto_id"`
	IsCompleted   bool        `json:"is_completed"`
	CompletedOn   int64       `json:"completed_on,omitempty"`
	PassedCount   int         `json:"passed_count"`
	BlockedCount  int         `json:"blocked_count"`
	UntestedCount int         `json:"untested_count"`
	RetestCount   int         `json:"retest_count"`
	FailedCount   int         `json:"failed_count"`
	ProjectID     int         `json:"project_id"`
	CreatedOn     int64       `json:"created_on"`
	CreatedBy     int         `json:"created_by"`
	Refs          string      `json:"refs,omitempty"`
	URL           string      `json:"url"`
	Entries       []PlanEntry `json:"entries,omitempty"`
}

// PlanEntry groups one or more runs of a suite inside a plan
type PlanEntry struct {
	ID          string `json:"id"`
	SuiteID     int    `json:"suite_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IncludeAll  bool   `json:"include_all"`
	Refs        string `json:"refs,omitempty"`
	Runs        []Run  `json:"runs"`
}

// PlanFields is the body of add_plan/update_plan
type PlanFields struct {
	Name         string            `json:"name,omitempty"`
	Description  string            `json:"description,omitempty"`
	MilestoneID  int               `json:"milestone_id,omitempty"`
	AssignedToID int               `json:"assignedto_id,omitempty"`
	Refs         string            `json:"refs,omitempty"`
	Entries      []PlanEntryFields `json:"entries,omitempty"`
}

// PlanEntryFields is the body of add_plan_entry/update_plan_entry
type PlanEntryFields struct {
	SuiteID      int         `json:"suite_id,omitempty"`
	Name         string      `json:"name,omitempty"`
	Description  string      `json:"description,omitempty"`
	AssignedToID int         `json:"assignedto_id,omitempty"`
	IncludeAll   *bool       `json:"include_all,omitempty"`
	CaseIDs      []int       `json:"case_ids,omitempty"`
	ConfigIDs    []int       `json:"config_ids,omitempty"`
	Refs         string      `json:"refs,omitempty"`
	Runs         []RunFields `json:"runs,omitempty"`
}

// Milestone represents a milestone
type Milestone struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	ProjectID   int         `json:"project_id"`
	ParentID    *int        `json:"parent_id"`
	DueOn       int64       `json:"due_on,omitempty"`
	StartOn     int64       `json:"start_on,omitempty"`
	StartedOn   int64       `json:"started_on,omitempty"`
	IsCompleted bool        `json:"is_completed"`
	IsStarted   bool        `json:"is_started"`
	CompletedOn int64       `json:"completed_on,omitempty"`
	Refs        string      `json:"refs,omitempty"`
	URL         string      `json:"url"`
	Milestones  []Milestone `json:"milestones,omitempty"`
}

// MilestoneFields is the body of add_milestone/update_milestone
type MilestoneFields struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	DueOn       int64  `json:"due_on,omitempty"`
	StartOn     int64  `json:"start_on,omitempty"`
	ParentID    int    `json:"parent_id,omitempty"`
	Refs        string `json:"refs,omitempty"`
	IsCompleted *bool  `json:"is_completed,omitempty"`
	IsStarted   *bool  `json:"is_started,omitempty"`
}

// Step is one step of a shared step set
type Step struct {
	Content        string `json:"content"`
	Expected       string `json:"expected,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	Refs           string `json:"refs,omitempty"`
}

// SharedStep represents a set of shared steps
type SharedStep struct {
	ID                   int    `json:"id"`
	Title                string `json:"title"`
	ProjectID            int    `json:"project_id"`
	CreatedBy            int    `json:"created_by"`
	CreatedOn            int64  `json:"created_on"`
	UpdatedBy            int    `json:"updated_by"`
	UpdatedOn            int64  `json:"updated_on"`
	CustomStepsSeparated []Step `json:"custom_steps_separated"`
	CaseIDs              []int  `json:"case_ids"`
}

// SharedStepFields is the body of add_shared_step/update_shared_step
type SharedStepFields struct {
	Title                string `json:"title,omitempty"`
	CustomStepsSeparated []Step `json:"custom_steps_separated,omitempty"`
}

// SharedStepHistory is one entry of get_shared_step_history
type SharedStepHistory struct {
	ID                   int    `json:"id"`
	Timestamp            int64  `json:"timestamp"`
	UserID               int    `json:"user_id"`
	Title                string `json:"title"`
	CustomStepsSeparated []Step `json:"custom_steps_separated"`
}

// User represents a TestRail user
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	RoleID   int    `json:"role_id,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Attachment describes an uploaded file
type Attachment struct {
	ID        any    `json:"id"` // numeric on server, string UUID on cloud
	Name      string `json:"name"`
	Filename  string `json:"filename,omitempty"`
	Size      int64  `json:"size"`
	CreatedOn int64  `json:"created_on"`
	ProjectID int    `json:"project_id,omitempty"`
	CaseID    int    `json:"case_id,omitempty"`
	UserID    int    `json:"user_id"`
	ResultID  int    `json:"result_id,omitempty"`
	EntityID  string `json:"entity_id,omitempty"`
}

// AttachmentRef is returned by the add_attachment_* endpoints
type AttachmentRef struct {
	AttachmentID any `json:"attachment_id"`
}

// customFields extracts every custom_* key of a JSON object.
func customFields(data []byte) (map[string]any, error) {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	var custom map[string]any
	for key, value := range all {
		if !strings.HasPrefix(key, customPrefix) {
			continue
		}
		if custom == nil {
			custom = make(map[string]any)
		}
		custom[key] = value
	}
	return custom, nil
}

// withCustomFields marshals v and merges custom into the resulting object.
// Declared fields win over custom keys of the same name.
func withCustomFields(v any, custom map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(custom) == 0 {
		return data, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	merged := maps.Clone(custom)
	maps.Copy(merged, fields)
	return json.Marshal(merged)
}
