package testrail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCase(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{
		"id":                   1,
		"title":                "Test Case",
		"section_id":           3,
		"priority_id":          2,
		"custom_preconds":      "Logged in",
		"custom_automation_id": 42,
	})
	client := newTestClient(t, server.URL)

	testCase, err := client.Cases.GetCase(context.Background(), 1)
	require.NoError(t, err)

	req := server.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/v2/get_case/1", req.Path)
	assert.Empty(t, req.RawQuery)

	assert.Equal(t, 1, testCase.ID)
	assert.Equal(t, "Test Case", testCase.Title)
	assert.Equal(t, 3, testCase.SectionID)
	assert.Equal(t, 2, testCase.PriorityID)
	assert.Equal(t, map[string]any{
		"custom_preconds":      "Logged in",
		"custom_automation_id": float64(42),
	}, testCase.Custom)
}

func TestDeleteSection_Soft(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{"deleted_cases": 4})
	client := newTestClient(t, server.URL)

	result, err := client.Sections.DeleteSection(context.Background(), 5, true)
	require.NoError(t, err)

	req := server.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v2/delete_section/5", req.Path)
	assert.Equal(t, "soft=1", req.RawQuery)
	assert.JSONEq(t, `{}`, string(req.Body))
	assert.Equal(t, float64(4), result["deleted_cases"])
}

func TestDeleteSection_Hard(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, nil)
	client := newTestClient(t, server.URL)

	_, err := client.Sections.DeleteSection(context.Background(), 5, false)
	require.NoError(t, err)

	req := server.last(t)
	assert.Equal(t, "/api/v2/delete_section/5", req.Path)
	assert.Empty(t, req.RawQuery)
}

func TestGetUserByEmail(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{"id": 7, "email": "a@b.com", "name": "A"})
	client := newTestClient(t, server.URL)

	user, err := client.Users.GetUserByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)

	req := server.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/v2/get_user_by_email", req.Path)
	assert.Equal(t, "email=a%40b.com", req.RawQuery)
	assert.Equal(t, 7, user.ID)
}

func TestCopyCasesToSection(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{"status": true})
	client := newTestClient(t, server.URL)

	result, err := client.Cases.CopyCasesToSection(context.Background(), 2, []int{1, 2})
	require.NoError(t, err)

	req := server.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v2/copy_cases_to_section/2", req.Path)
	assert.JSONEq(t, `{"case_ids":[1,2]}`, string(req.Body))
	assert.Equal(t, map[string]any{"status": true}, result)
}

func TestMoveCasesToSection(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{"status": true})
	client := newTestClient(t, server.URL)

	_, err := client.Cases.MoveCasesToSection(context.Background(), 4, 9, []int{3})
	require.NoError(t, err)

	req := server.last(t)
	assert.Equal(t, "/api/v2/move_cases_to_section/4", req.Path)
	assert.JSONEq(t, `{"suite_id":9,"case_ids":[3]}`, string(req.Body))
}

func TestBulkCaseOperations(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{"updated_cases": []int{1, 2}})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	_, err := client.Cases.UpdateCases(ctx, 3, []int{1, 2}, CaseFields{PriorityID: 4})
	require.NoError(t, err)
	req := server.last(t)
	assert.Equal(t, "/api/v2/update_cases/3", req.Path)
	assert.JSONEq(t, `{"case_ids":[1,2],"priority_id":4}`, string(req.Body))

	_, err = client.Cases.DeleteCases(ctx, 3, []int{1}, true)
	require.NoError(t, err)
	req = server.last(t)
	assert.Equal(t, "/api/v2/delete_cases/3", req.Path)
	assert.Equal(t, "soft=1", req.RawQuery)
	assert.JSONEq(t, `{"case_ids":[1]}`, string(req.Body))
}

func TestAddThenUpdateSendsOnlyPartialData(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{"id": 77, "title": "Login works", "section_id": 5})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	added, err := client.Cases.AddCase(ctx, 5, CaseFields{
		Title:      "Login works",
		PriorityID: 2,
		Custom:     map[string]any{"custom_preconds": "Fresh install"},
	})
	require.NoError(t, err)

	req := server.last(t)
	assert.Equal(t, "/api/v2/add_case/5", req.Path)
	assert.JSONEq(t, `{"title":"Login works","priority_id":2,"custom_preconds":"Fresh install"}`, string(req.Body))

	_, err = client.Cases.UpdateCase(ctx, added.ID, CaseFields{Refs: "JIRA-1"})
	require.NoError(t, err)

	req = server.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v2/update_case/77", req.Path)
	assert.JSONEq(t, `{"refs":"JIRA-1"}`, string(req.Body))
}

func TestReadEndpointPaths(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{"id": 1})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		path string
	}{
		{"project", func() error { _, err := client.Projects.GetProject(ctx, 11); return err }, "/api/v2/get_project/11"},
		{"suite", func() error { _, err := client.Suites.GetSuite(ctx, 12); return err }, "/api/v2/get_suite/12"},
		{"section", func() error { _, err := client.Sections.GetSection(ctx, 13); return err }, "/api/v2/get_section/13"},
		{"case", func() error { _, err := client.Cases.GetCase(ctx, 14); return err }, "/api/v2/get_case/14"},
		{"run", func() error { _, err := client.Runs.GetRun(ctx, 15); return err }, "/api/v2/get_run/15"},
		{"test", func() error { _, err := client.Tests.GetTest(ctx, 16); return err }, "/api/v2/get_test/16"},
		{"plan", func() error { _, err := client.Plans.GetPlan(ctx, 17); return err }, "/api/v2/get_plan/17"},
		{"milestone", func() error { _, err := client.Milestones.GetMilestone(ctx, 18); return err }, "/api/v2/get_milestone/18"},
		{"shared step", func() error { _, err := client.SharedSteps.GetSharedStep(ctx, 19); return err }, "/api/v2/get_shared_step/19"},
		{"user", func() error { _, err := client.Users.GetUser(ctx, 20); return err }, "/api/v2/get_user/20"},
		{"current user", func() error { _, err := client.Users.GetCurrentUser(ctx); return err }, "/api/v2/get_current_user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())
			req := server.last(t)
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Empty(t, req.RawQuery)
		})
	}
}

func TestMutationEndpointsUsePost(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		path string
		body string
	}{
		{"add project", func() error { _, err := client.Projects.AddProject(ctx, ProjectFields{Name: "P"}); return err }, "/api/v2/add_project", `{"name":"P"}`},
		{"update project", func() error { _, err := client.Projects.UpdateProject(ctx, 1, ProjectFields{Name: "Q"}); return err }, "/api/v2/update_project/1", `{"name":"Q"}`},
		{"delete project", func() error { return client.Projects.DeleteProject(ctx, 1) }, "/api/v2/delete_project/1", `{}`},
		{"add suite", func() error { _, err := client.Suites.AddSuite(ctx, 2, SuiteFields{Name: "S"}); return err }, "/api/v2/add_suite/2", `{"name":"S"}`},
		{"delete suite", func() error { _, err := client.Suites.DeleteSuite(ctx, 2, false); return err }, "/api/v2/delete_suite/2", `{}`},
		{"move section", func() error { _, err := client.Sections.MoveSection(ctx, 3, MoveSection{}); return err }, "/api/v2/move_section/3", `{"parent_id":null}`},
		{"add run", func() error { _, err := client.Runs.AddRun(ctx, 4, RunFields{Name: "R", SuiteID: 1}); return err }, "/api/v2/add_run/4", `{"name":"R","suite_id":1}`},
		{"close run", func() error { _, err := client.Runs.CloseRun(ctx, 4); return err }, "/api/v2/close_run/4", `{}`},
		{"add result", func() error { _, err := client.Results.AddResult(ctx, 5, ResultFields{StatusID: 1}); return err }, "/api/v2/add_result/5", `{"status_id":1}`},
		{"add result for case", func() error { _, err := client.Results.AddResultForCase(ctx, 6, 7, ResultFields{StatusID: 5}); return err }, "/api/v2/add_result_for_case/6/7", `{"status_id":5}`},
		{"add plan entry", func() error { _, err := client.Plans.AddPlanEntry(ctx, 8, PlanEntryFields{SuiteID: 1}); return err }, "/api/v2/add_plan_entry/8", `{"suite_id":1}`},
		{"update plan entry", func() error { _, err := client.Plans.UpdatePlanEntry(ctx, 8, "abc-1", PlanEntryFields{Name: "E"}); return err }, "/api/v2/update_plan_entry/8/abc-1", `{"name":"E"}`},
		{"close plan", func() error { _, err := client.Plans.ClosePlan(ctx, 8); return err }, "/api/v2/close_plan/8", `{}`},
		{"delete plan entry", func() error { return client.Plans.DeletePlanEntry(ctx, 8, "abc-1") }, "/api/v2/delete_plan_entry/8/abc-1", `{}`},
		{"delete run from plan entry", func() error { return client.Plans.DeleteRunFromPlanEntry(ctx, 9) }, "/api/v2/delete_run_from_plan_entry/9", `{}`},
		{"add milestone", func() error { _, err := client.Milestones.AddMilestone(ctx, 1, MilestoneFields{Name: "M"}); return err }, "/api/v2/add_milestone/1", `{"name":"M"}`},
		{"delete milestone", func() error { return client.Milestones.DeleteMilestone(ctx, 10) }, "/api/v2/delete_milestone/10", `{}`},
		{"delete shared step", func() error { return client.SharedSteps.DeleteSharedStep(ctx, 11, true) }, "/api/v2/delete_shared_step/11", `{"keep_in_cases":1}`},
		{"delete attachment", func() error { return client.Attachments.DeleteAttachment(ctx, "2c9e") }, "/api/v2/delete_attachment/2c9e", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())
			req := server.last(t)
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.JSONEq(t, tt.body, string(req.Body))
		})
	}
}

func TestListPaginationDefaults(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{
		"offset": 0, "limit": 50, "size": 0,
		"_links": map[string]any{"next": nil, "prev": nil},
	})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	tests := []struct {
		name string
		call func(opts ListOptions) error
		path string
	}{
		{"cases", func(o ListOptions) error { _, err := client.Cases.GetCases(ctx, 1, CaseFilter{ListOptions: o}); return err }, "/api/v2/get_cases/1"},
		{"projects", func(o ListOptions) error { _, err := client.Projects.GetProjects(ctx, ProjectFilter{ListOptions: o}); return err }, "/api/v2/get_projects"},
		{"sections", func(o ListOptions) error { _, err := client.Sections.GetSections(ctx, 1, SectionFilter{ListOptions: o}); return err }, "/api/v2/get_sections/1"},
		{"runs", func(o ListOptions) error { _, err := client.Runs.GetRuns(ctx, 1, RunFilter{ListOptions: o}); return err }, "/api/v2/get_runs/1"},
		{"tests", func(o ListOptions) error { _, err := client.Tests.GetTests(ctx, 2, TestFilter{ListOptions: o}); return err }, "/api/v2/get_tests/2"},
		{"results", func(o ListOptions) error { _, err := client.Results.GetResults(ctx, 3, ResultFilter{ListOptions: o}); return err }, "/api/v2/get_results/3"},
		{"results for case", func(o ListOptions) error { _, err := client.Results.GetResultsForCase(ctx, 3, 4, ResultFilter{ListOptions: o}); return err }, "/api/v2/get_results_for_case/3/4"},
		{"results for run", func(o ListOptions) error { _, err := client.Results.GetResultsForRun(ctx, 3, RunResultFilter{ListOptions: o}); return err }, "/api/v2/get_results_for_run/3"},
		{"plans", func(o ListOptions) error { _, err := client.Plans.GetPlans(ctx, 1, PlanFilter{ListOptions: o}); return err }, "/api/v2/get_plans/1"},
		{"milestones", func(o ListOptions) error { _, err := client.Milestones.GetMilestones(ctx, 1, MilestoneFilter{ListOptions: o}); return err }, "/api/v2/get_milestones/1"},
		{"shared steps", func(o ListOptions) error { _, err := client.SharedSteps.GetSharedSteps(ctx, 1, SharedStepFilter{ListOptions: o}); return err }, "/api/v2/get_shared_steps/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call(ListOptions{}))
			req := server.last(t)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, url.Values{"limit": {"50"}, "offset": {"0"}}, mustParseQuery(t, req.RawQuery))

			require.NoError(t, tt.call(ListOptions{Limit: 10}))
			assert.Equal(t, url.Values{"limit": {"10"}, "offset": {"0"}}, mustParseQuery(t, server.last(t).RawQuery))

			require.NoError(t, tt.call(ListOptions{Offset: 100}))
			assert.Equal(t, url.Values{"limit": {"50"}, "offset": {"100"}}, mustParseQuery(t, server.last(t).RawQuery))
		})
	}
}

func TestListFiltersOmitUnset(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{"cases": []any{}})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	_, err := client.Cases.GetCases(ctx, 1, CaseFilter{})
	require.NoError(t, err)
	query := mustParseQuery(t, server.last(t).RawQuery)
	assert.Len(t, query, 2)
	assert.NotContains(t, query, "suite_id")
	assert.NotContains(t, query, "section_id")

	created := time.Unix(1700000000, 0)
	_, err = client.Cases.GetCases(ctx, 1, CaseFilter{
		SuiteID:      2,
		CreatedAfter: created,
		PriorityID:   []int{3, 4},
		Filter:       "login",
	})
	require.NoError(t, err)
	query = mustParseQuery(t, server.last(t).RawQuery)
	assert.Equal(t, "2", query.Get("suite_id"))
	assert.Equal(t, "1700000000", query.Get("created_after"))
	assert.Equal(t, "3,4", query.Get("priority_id"))
	assert.Equal(t, "login", query.Get("filter"))
	assert.NotContains(t, query, "section_id")

	completed := false
	_, err = client.Runs.GetRuns(ctx, 1, RunFilter{IsCompleted: &completed})
	require.NoError(t, err)
	assert.Equal(t, "0", mustParseQuery(t, server.last(t).RawQuery).Get("is_completed"))
}

func TestGetCases_DecodesEnvelope(t *testing.T) {
	next := "/api/v2/get_cases/1&limit=1&offset=1"
	server := newFakeServer(t, http.StatusOK, map[string]any{
		"offset": 0,
		"limit":  1,
		"size":   1,
		"_links": map[string]any{"next": next, "prev": nil},
		"cases":  []map[string]any{{"id": 9, "title": "Checkout", "custom_steps": "1. Pay"}},
	})
	client := newTestClient(t, server.URL)

	page, err := client.Cases.GetCases(context.Background(), 1, CaseFilter{ListOptions: ListOptions{Limit: 1}})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Size)
	assert.Equal(t, 1, page.Limit)
	require.NotNil(t, page.Links.Next)
	assert.Equal(t, next, *page.Links.Next)
	assert.Nil(t, page.Links.Prev)
	assert.True(t, page.HasMore())
	require.Len(t, page.Cases, 1)
	assert.Equal(t, "Checkout", page.Cases[0].Title)
	assert.Equal(t, "1. Pay", page.Cases[0].Custom["custom_steps"])
}

func TestGetRuns_AcceptsBareArray(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, []map[string]any{{"id": 1, "name": "Nightly"}, {"id": 2, "name": "Smoke"}})
	client := newTestClient(t, server.URL)

	page, err := client.Runs.GetRuns(context.Background(), 1, RunFilter{})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Size)
	assert.Equal(t, 50, page.Limit)
	assert.False(t, page.HasMore())
	require.Len(t, page.Runs, 2)
	assert.Equal(t, "Smoke", page.Runs[1].Name)
}

func TestGetUsers_StripsEnvelope(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{
		"offset": 0, "limit": 250, "size": 1,
		"users": []map[string]any{{"id": 1, "name": "Ada", "email": "ada@example.com", "is_active": true}},
	})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	users, err := client.Users.GetUsers(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/get_users", server.last(t).Path)
	require.Len(t, users, 1)
	assert.Equal(t, "Ada", users[0].Name)

	_, err = client.Users.GetUsers(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/get_users/3", server.last(t).Path)
}

func TestGetSuites_NoQuery(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, []map[string]any{{"id": 1, "name": "Master", "is_master": true}})
	client := newTestClient(t, server.URL)

	suites, err := client.Suites.GetSuites(context.Background(), 4)
	require.NoError(t, err)

	req := server.last(t)
	assert.Equal(t, "/api/v2/get_suites/4", req.Path)
	assert.Empty(t, req.RawQuery)
	require.Len(t, suites, 1)
	assert.True(t, suites[0].IsMaster)
}

func TestAddResultsForCases(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, []map[string]any{{"id": 100, "test_id": 5, "status_id": 1}})
	client := newTestClient(t, server.URL)

	added, err := client.Results.AddResultsForCases(context.Background(), 3, []ResultFields{
		{CaseID: 1, StatusID: 1, Comment: "ok"},
		{CaseID: 2, StatusID: 5, Custom: map[string]any{"custom_env": "staging"}},
	})
	require.NoError(t, err)

	req := server.last(t)
	assert.Equal(t, "/api/v2/add_results_for_cases/3", req.Path)
	assert.JSONEq(t, `{"results":[
		{"case_id":1,"status_id":1,"comment":"ok"},
		{"case_id":2,"status_id":5,"custom_env":"staging"}
	]}`, string(req.Body))
	require.Len(t, added, 1)
	require.NotNil(t, added[0].StatusID)
	assert.Equal(t, 1, *added[0].StatusID)
}

func TestNotFoundIsAPIError(t *testing.T) {
	server := newFakeServer(t, http.StatusNotFound, map[string]any{"error": "Field :case_id is not a valid test case."})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	calls := map[string]func() error{
		"case":      func() error { _, err := client.Cases.GetCase(ctx, 999); return err },
		"plan":      func() error { _, err := client.Plans.GetPlan(ctx, 999); return err },
		"milestone": func() error { return client.Milestones.DeleteMilestone(ctx, 999) },
		"cases":     func() error { _, err := client.Cases.GetCases(ctx, 999, CaseFilter{}); return err },
		"users":     func() error { _, err := client.Users.GetUsers(ctx, 999); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, KindAPI, apiErr.Kind)
			assert.Equal(t, 404, apiErr.Status)
			assert.Equal(t, "Resource not found", apiErr.Message)
			assert.True(t, apiErr.IsNotFound())
			assert.NotEmpty(t, apiErr.Context)
		})
	}
}

func TestPlanEntryRunEndpoints(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{"runs": []any{}})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	_, err := client.Plans.AddRunToPlanEntry(ctx, 1, "e1", RunFields{ConfigIDs: []int{2, 3}})
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/add_run_to_plan_entry/1/e1", server.last(t).Path)
	assert.JSONEq(t, `{"config_ids":[2,3]}`, string(server.last(t).Body))

	_, err = client.Plans.UpdateRunInPlanEntry(ctx, 44, RunFields{Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/update_run_in_plan_entry/44", server.last(t).Path)
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "/api/v2/get_projects", endpoint("get_projects"))
	assert.Equal(t, "/api/v2/get_case/1", endpoint("get_case", 1))
	assert.Equal(t, "/api/v2/get_results_for_case/2/3", endpoint("get_results_for_case", 2, 3))
	assert.Equal(t, "/api/v2/update_plan_entry/4/a-b", endpoint("update_plan_entry", 4, "a-b"))
	assert.Equal(t, "/api/v2/get_run/5", endpoint("get_run", int64(5)))
}

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}

func TestAttachmentLists(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, map[string]any{
		"offset": 0, "limit": 250, "size": 1,
		"attachments": []map[string]any{{"id": "2ec27be4", "name": "log.txt", "size": 12, "user_id": 1}},
	})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	attachments, err := client.Attachments.GetAttachmentsForCase(ctx, 3, ListOptions{})
	require.NoError(t, err)
	req := server.last(t)
	assert.Equal(t, "/api/v2/get_attachments_for_case/3", req.Path)
	assert.Equal(t, url.Values{"limit": {"50"}, "offset": {"0"}}, mustParseQuery(t, req.RawQuery))
	require.Len(t, attachments, 1)
	assert.Equal(t, "2ec27be4", attachments[0].ID)
	assert.Equal(t, "log.txt", attachments[0].Name)

	_, err = client.Attachments.GetAttachmentsForTest(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/get_attachments_for_test/8", server.last(t).Path)
	assert.Empty(t, server.last(t).RawQuery)
}

func TestDeleteAttachment_RequiresID(t *testing.T) {
	server := newFakeServer(t, http.StatusOK, nil)
	client := newTestClient(t, server.URL)

	err := client.Attachments.DeleteAttachment(context.Background(), "")
	require.ErrorIs(t, err, ErrGeneric)
	assert.Equal(t, 0, server.count())
}

func TestCaseFields_RoundTripsCustomFields(t *testing.T) {
	var fields CaseFields
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Login","custom_preconds":"Signed out"}`), &fields))

	assert.Equal(t, "Login", fields.Title)
	assert.Equal(t, map[string]any{"custom_preconds": "Signed out"}, fields.Custom)

	server := newFakeServer(t, http.StatusOK, map[string]any{"id": 7, "title": "Login"})
	client := newTestClient(t, server.URL)

	_, err := client.Cases.AddCase(context.Background(), 3, fields)
	require.NoError(t, err)

	assert.JSONEq(t, `{"title":"Login","custom_preconds":"Signed out"}`, string(server.last(t).Body))
}
