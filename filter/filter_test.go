package filter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func testCase() Item {
	return Item{
		"id":              float64(42),
		"title":           "Login with SSO",
		"priority_id":     float64(3),
		"type_id":         float64(1),
		"refs":            "JIRA-12, JIRA-40",
		"created_on":      float64(time.Now().AddDate(0, -2, 0).Unix()),
		"milestone_id":    nil,
		"is_completed":    false,
		"custom_preconds": "Fresh install",
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `priority_id >= 3`,
		},
		{
			name:        "empty expression",
			expression:  "  ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `icontains(title, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "not boolean",
			expression: `1 + 2`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `icontains(title, "login") and priority_id > 2 and created_on < daysAgo(30)`,
		},
		{
			name:       "item-bound helpers",
			expression: `has("refs") and custom("preconds") != nil`,
		},
	}

	compiler := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				var compErr *CompilationError
				if !errors.As(err, &compErr) {
					t.Errorf("expected *CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter.Expression() != strings.TrimSpace(tt.expression) {
				t.Errorf("Expression() = %q", filter.Expression())
			}
		})
	}
}

func TestMatch(t *testing.T) {
	item := testCase()

	tests := []struct {
		name       string
		expression string
		expected   bool
	}{
		{"field equality", `id == 42`, true},
		{"numeric comparison", `priority_id > 3`, false},
		{"case-insensitive contains", `icontains(title, "sso")`, true},
		{"starts with", `istartsWith(title, "login")`, true},
		{"ends with", `iendsWith(title, "SAML")`, false},
		{"ends with ignoring case", `iendsWith(title, "sso")`, true},
		{"contains operator is case-sensitive", `title contains "sso"`, false},
		{"contains operator", `title contains "SSO"`, true},
		{"startsWith operator", `title startsWith "Login"`, true},
		{"endsWith operator", `title endsWith "sso"`, false},
		{"boolean field", `not is_completed`, true},
		{"null field", `milestone_id == nil`, true},
		{"has present", `has("refs")`, true},
		{"has null", `has("milestone_id")`, false},
		{"has missing", `has("estimate")`, false},
		{"custom with prefix", `custom("custom_preconds") == "Fresh install"`, true},
		{"custom without prefix", `custom("preconds") == "Fresh install"`, true},
		{"whole item", `item.title == title`, true},
		{"date helper", `created_on < daysAgo(30)`, true},
		{"days since", `daysSince(created_on) >= 55`, true},
		{"parse date", `created_on > parseDate("2000-01-01")`, true},
		{"in operator", `type_id in [1, 2]`, true},
	}

	compiler := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			if err != nil {
				t.Fatalf("failed to compile filter: %v", err)
			}

			got, err := filter.Match(item)
			if err != nil {
				t.Fatalf("unexpected evaluation error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v but got %v for expression %q", tt.expected, got, tt.expression)
			}
		})
	}
}

func TestMatch_MissingFieldComparison(t *testing.T) {
	filter, err := NewCompiler().Compile(`estimate > 10`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	if _, err := filter.Match(testCase()); err == nil {
		t.Errorf("expected an evaluation error for a missing field")
	}

	matches, err := NewEvaluator().Evaluate(context.Background(), filter, []Item{testCase()})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}

	_, err = NewEvaluator().Strict(filter, []Item{testCase()})
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected *EvaluationError, got %v", err)
	}
	if evalErr.Index != 0 {
		t.Errorf("Index = %d, want 0", evalErr.Index)
	}
}

func TestEvaluate_PreservesOrder(t *testing.T) {
	items := generateItems(1000)

	filter, err := NewCompiler().Compile(`priority_id >= 3 and icontains(title, "5")`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	sequential := NewEvaluator(WithBatchSize(len(items) + 1))
	concurrent := NewEvaluator(WithWorkers(4), WithBatchSize(50))

	want, err := sequential.Evaluate(context.Background(), filter, items)
	if err != nil {
		t.Fatalf("sequential evaluation failed: %v", err)
	}
	got, err := concurrent.Evaluate(context.Background(), filter, items)
	if err != nil {
		t.Fatalf("concurrent evaluation failed: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d matches, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i]["id"] != want[i]["id"] {
			t.Fatalf("match %d: id %v, want %v", i, got[i]["id"], want[i]["id"])
		}
	}
}

func TestEvaluate_Cancelled(t *testing.T) {
	filter, err := NewCompiler().Compile(`true`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewEvaluator(WithBatchSize(10)).Evaluate(ctx, filter, generateItems(100))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCompilerCache(t *testing.T) {
	compiler := NewCompiler(WithCache(2))

	first, err := compiler.Compile(`id == 1`)
	if err != nil {
		t.Fatal(err)
	}
	again, err := compiler.Compile(` id == 1 `)
	if err != nil {
		t.Fatal(err)
	}
	if first != again {
		t.Errorf("expected cached filter to be reused")
	}

	for _, expression := range []string{`id == 2`, `id == 3`} {
		if _, err := compiler.Compile(expression); err != nil {
			t.Fatal(err)
		}
	}
	if got := compiler.CacheSize(); got != 2 {
		t.Errorf("CacheSize() = %d, want 2", got)
	}

	evicted, err := compiler.Compile(`id == 1`)
	if err != nil {
		t.Fatal(err)
	}
	if evicted == first {
		t.Errorf("expected least recently used entry to be evicted")
	}

	compiler.ClearCache()
	if got := compiler.CacheSize(); got != 0 {
		t.Errorf("CacheSize() after ClearCache = %d", got)
	}
}

func TestWithFunctions(t *testing.T) {
	compiler := NewCompiler(WithFunctions(map[string]any{
		"isHigh": func(priority float64) bool { return priority >= 3 },
	}))

	filter, err := compiler.Compile(`isHigh(priority_id)`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}
	got, err := filter.Match(testCase())
	if err != nil {
		t.Fatalf("unexpected evaluation error: %v", err)
	}
	if !got {
		t.Errorf("expected isHigh(3) to match")
	}
}

func TestManager(t *testing.T) {
	m := NewManager()

	err := m.RegisterPresets(map[string]string{
		"high":  `priority_id >= 3`,
		"login": `icontains(title, "login")`,
	})
	if err != nil {
		t.Fatalf("RegisterPresets: %v", err)
	}

	if got := m.Presets(); len(got) != 2 || got[0] != "high" || got[1] != "login" {
		t.Errorf("Presets() = %v", got)
	}

	if _, err := m.Preset("missing"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}

	if err := m.RegisterPresets(map[string]string{"broken": `title ==`}); err == nil {
		t.Errorf("expected compile error for broken preset")
	}
	if _, err := m.Preset("broken"); err == nil {
		t.Errorf("broken preset must not be registered")
	}

	items := []Item{
		{"id": float64(1), "title": "Login page", "priority_id": float64(4)},
		{"id": float64(2), "title": "Logout", "priority_id": float64(4)},
		{"id": float64(3), "title": "Login API", "priority_id": float64(1)},
	}

	filters, err := m.Select("high", `icontains(title, "login")`)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(filters) != 2 {
		t.Fatalf("expected 2 filters, got %d", len(filters))
	}

	matches, err := m.Apply(context.Background(), filters, items)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(matches) != 1 || matches[0]["id"] != float64(1) {
		t.Errorf("unexpected matches: %v", matches)
	}

	none, err := m.Select("", "")
	if err != nil || len(none) != 0 {
		t.Errorf("Select with nothing = %v, %v", none, err)
	}
	all, err := m.Apply(context.Background(), none, items)
	if err != nil || len(all) != len(items) {
		t.Errorf("Apply without filters should keep every item")
	}
}

func generateItems(count int) []Item {
	items := make([]Item, count)
	for i := range count {
		items[i] = Item{
			"id":          float64(i),
			"title":       fmt.Sprintf("Case %d", i),
			"priority_id": float64(i%4 + 1),
			"created_on":  float64(time.Now().AddDate(0, 0, -i).Unix()),
		}
	}
	return items
}

func TestCompile_ReportsColumn(t *testing.T) {
	_, err := NewCompiler().Compile("priority_id >= 3 &&")

	var compErr *CompilationError
	if !errors.As(err, &compErr) {
		t.Fatalf("expected *CompilationError, got %v", err)
	}
	if compErr.Column <= 0 {
		t.Errorf("Column = %d, want a position", compErr.Column)
	}
	if !strings.Contains(err.Error(), "at column") {
		t.Errorf("error %q does not mention the column", err.Error())
	}
}
