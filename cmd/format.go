package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/s0up4200/railctl/filter"
)

// detailFields are shown under each item in pretty list output, in order
var detailFields = []struct {
	key   string
	label string
}{
	{"suite_id", "Suite"},
	{"section_id", "Section"},
	{"run_id", "Run"},
	{"case_id", "Case"},
	{"test_id", "Test"},
	{"status_id", "Status"},
	{"priority_id", "Priority"},
	{"type_id", "Type"},
	{"milestone_id", "Milestone"},
	{"assignedto_id", "Assigned to"},
	{"refs", "Refs"},
	{"defects", "Defects"},
	{"comment", "Comment"},
	{"email", "Email"},
	{"url", "URL"},
}

// formatItemTree renders items as a tree for the console. noun names one
// item, e.g. "case".
func formatItemTree(noun string, items []filter.Item) string {
	if len(items) == 0 {
		return fmt.Sprintf("No %ss found\n", noun)
	}

	var sb strings.Builder

	header := strings.ToUpper(noun[:1]) + noun[1:]
	if len(items) != 1 {
		header += "s"
	}
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", header, len(items))

	for i, item := range items {
		isLast := i == len(items)-1
		prefix := "├"
		indent := "│   "
		if isLast {
			prefix = "╰"
			indent = "    "
		}

		fmt.Fprintf(&sb, "%s── %s\n", prefix, itemTitle(item))

		for _, field := range detailFields {
			value, ok := item[field.key]
			if !ok || isEmpty(value) {
				continue
			}
			fmt.Fprintf(&sb, "%s%s: %s\n", indent, field.label, formatValue(value))
		}

		var dateParts []string
		if created := unixDate(item["created_on"]); created != "" {
			dateParts = append(dateParts, "Created: "+created)
		}
		if updated := unixDate(item["updated_on"]); updated != "" {
			dateParts = append(dateParts, "Updated: "+updated)
		}
		if completed, _ := item["is_completed"].(bool); completed {
			part := "Completed"
			if on := unixDate(item["completed_on"]); on != "" {
				part += ": " + on
			}
			dateParts = append(dateParts, part)
		}
		if len(dateParts) > 0 {
			fmt.Fprintf(&sb, "%s%s\n", indent, strings.Join(dateParts, " | "))
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// itemTitle is "#<id> <title or name>", falling back to whichever is present
func itemTitle(item filter.Item) string {
	var name string
	for _, key := range []string{"title", "name"} {
		if s, ok := item[key].(string); ok && s != "" {
			name = s
			break
		}
	}

	id, hasID := item["id"]
	switch {
	case hasID && name != "":
		return fmt.Sprintf("#%s %s", formatValue(id), name)
	case hasID:
		return "#" + formatValue(id)
	case name != "":
		return name
	}
	return "(unnamed)"
}

func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case float64:
		return v == 0
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	}
	return false
}

// formatValue prints JSON numbers without a trailing .0 and multi-line
// strings on one line.
func formatValue(v any) string {
	switch v := v.(type) {
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case string:
		return strings.Join(strings.Fields(v), " ")
	}
	return fmt.Sprint(v)
}

func unixDate(v any) string {
	ts, ok := v.(float64)
	if !ok || ts <= 0 {
		return ""
	}
	return time.Unix(int64(ts), 0).UTC().Format(time.DateOnly)
}
