package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/railctl/filter"
	"github.com/s0up4200/railctl/testrail"
)

// machineOutput reports whether lists should be printed as JSON
func machineOutput() bool {
	return jsonOutput || (cfg != nil && cfg.Output.Format == "json")
}

// printResult writes v as JSON, indented unless compact output was asked for
func printResult(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if !machineOutput() {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// parseIDs converts positional arguments to TestRail IDs
func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid ID %q", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one ID is required")
	}
	return ids, nil
}

func parseID(arg string) (int, error) {
	ids, err := parseIDs([]string{arg})
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("expected a single ID, got %q", arg)
	}
	return ids[0], nil
}

// dataFlag holds the JSON body of a mutation: inline, @file or - for stdin
type dataFlag struct {
	raw string
}

func (d *dataFlag) register(cmd *cobra.Command, required bool) {
	cmd.Flags().StringVarP(&d.raw, "data", "d", "", `JSON body: inline, @file, or - for stdin`)
	if required {
		cmd.MarkFlagRequired("data")
	}
}

// decode unmarshals the body into out. An unset flag leaves out untouched.
func (d *dataFlag) decode(cmd *cobra.Command, out any) error {
	if d.raw == "" {
		return nil
	}

	var data []byte
	var err error
	switch {
	case d.raw == "-":
		data, err = io.ReadAll(cmd.InOrStdin())
	case strings.HasPrefix(d.raw, "@"):
		data, err = os.ReadFile(strings.TrimPrefix(d.raw, "@"))
	default:
		data = []byte(d.raw)
	}
	if err != nil {
		return fmt.Errorf("failed to read --data: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid --data JSON: %w", err)
	}
	return nil
}

// listFlags are shared by every paginated list command
type listFlags struct {
	limit  int
	offset int
	expr   string
	preset string
}

func (l *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&l.limit, "limit", testrail.DefaultLimit, "page size")
	cmd.Flags().IntVar(&l.offset, "offset", testrail.DefaultOffset, "items to skip")
	l.registerFilter(cmd)
}

func (l *listFlags) registerFilter(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&l.expr, "filter", "f", "", "filter expression evaluated against each item")
	cmd.Flags().StringVarP(&l.preset, "preset", "p", "", "use a filter preset from config")
}

func (l *listFlags) options() testrail.ListOptions {
	return testrail.ListOptions{Limit: l.limit, Offset: l.offset}
}

// printList prints a list response. JSON output gets the page as is, or only
// the matching items when a filter or preset is set; pretty output renders
// the (filtered) items as a tree.
func printList[T any](cmd *cobra.Command, l *listFlags, page any, items []T) error {
	selected, err := filters.Select(l.preset, l.expr)
	if err != nil {
		return err
	}
	if len(selected) == 0 && machineOutput() {
		return printResult(cmd, page)
	}

	decoded, err := toItems(items)
	if err != nil {
		return err
	}

	if len(selected) > 0 {
		matches, err := filters.Apply(cmd.Context(), selected, decoded)
		if err != nil {
			return err
		}
		logger.Debug().
			Int("total", len(decoded)).
			Int("matched", len(matches)).
			Msg("Filtered list")
		decoded = matches
	}

	if machineOutput() {
		if decoded == nil {
			decoded = []filter.Item{}
		}
		return printResult(cmd, decoded)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), formatItemTree(listNoun(cmd), decoded))
	return err
}

// listNoun names the items of a list command after its group, e.g. "case"
func listNoun(cmd *cobra.Command) string {
	if parent := cmd.Parent(); parent != nil && parent != cmd.Root() {
		return strings.ReplaceAll(parent.Name(), "-", " ")
	}
	return "item"
}

// toItems turns typed results into the generic objects filters run against
func toItems[T any](items []T) ([]filter.Item, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	var decoded []filter.Item
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// confirm asks before destructive calls unless --yes was given
func confirm(cmd *cobra.Command, prompt string) bool {
	if assumeYes {
		return true
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", prompt)
	response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

// changedBool returns a pointer to v only when the flag was set explicitly,
// leaving tri-state filters such as is_completed unset otherwise.
func changedBool(cmd *cobra.Command, name string, v bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates. An empty
// string yields the zero time, which list filters omit.
func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD or RFC 3339", flag, value)
}
