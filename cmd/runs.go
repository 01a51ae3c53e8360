package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/s0up4200/railctl/testrail"
)

func init() {
	rootCmd.AddCommand(runCmd(), testCaseCmd(), resultCmd())
}

func runCmd() *cobra.Command {
	group := groupCommand("run", "Manage test runs", "runs")

	var (
		list                        listFlags
		f                           testrail.RunFilter
		completed                   bool
		createdAfter, createdBefore string
	)
	listCmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the runs of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if f.CreatedAfter, err = parseDate("created-after", createdAfter); err != nil {
				return err
			}
			if f.CreatedBefore, err = parseDate("created-before", createdBefore); err != nil {
				return err
			}
			f.ListOptions = list.options()
			f.IsCompleted = changedBool(cmd, "completed", completed)

			page, err := client.Runs.GetRuns(cmd.Context(), projectID, f)
			if err != nil {
				return err
			}
			return printList(cmd, &list, page, page.Runs)
		},
	}
	list.register(listCmd)
	flags := listCmd.Flags()
	flags.BoolVar(&completed, "completed", false, "only completed (true) or active (false) runs")
	flags.IntSliceVar(&f.SuiteID, "suite", nil, "suite IDs")
	flags.IntSliceVar(&f.MilestoneID, "milestone", nil, "milestone IDs")
	flags.IntSliceVar(&f.CreatedBy, "created-by", nil, "creator user IDs")
	flags.StringVar(&f.RefsFilter, "refs", "", "reference IDs")
	flags.StringVar(&createdAfter, "created-after", "", "created on or after this date")
	flags.StringVar(&createdBefore, "created-before", "", "created on or before this date")

	group.AddCommand(
		getCommand("run", func(ctx context.Context, id int) (*testrail.Run, error) {
			return client.Runs.GetRun(ctx, id)
		}),
		listCmd,
		mutateCommand("add <project-id>", "Create a run in a project", true,
			func(ctx context.Context, id int, fields testrail.RunFields) (*testrail.Run, error) {
				return client.Runs.AddRun(ctx, id, fields)
			}),
		mutateCommand("update <run-id>", "Update a run", true,
			func(ctx context.Context, id int, fields testrail.RunFields) (*testrail.Run, error) {
				return client.Runs.UpdateRun(ctx, id, fields)
			}),
		actionCommand("close <run-id>", "Close a run and archive its tests and results",
			func(ctx context.Context, id int) (*testrail.Run, error) {
				return client.Runs.CloseRun(ctx, id)
			}),
		softDeleteCommand("run", func(ctx context.Context, id int, soft bool) (map[string]any, error) {
			return client.Runs.DeleteRun(ctx, id, soft)
		}),
	)
	return group
}

// testCaseCmd covers tests, the run-scoped instances of cases. It is not
// called "test" because that name belongs to the connection check.
func testCaseCmd() *cobra.Command {
	group := groupCommand("test-case", "Inspect the tests of a run", "tests")

	var (
		list   listFlags
		status []int
	)
	listCmd := &cobra.Command{
		Use:   "list <run-id>",
		Short: "List the tests of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := client.Tests.GetTests(cmd.Context(), runID, testrail.TestFilter{
				ListOptions: list.options(),
				StatusID:    status,
			})
			if err != nil {
				return err
			}
			return printList(cmd, &list, page, page.Tests)
		},
	}
	list.register(listCmd)
	listCmd.Flags().IntSliceVar(&status, "status", nil, "status IDs")

	group.AddCommand(
		getCommand("test", func(ctx context.Context, id int) (*testrail.Test, error) {
			return client.Tests.GetTest(ctx, id)
		}),
		listCmd,
	)
	return group
}

func resultCmd() *cobra.Command {
	group := groupCommand("result", "Read and record test results", "results")

	group.AddCommand(
		resultListCmd(),
		resultListForCaseCmd(),
		resultListForRunCmd(),
		mutateCommand("add <test-id>", "Record a result for a test", true,
			func(ctx context.Context, id int, fields testrail.ResultFields) (*testrail.Result, error) {
				return client.Results.AddResult(ctx, id, fields)
			}),
		resultAddForCaseCmd(),
		mutateCommand("add-bulk <run-id>", "Record results for several tests of a run", true,
			func(ctx context.Context, id int, results []testrail.ResultFields) ([]testrail.Result, error) {
				return client.Results.AddResults(ctx, id, results)
			}),
		mutateCommand("add-for-cases <run-id>", "Record results for several cases of a run", true,
			func(ctx context.Context, id int, results []testrail.ResultFields) ([]testrail.Result, error) {
				return client.Results.AddResultsForCases(ctx, id, results)
			}),
		&cobra.Command{
			Use:   "fields",
			Short: "List the available result fields",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fields, err := client.Results.GetResultFields(cmd.Context())
				if err != nil {
					return err
				}
				return printResult(cmd, fields)
			},
		},
	)
	return group
}

// resultFilterFlags holds the filters shared by the per-test and per-case lists
type resultFilterFlags struct {
	list    listFlags
	status  []int
	defects string
}

func (r *resultFilterFlags) register(cmd *cobra.Command) {
	r.list.register(cmd)
	cmd.Flags().IntSliceVar(&r.status, "status", nil, "status IDs")
	cmd.Flags().StringVar(&r.defects, "defects", "", "only results referencing this defect")
}

func (r *resultFilterFlags) filter() testrail.ResultFilter {
	return testrail.ResultFilter{
		ListOptions:   r.list.options(),
		StatusID:      r.status,
		DefectsFilter: r.defects,
	}
}

func resultListCmd() *cobra.Command {
	var flags resultFilterFlags
	cmd := &cobra.Command{
		Use:   "list <test-id>",
		Short: "List the results of a test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			testID, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := client.Results.GetResults(cmd.Context(), testID, flags.filter())
			if err != nil {
				return err
			}
			return printList(cmd, &flags.list, page, page.Results)
		},
	}
	flags.register(cmd)
	return cmd
}

func resultListForCaseCmd() *cobra.Command {
	var flags resultFilterFlags
	cmd := &cobra.Command{
		Use:   "list-for-case <run-id> <case-id>",
		Short: "List the results of a case within a run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := parseID(args[0])
			if err != nil {
				return err
			}
			caseID, err := parseID(args[1])
			if err != nil {
				return err
			}
			page, err := client.Results.GetResultsForCase(cmd.Context(), runID, caseID, flags.filter())
			if err != nil {
				return err
			}
			return printList(cmd, &flags.list, page, page.Results)
		},
	}
	flags.register(cmd)
	return cmd
}

func resultListForRunCmd() *cobra.Command {
	var (
		flags                       resultFilterFlags
		createdBy                   []int
		createdAfter, createdBefore string
	)
	cmd := &cobra.Command{
		Use:   "list-for-run <run-id>",
		Short: "List all results of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := parseID(args[0])
			if err != nil {
				return err
			}
			f := testrail.RunResultFilter{
				ListOptions:   flags.list.options(),
				CreatedBy:     createdBy,
				DefectsFilter: flags.defects,
				StatusID:      flags.status,
			}
			if f.CreatedAfter, err = parseDate("created-after", createdAfter); err != nil {
				return err
			}
			if f.CreatedBefore, err = parseDate("created-before", createdBefore); err != nil {
				return err
			}

			page, err := client.Results.GetResultsForRun(cmd.Context(), runID, f)
			if err != nil {
				return err
			}
			return printList(cmd, &flags.list, page, page.Results)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntSliceVar(&createdBy, "created-by", nil, "creator user IDs")
	cmd.Flags().StringVar(&createdAfter, "created-after", "", "created on or after this date")
	cmd.Flags().StringVar(&createdBefore, "created-before", "", "created on or before this date")
	return cmd
}

func resultAddForCaseCmd() *cobra.Command {
	var data dataFlag
	cmd := &cobra.Command{
		Use:   "add-for-case <run-id> <case-id>",
		Short: "Record a result for a case within a run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := parseID(args[0])
			if err != nil {
				return err
			}
			caseID, err := parseID(args[1])
			if err != nil {
				return err
			}
			var fields testrail.ResultFields
			if err := data.decode(cmd, &fields); err != nil {
				return err
			}
			result, err := client.Results.AddResultForCase(cmd.Context(), runID, caseID, fields)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
	data.register(cmd, true)
	return cmd
}
