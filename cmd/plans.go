package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/railctl/testrail"
)

func init() {
	rootCmd.AddCommand(planCmd(), milestoneCmd())
}

func planCmd() *cobra.Command {
	group := groupCommand("plan", "Manage test plans", "plans")

	var (
		list                        listFlags
		f                           testrail.PlanFilter
		completed                   bool
		createdAfter, createdBefore string
	)
	listCmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the plans of a project",
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

			page, err := client.Plans.GetPlans(cmd.Context(), projectID, f)
			if err != nil {
				return err
			}
			return printList(cmd, &list, page, page.Plans)
		},
	}
	list.register(listCmd)
	flags := listCmd.Flags()
	flags.BoolVar(&completed, "completed", false, "only completed (true) or active (false) plans")
	flags.IntSliceVar(&f.MilestoneID, "milestone", nil, "milestone IDs")
	flags.IntSliceVar(&f.CreatedBy, "created-by", nil, "creator user IDs")
	flags.StringVar(&createdAfter, "created-after", "", "created on or after this date")
	flags.StringVar(&createdBefore, "created-before", "", "created on or before this date")

	group.AddCommand(
		getCommand("plan", func(ctx context.Context, id int) (*testrail.Plan, error) {
			return client.Plans.GetPlan(ctx, id)
		}),
		listCmd,
		mutateCommand("add <project-id>", "Create a plan in a project", true,
			func(ctx context.Context, id int, fields testrail.PlanFields) (*testrail.Plan, error) {
				return client.Plans.AddPlan(ctx, id, fields)
			}),
		mutateCommand("add-entry <plan-id>", "Add runs of a suite to a plan", true,
			func(ctx context.Context, id int, fields testrail.PlanEntryFields) (*testrail.PlanEntry, error) {
				return client.Plans.AddPlanEntry(ctx, id, fields)
			}),
		mutateCommand("update <plan-id>", "Update a plan", true,
			func(ctx context.Context, id int, fields testrail.PlanFields) (*testrail.Plan, error) {
				return client.Plans.UpdatePlan(ctx, id, fields)
			}),
		entryCommand("update-entry <plan-id> <entry-id>", "Update the runs of a plan entry",
			func(ctx context.Context, planID int, entryID string, fields testrail.PlanEntryFields) (*testrail.PlanEntry, error) {
				return client.Plans.UpdatePlanEntry(ctx, planID, entryID, fields)
			}),
		entryCommand("add-entry-run <plan-id> <entry-id>", "Add a run with a configuration to a plan entry",
			func(ctx context.Context, planID int, entryID string, fields testrail.RunFields) (*testrail.PlanEntry, error) {
				return client.Plans.AddRunToPlanEntry(ctx, planID, entryID, fields)
			}),
		mutateCommand("update-entry-run <run-id>", "Update a run inside a plan entry", true,
			func(ctx context.Context, id int, fields testrail.RunFields) (*testrail.Run, error) {
				return client.Plans.UpdateRunInPlanEntry(ctx, id, fields)
			}),
		actionCommand("close <plan-id>", "Close a plan and archive its runs",
			func(ctx context.Context, id int) (*testrail.Plan, error) {
				return client.Plans.ClosePlan(ctx, id)
			}),
		deleteCommand("plan", func(ctx context.Context, id int) error {
			return client.Plans.DeletePlan(ctx, id)
		}),
		planDeleteEntryCmd(),
		deleteEntryRunCmd(),
	)
	return group
}

// entryCommand builds a --data mutation addressed by plan ID and entry ID.
// Entry IDs are GUIDs, so they are passed through unparsed.
func entryCommand[F, T any](use, short string, call func(ctx context.Context, planID int, entryID string, fields F) (T, error)) *cobra.Command {
	var data dataFlag
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID(args[0])
			if err != nil {
				return err
			}
			var fields F
			if err := data.decode(cmd, &fields); err != nil {
				return err
			}
			result, err := call(cmd.Context(), planID, args[1], fields)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
	data.register(cmd, true)
	return cmd
}

func planDeleteEntryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-entry <plan-id> <entry-id>",
		Short: "Delete an entry and its runs from a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !confirm(cmd, fmt.Sprintf("Delete entry %s of plan %d?", args[1], planID)) {
				logger.Info().Msg("Deletion cancelled")
				return nil
			}
			if err := client.Plans.DeletePlanEntry(cmd.Context(), planID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted entry %s of plan %d\n", args[1], planID)
			return nil
		},
	}
}

func deleteEntryRunCmd() *cobra.Command {
	cmd := deleteCommand("plan entry run", func(ctx context.Context, id int) error {
		return client.Plans.DeleteRunFromPlanEntry(ctx, id)
	})
	cmd.Use = "delete-entry-run <run-id>"
	cmd.Short = "Delete a single run from its plan entry"
	return cmd
}

func milestoneCmd() *cobra.Command {
	group := groupCommand("milestone", "Manage milestones", "milestones")

	var (
		list               listFlags
		completed, started bool
	)
	listCmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the milestones of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := client.Milestones.GetMilestones(cmd.Context(), projectID, testrail.MilestoneFilter{
				ListOptions: list.options(),
				IsCompleted: changedBool(cmd, "completed", completed),
				IsStarted:   changedBool(cmd, "started", started),
			})
			if err != nil {
				return err
			}
			return printList(cmd, &list, page, page.Milestones)
		},
	}
	list.register(listCmd)
	listCmd.Flags().BoolVar(&completed, "completed", false, "only completed (true) or open (false) milestones")
	listCmd.Flags().BoolVar(&started, "started", false, "only started (true) or upcoming (false) milestones")

	group.AddCommand(
		getCommand("milestone", func(ctx context.Context, id int) (*testrail.Milestone, error) {
			return client.Milestones.GetMilestone(ctx, id)
		}),
		listCmd,
		mutateCommand("add <project-id>", "Create a milestone in a project", true,
			func(ctx context.Context, id int, fields testrail.MilestoneFields) (*testrail.Milestone, error) {
				return client.Milestones.AddMilestone(ctx, id, fields)
			}),
		mutateCommand("update <milestone-id>", "Update a milestone", true,
			func(ctx context.Context, id int, fields testrail.MilestoneFields) (*testrail.Milestone, error) {
				return client.Milestones.UpdateMilestone(ctx, id, fields)
			}),
		deleteCommand("milestone", func(ctx context.Context, id int) error {
			return client.Milestones.DeleteMilestone(ctx, id)
		}),
	)
	return group
}
