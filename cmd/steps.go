package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/railctl/testrail"
)

func init() {
	rootCmd.AddCommand(sharedStepCmd())
}

func sharedStepCmd() *cobra.Command {
	group := groupCommand("shared-step", "Manage shared steps", "shared-steps")

	var (
		list                         listFlags
		f                            testrail.SharedStepFilter
		createdAfter, updatedAfter   string
		createdBefore, updatedBefore string
	)
	listCmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the shared steps of a project",
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
			if f.UpdatedAfter, err = parseDate("updated-after", updatedAfter); err != nil {
				return err
			}
			if f.UpdatedBefore, err = parseDate("updated-before", updatedBefore); err != nil {
				return err
			}
			f.ListOptions = list.options()

			page, err := client.SharedSteps.GetSharedSteps(cmd.Context(), projectID, f)
			if err != nil {
				return err
			}
			return printList(cmd, &list, page, page.SharedSteps)
		},
	}
	list.register(listCmd)
	flags := listCmd.Flags()
	flags.IntSliceVar(&f.CreatedBy, "created-by", nil, "creator user IDs")
	flags.StringVar(&f.Refs, "refs", "", "reference IDs")
	flags.StringVar(&createdAfter, "created-after", "", "created on or after this date")
	flags.StringVar(&createdBefore, "created-before", "", "created on or before this date")
	flags.StringVar(&updatedAfter, "updated-after", "", "updated on or after this date")
	flags.StringVar(&updatedBefore, "updated-before", "", "updated on or before this date")

	group.AddCommand(
		getCommand("shared step", func(ctx context.Context, id int) (*testrail.SharedStep, error) {
			return client.SharedSteps.GetSharedStep(ctx, id)
		}),
		listCmd,
		actionCommand("history <shared-step-id>", "Show the change history of a shared step",
			func(ctx context.Context, id int) ([]testrail.SharedStepHistory, error) {
				return client.SharedSteps.GetSharedStepHistory(ctx, id)
			}),
		mutateCommand("add <project-id>", "Create a shared step in a project", true,
			func(ctx context.Context, id int, fields testrail.SharedStepFields) (*testrail.SharedStep, error) {
				return client.SharedSteps.AddSharedStep(ctx, id, fields)
			}),
		mutateCommand("update <shared-step-id>", "Update a shared step", true,
			func(ctx context.Context, id int, fields testrail.SharedStepFields) (*testrail.SharedStep, error) {
				return client.SharedSteps.UpdateSharedStep(ctx, id, fields)
			}),
		sharedStepDeleteCmd(),
	)
	return group
}

func sharedStepDeleteCmd() *cobra.Command {
	var keepInCases bool
	cmd := &cobra.Command{
		Use:   "delete <shared-step-id>",
		Short: "Delete a shared step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !confirm(cmd, fmt.Sprintf("Delete shared step %d?", id)) {
				logger.Info().Msg("Deletion cancelled")
				return nil
			}
			if err := client.SharedSteps.DeleteSharedStep(cmd.Context(), id, keepInCases); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted shared step %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepInCases, "keep-in-cases", false, "keep the steps inline in the cases that used them")
	return cmd
}
