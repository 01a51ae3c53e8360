package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/railctl/testrail"
)

func init() {
	rootCmd.AddCommand(caseCmd())
}

func caseCmd() *cobra.Command {
	group := groupCommand("case", "Manage test cases", "cases")

	group.AddCommand(
		getCommand("case", func(ctx context.Context, id int) (*testrail.Case, error) {
			return client.Cases.GetCase(ctx, id)
		}),
		caseListCmd(),
		caseHistoryCmd(),
		mutateCommand("add <section-id>", "Create a case in a section", true,
			func(ctx context.Context, id int, fields testrail.CaseFields) (*testrail.Case, error) {
				return client.Cases.AddCase(ctx, id, fields)
			}),
		caseUpdateCmd(),
		caseDeleteCmd(),
		caseCopyCmd(),
		caseMoveCmd(),
		&cobra.Command{
			Use:   "types",
			Short: "List the available case types",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				types, err := client.Cases.GetCaseTypes(cmd.Context())
				if err != nil {
					return err
				}
				return printResult(cmd, types)
			},
		},
		&cobra.Command{
			Use:   "fields",
			Short: "List the available case fields",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fields, err := client.Cases.GetCaseFields(cmd.Context())
				if err != nil {
					return err
				}
				return printResult(cmd, fields)
			},
		},
	)
	return group
}

func caseListCmd() *cobra.Command {
	var (
		list                         listFlags
		f                            testrail.CaseFilter
		createdAfter, updatedAfter   string
		createdBefore, updatedBefore string
	)

	cmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the cases of a project",
		Long: `List the cases of a project. Server-side filters narrow the request;
--filter and --preset are applied to the returned page afterwards, e.g.

  railctl case list 1 --suite 2 --filter 'priority_id >= 3 && daysSince(updated_on) < 30'`,
		Args: cobra.ExactArgs(1),
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

			page, err := client.Cases.GetCases(cmd.Context(), projectID, f)
			if err != nil {
				return err
			}
			return printList(cmd, &list, page, page.Cases)
		},
	}

	list.register(cmd)
	flags := cmd.Flags()
	flags.IntVar(&f.SuiteID, "suite", 0, "suite ID (required for multi-suite projects)")
	flags.IntVar(&f.SectionID, "section", 0, "only cases in this section")
	flags.IntSliceVar(&f.PriorityID, "priority", nil, "priority IDs")
	flags.IntSliceVar(&f.TypeID, "type", nil, "case type IDs")
	flags.IntSliceVar(&f.TemplateID, "template", nil, "template IDs")
	flags.IntSliceVar(&f.MilestoneID, "milestone", nil, "milestone IDs")
	flags.IntSliceVar(&f.CreatedBy, "created-by", nil, "creator user IDs")
	flags.IntSliceVar(&f.UpdatedBy, "updated-by", nil, "last editor user IDs")
	flags.StringVar(&f.Refs, "refs", "", "reference IDs")
	flags.StringVar(&f.Filter, "title", "", "only cases whose title contains this text")
	flags.StringVar(&createdAfter, "created-after", "", "created on or after this date")
	flags.StringVar(&createdBefore, "created-before", "", "created on or before this date")
	flags.StringVar(&updatedAfter, "updated-after", "", "updated on or after this date")
	flags.StringVar(&updatedBefore, "updated-before", "", "updated on or before this date")
	return cmd
}

func caseHistoryCmd() *cobra.Command {
	var list listFlags
	cmd := &cobra.Command{
		Use:   "history <case-id>",
		Short: "Show the edit history of a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			history, err := client.Cases.GetHistoryForCase(cmd.Context(), id, list.options())
			if err != nil {
				return err
			}
			return printList(cmd, &list, history, history)
		},
	}
	list.register(cmd)
	return cmd
}

// caseUpdateCmd updates one case, or several at once when --suite is given
func caseUpdateCmd() *cobra.Command {
	var (
		data    dataFlag
		suiteID int
	)
	cmd := &cobra.Command{
		Use:   "update <case-id>...",
		Short: "Update one case, or several cases of a suite",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			var fields testrail.CaseFields
			if err := data.decode(cmd, &fields); err != nil {
				return err
			}

			if len(ids) == 1 && suiteID == 0 {
				updated, err := client.Cases.UpdateCase(cmd.Context(), ids[0], fields)
				if err != nil {
					return err
				}
				return printResult(cmd, updated)
			}
			if suiteID == 0 {
				return fmt.Errorf("--suite is required when updating several cases")
			}
			result, err := client.Cases.UpdateCases(cmd.Context(), suiteID, ids, fields)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
	data.register(cmd, true)
	cmd.Flags().IntVar(&suiteID, "suite", 0, "suite of the cases for a bulk update")
	return cmd
}

func caseDeleteCmd() *cobra.Command {
	var (
		soft    bool
		suiteID int
	)
	cmd := &cobra.Command{
		Use:   "delete <case-id>...",
		Short: "Delete one case, or several cases of a suite",
		Long: `Delete cases. With --soft nothing is deleted and TestRail reports
what would be affected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if len(ids) > 1 && suiteID == 0 {
				return fmt.Errorf("--suite is required when deleting several cases")
			}
			if !soft && !confirm(cmd, fmt.Sprintf("Delete %d case(s)?", len(ids))) {
				logger.Info().Msg("Deletion cancelled")
				return nil
			}

			var result map[string]any
			if len(ids) == 1 && suiteID == 0 {
				result, err = client.Cases.DeleteCase(cmd.Context(), ids[0], soft)
			} else {
				result, err = client.Cases.DeleteCases(cmd.Context(), suiteID, ids, soft)
			}
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
	cmd.Flags().BoolVar(&soft, "soft", false, "only report what would be deleted")
	cmd.Flags().IntVar(&suiteID, "suite", 0, "suite of the cases for a bulk delete")
	return cmd
}

func caseCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <section-id> <case-id>...",
		Short: "Copy cases into a section",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectionID, err := parseID(args[0])
			if err != nil {
				return err
			}
			ids, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			result, err := client.Cases.CopyCasesToSection(cmd.Context(), sectionID, ids)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
}

func caseMoveCmd() *cobra.Command {
	var suiteID int
	cmd := &cobra.Command{
		Use:   "move <section-id> <case-id>...",
		Short: "Move cases into a section of a suite",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectionID, err := parseID(args[0])
			if err != nil {
				return err
			}
			ids, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			result, err := client.Cases.MoveCasesToSection(cmd.Context(), sectionID, suiteID, ids)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
	cmd.Flags().IntVar(&suiteID, "suite", 0, "suite the target section belongs to")
	cmd.MarkFlagRequired("suite")
	return cmd
}
