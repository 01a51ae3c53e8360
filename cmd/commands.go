package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/railctl/testrail"
)

// groupCommand creates a resource command group
func groupCommand(use, short string, aliases ...string) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Short:   short,
		Aliases: aliases,
	}
}

// getCommand builds "get <id>..." on top of a by-ID fetch. Several IDs are
// fetched in parallel and printed as an array in argument order.
func getCommand[T any](noun string, fetch func(ctx context.Context, id int) (T, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>...",
		Short: fmt.Sprintf("Get one or more %ss by ID", noun),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			if len(ids) == 1 {
				item, err := fetch(cmd.Context(), ids[0])
				if err != nil {
					return err
				}
				return printResult(cmd, item)
			}

			logger.Debug().Ints("ids", ids).Int("concurrency", concurrency).Msgf("Fetching %ss", noun)
			items, err := testrail.FetchAll(cmd.Context(), ids, concurrency, fetch)
			if err != nil {
				return err
			}
			return printResult(cmd, items)
		},
	}
}

// softDeleteCommand builds "delete <id> [--soft]" for resources whose delete
// endpoint supports a dry run.
func softDeleteCommand(noun string, del func(ctx context.Context, id int, soft bool) (map[string]any, error)) *cobra.Command {
	var soft bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", noun),
		Long: fmt.Sprintf(`Delete a %s. With --soft nothing is deleted and TestRail reports
what would be affected.`, noun),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !soft && !confirm(cmd, fmt.Sprintf("Delete %s %d?", noun, id)) {
				logger.Info().Msg("Deletion cancelled")
				return nil
			}
			result, err := del(cmd.Context(), id, soft)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
	cmd.Flags().BoolVar(&soft, "soft", false, "only report what would be deleted")
	return cmd
}

// deleteCommand builds "delete <id>" for endpoints without a response body
func deleteCommand(noun string, del func(ctx context.Context, id int) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !confirm(cmd, fmt.Sprintf("Delete %s %d?", noun, id)) {
				logger.Info().Msg("Deletion cancelled")
				return nil
			}
			if err := del(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s %d\n", noun, id)
			return nil
		},
	}
}

// mutateCommand builds a command that posts a --data body for one parent ID,
// e.g. "add <project-id> --data '{...}'" or "update <case-id> --data '{...}'".
func mutateCommand[F, T any](use, short string, requireData bool, call func(ctx context.Context, id int, fields F) (T, error)) *cobra.Command {
	var data dataFlag
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var fields F
			if err := data.decode(cmd, &fields); err != nil {
				return err
			}
			result, err := call(cmd.Context(), id, fields)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
	data.register(cmd, requireData)
	return cmd
}

// actionCommand builds a command that calls one endpoint with a single ID,
// e.g. "close <run-id>"
func actionCommand[T any](use, short string, call func(ctx context.Context, id int) (T, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			result, err := call(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
}
