package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/railctl/testrail"
)

func init() {
	rootCmd.AddCommand(userCmd(), attachmentCmd())
}

func userCmd() *cobra.Command {
	group := groupCommand("user", "Look up users", "users")

	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list [project-id]",
		Short: "List all users, or the users with access to a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID := 0
			if len(args) == 1 {
				var err error
				if projectID, err = parseID(args[0]); err != nil {
					return err
				}
			}
			users, err := client.Users.GetUsers(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			return printList(cmd, &list, users, users)
		},
	}
	list.registerFilter(listCmd)

	group.AddCommand(
		getCommand("user", func(ctx context.Context, id int) (*testrail.User, error) {
			return client.Users.GetUser(ctx, id)
		}),
		&cobra.Command{
			Use:   "by-email <email>",
			Short: "Find a user by email address",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				user, err := client.Users.GetUserByEmail(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printResult(cmd, user)
			},
		},
		&cobra.Command{
			Use:   "me",
			Short: "Show the authenticated user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				user, err := client.Users.GetCurrentUser(cmd.Context())
				if err != nil {
					return err
				}
				return printResult(cmd, user)
			},
		},
		listCmd,
	)
	return group
}

func attachmentCmd() *cobra.Command {
	group := groupCommand("attachment", "Upload and manage attachments", "attachments")

	var list listFlags
	listForCaseCmd := &cobra.Command{
		Use:   "list-for-case <case-id>",
		Short: "List the attachments of a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			attachments, err := client.Attachments.GetAttachmentsForCase(cmd.Context(), id, list.options())
			if err != nil {
				return err
			}
			return printList(cmd, &list, attachments, attachments)
		},
	}
	list.register(listForCaseCmd)

	group.AddCommand(
		attachmentUploadCmd(),
		listForCaseCmd,
		actionCommand("list-for-test <test-id>", "List the attachments of a test",
			func(ctx context.Context, id int) ([]testrail.Attachment, error) {
				return client.Attachments.GetAttachmentsForTest(ctx, id)
			}),
		&cobra.Command{
			Use:   "delete <attachment-id>",
			Short: "Delete an attachment",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if !confirm(cmd, fmt.Sprintf("Delete attachment %s?", args[0])) {
					logger.Info().Msg("Deletion cancelled")
					return nil
				}
				if err := client.Attachments.DeleteAttachment(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted attachment %s\n", args[0])
				return nil
			},
		},
	)
	return group
}

var uploadTargets = []string{"case", "result", "run", "plan", "plan-entry"}

func attachmentUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <case|result|run|plan> <id> <file>",
		Short: "Attach a file to a case, result, run, plan or plan entry",
		Long: `Attach a file to a case, result, run or plan. Plan entries take the
entry ID as an extra argument:

  railctl attachment upload plan-entry <plan-id> <entry-id> <file>`,
		Args:      cobra.RangeArgs(3, 4),
		ValidArgs: uploadTargets,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			wantArgs := 3
			if target == "plan-entry" {
				wantArgs = 4
			}
			if len(args) != wantArgs {
				return fmt.Errorf("upload %s takes %d arguments, got %d", target, wantArgs, len(args))
			}

			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			path := args[len(args)-1]
			ctx := cmd.Context()

			var ref *testrail.AttachmentRef
			switch target {
			case "case":
				ref, err = client.Attachments.AddAttachmentToCase(ctx, id, path)
			case "result":
				ref, err = client.Attachments.AddAttachmentToResult(ctx, id, path)
			case "run":
				ref, err = client.Attachments.AddAttachmentToRun(ctx, id, path)
			case "plan":
				ref, err = client.Attachments.AddAttachmentToPlan(ctx, id, path)
			case "plan-entry":
				ref, err = client.Attachments.AddAttachmentToPlanEntry(ctx, id, args[2], path)
			default:
				return fmt.Errorf("unknown upload target %q (want one of %s)", target, strings.Join(uploadTargets, ", "))
			}
			if err != nil {
				return err
			}

			logger.Debug().Str("target", target).Int("id", id).Str("file", path).Msg("Uploaded attachment")
			return printResult(cmd, ref)
		},
	}
}
