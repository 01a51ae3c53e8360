package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/s0up4200/railctl/testrail"
)

func init() {
	rootCmd.AddCommand(projectCmd(), suiteCmd(), sectionCmd())
}

func projectCmd() *cobra.Command {
	group := groupCommand("project", "Manage projects", "projects")

	var list listFlags
	var completed bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := client.Projects.GetProjects(cmd.Context(), testrail.ProjectFilter{
				ListOptions: list.options(),
				IsCompleted: changedBool(cmd, "completed", completed),
			})
			if err != nil {
				return err
			}
			return printList(cmd, &list, page, page.Projects)
		},
	}
	list.register(listCmd)
	listCmd.Flags().BoolVar(&completed, "completed", false, "only completed (true) or active (false) projects")

	var data dataFlag
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields testrail.ProjectFields
			if err := data.decode(cmd, &fields); err != nil {
				return err
			}
			project, err := client.Projects.AddProject(cmd.Context(), fields)
			if err != nil {
				return err
			}
			return printResult(cmd, project)
		},
	}
	data.register(addCmd, true)

	group.AddCommand(
		getCommand("project", func(ctx context.Context, id int) (*testrail.Project, error) {
			return client.Projects.GetProject(ctx, id)
		}),
		listCmd,
		addCmd,
		mutateCommand("update <project-id>", "Update a project", true,
			func(ctx context.Context, id int, fields testrail.ProjectFields) (*testrail.Project, error) {
				return client.Projects.UpdateProject(ctx, id, fields)
			}),
		deleteCommand("project", func(ctx context.Context, id int) error {
			return client.Projects.DeleteProject(ctx, id)
		}),
	)
	return group
}

func suiteCmd() *cobra.Command {
	group := groupCommand("suite", "Manage test suites", "suites")

	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the suites of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0])
			if err != nil {
				return err
			}
			suites, err := client.Suites.GetSuites(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			return printList(cmd, &list, suites, suites)
		},
	}
	list.registerFilter(listCmd)

	group.AddCommand(
		getCommand("suite", func(ctx context.Context, id int) (*testrail.Suite, error) {
			return client.Suites.GetSuite(ctx, id)
		}),
		listCmd,
		mutateCommand("add <project-id>", "Create a suite in a project", true,
			func(ctx context.Context, id int, fields testrail.SuiteFields) (*testrail.Suite, error) {
				return client.Suites.AddSuite(ctx, id, fields)
			}),
		mutateCommand("update <suite-id>", "Update a suite", true,
			func(ctx context.Context, id int, fields testrail.SuiteFields) (*testrail.Suite, error) {
				return client.Suites.UpdateSuite(ctx, id, fields)
			}),
		softDeleteCommand("suite", func(ctx context.Context, id int, soft bool) (map[string]any, error) {
			return client.Suites.DeleteSuite(ctx, id, soft)
		}),
	)
	return group
}

func sectionCmd() *cobra.Command {
	group := groupCommand("section", "Manage sections", "sections")

	var list listFlags
	var suiteID int
	listCmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the sections of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := client.Sections.GetSections(cmd.Context(), projectID, testrail.SectionFilter{
				ListOptions: list.options(),
				SuiteID:     suiteID,
			})
			if err != nil {
				return err
			}
			return printList(cmd, &list, page, page.Sections)
		},
	}
	list.register(listCmd)
	listCmd.Flags().IntVar(&suiteID, "suite", 0, "suite ID (required for multi-suite projects)")

	group.AddCommand(
		getCommand("section", func(ctx context.Context, id int) (*testrail.Section, error) {
			return client.Sections.GetSection(ctx, id)
		}),
		listCmd,
		mutateCommand("add <project-id>", "Create a section in a project", true,
			func(ctx context.Context, id int, fields testrail.SectionFields) (*testrail.Section, error) {
				return client.Sections.AddSection(ctx, id, fields)
			}),
		mutateCommand("update <section-id>", "Update a section", true,
			func(ctx context.Context, id int, fields testrail.SectionFields) (*testrail.Section, error) {
				return client.Sections.UpdateSection(ctx, id, fields)
			}),
		mutateCommand("move <section-id>", "Move a section to another parent or position", true,
			func(ctx context.Context, id int, move testrail.MoveSection) (*testrail.Section, error) {
				return client.Sections.MoveSection(ctx, id, move)
			}),
		softDeleteCommand("section", func(ctx context.Context, id int, soft bool) (map[string]any, error) {
			return client.Sections.DeleteSection(ctx, id, soft)
		}),
	)
	return group
}
