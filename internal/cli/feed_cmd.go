package cli

import (
	"github.com/spf13/cobra"

	"github.com/vilaca/issue-views/internal/domain"
	"github.com/vilaca/issue-views/internal/store"
)

func newFeedCmd(app *App) *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Write the Atom feed of a project's open issues to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			project, err := app.Store.GetProject(ctx, projectID)
			if err != nil {
				return err
			}

			list, err := app.Store.ListIssues(ctx, store.IssueFilter{
				ProjectID: project.ID,
				State:     domain.IssueOpened,
			})
			if err != nil {
				return err
			}

			view := app.Helpers.View(ctx, project, nil)
			return app.Renderer.RenderFeed(cmd.OutOrStdout(), view, list)
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "Project ID")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
