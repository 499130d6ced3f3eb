package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vilaca/issue-views/internal/domain"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectCreateCmd(app), newProjectMemberCmd(app), newProjectMilestoneCmd(app))
	return cmd
}

func newProjectCreateCmd(app *App) *cobra.Command {
	var name, path, tracker, trackerID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Store.CreateProject(cmd.Context(), &domain.Project{
				Name:            name,
				Path:            path,
				IssuesTracker:   tracker,
				IssuesTrackerID: trackerID,
			})
			if err != nil {
				return err
			}

			printf(app, "Created project %d (%s)\n", p.ID, p.Path)
			if url := app.Helpers.URLForProjectIssues(p); url != "" {
				printf(app, "Issues: %s\n", url)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&path, "path", "", "Project path, e.g. group/name")
	cmd.Flags().StringVar(&tracker, "tracker", domain.DefaultIssuesTracker, "Issue tracker name")
	cmd.Flags().StringVar(&trackerID, "tracker-id", "", "Project identifier in the external tracker")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func newProjectMemberCmd(app *App) *cobra.Command {
	var projectID int64
	var name, username, email string

	cmd := &cobra.Command{
		Use:   "add-member",
		Short: "Create a user and add it to a project team",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.Store.GetProject(ctx, projectID); err != nil {
				return err
			}
			u, err := app.Store.CreateUser(ctx, &domain.User{Name: name, Username: username, Email: email})
			if err != nil {
				return err
			}
			if err := app.Store.AddMember(ctx, projectID, u.ID); err != nil {
				return err
			}

			printf(app, "Added %s to project %d\n", u.Name, projectID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "Project ID")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&email, "email", "", "Email, used for the avatar")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newProjectMilestoneCmd(app *App) *cobra.Command {
	var projectID int64
	var title, due string

	cmd := &cobra.Command{
		Use:   "add-milestone",
		Short: "Add an active milestone to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := &domain.Milestone{ProjectID: projectID, Title: title, State: domain.MilestoneActive}
			if due != "" {
				d, err := time.Parse(time.DateOnly, due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				m.DueDate = &d
			}

			m, err := app.Store.CreateMilestone(cmd.Context(), m)
			if err != nil {
				return err
			}

			printf(app, "Created milestone %d (%s)\n", m.ID, m.Title)
			return nil
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "Project ID")
	cmd.Flags().StringVar(&title, "title", "", "Milestone title")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
