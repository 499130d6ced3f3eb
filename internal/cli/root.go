package cli

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/vilaca/issue-views/internal/avatar"
	"github.com/vilaca/issue-views/internal/config"
	"github.com/vilaca/issue-views/internal/dashboard"
	"github.com/vilaca/issue-views/internal/issues"
	"github.com/vilaca/issue-views/internal/routes"
	"github.com/vilaca/issue-views/internal/store"
)

// App holds the wired dependencies shared by all commands.
type App struct {
	Config   *config.Config
	Store    store.Store
	Routes   *routes.Routes
	Helpers  *issues.Helpers
	Renderer *dashboard.HTMLRenderer
	Logger   dashboard.Logger
	Out      io.Writer
}

// NewApp wires the presentation layer on top of an opened store.
// This is the composition root shared by the server and the CLI.
func NewApp(cfg *config.Config, s store.Store, out io.Writer) *App {
	logger := dashboard.NewStdLogger()
	r := routes.New(cfg.BaseURL)

	helpers := issues.New(issues.Options{
		Trackers: cfg.IssuesTracker,
		Routes:   r,
		Finder:   s,
		Avatars:  avatar.NewResolver(cfg.Gravatar),
		Logger:   logger,
	})

	return &App{
		Config:   cfg,
		Store:    s,
		Routes:   r,
		Helpers:  helpers,
		Renderer: dashboard.NewHTMLRenderer(r),
		Logger:   logger,
		Out:      out,
	}
}

// Handler returns the HTTP handler serving the issue views.
func (a *App) Handler() http.Handler {
	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		Renderer: a.Renderer,
		Logger:   a.Logger,
		Issues:   a.Store,
		Helpers:  a.Helpers,
		Routes:   a.Routes,
	})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

// NewRootCmd creates the top-level "issue-views" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "issue-views",
		Short:         "Issue lists, issue pages and Atom feeds for tracked projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)

	root.AddCommand(
		newServeCmd(app),
		newFeedCmd(app),
		newProjectCmd(app),
	)

	return root
}

func printf(app *App, format string, v ...interface{}) {
	fmt.Fprintf(app.Out, format, v...)
}
