package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/vilaca/issue-views/internal/domain"
	"github.com/vilaca/issue-views/internal/issues"
	"github.com/vilaca/issue-views/internal/routes"
	"github.com/vilaca/issue-views/internal/store"
)

// Handler handles HTTP requests for the issue views.
type Handler struct {
	renderer Renderer
	logger   Logger
	issues   IssueService
	helpers  *issues.Helpers
	routes   *routes.Routes
}

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// IssueService is the query layer the handler reads from and writes to.
type IssueService interface {
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	CreateIssue(ctx context.Context, issue *domain.Issue) (*domain.Issue, error)
	IssueByIID(ctx context.Context, projectID, iid int64) (*domain.Issue, error)
	ListIssues(ctx context.Context, filter store.IssueFilter) ([]*domain.Issue, error)
	BulkUpdateIssues(ctx context.Context, projectID int64, iids []int64, update store.BulkUpdate) (int64, error)
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	Renderer Renderer
	Logger   Logger
	Issues   IssueService
	Helpers  *issues.Helpers
	Routes   *routes.Routes
}

// NewHandler creates a new Handler with injected dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		renderer: cfg.Renderer,
		logger:   cfg.Logger,
		issues:   cfg.Issues,
		helpers:  cfg.Helpers,
		routes:   cfg.Routes,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleProjects)
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /projects/{id}/issues", h.handleIssues)
	mux.HandleFunc("POST /projects/{id}/issues", h.handleCreateIssue)
	mux.HandleFunc("GET /projects/{id}/issues.atom", h.handleFeed)
	mux.HandleFunc("GET /projects/{id}/issues/new", h.handleNewIssue)
	mux.HandleFunc("POST /projects/{id}/issues/bulk_update", h.handleBulkUpdate)
	mux.HandleFunc("GET /projects/{id}/issues/{iid}", h.handleIssue)
	mux.HandleFunc("POST /projects/{id}/issues/{iid}", h.handleUpdateIssue)
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.renderer.RenderHealth(w); err != nil {
		h.logger.Printf("failed to render health: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleProjects serves the project list.
func (h *Handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.issues.ListProjects(r.Context())
	if err != nil {
		h.logger.Printf("failed to list projects: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	view := h.helpers.View(r.Context(), nil, r.URL.Query())
	if err := h.renderer.RenderProjects(w, view, projects); err != nil {
		h.logger.Printf("failed to render projects: %v", err)
	}
}

// handleIssues serves the issue list of a project, or redirects to the
// project's external tracker.
func (h *Handler) handleIssues(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if target := h.helpers.URLForProjectIssues(project); target != h.routes.ProjectIssuesPath(project) {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	params := r.URL.Query()
	filter := store.IssueFilter{
		ProjectID:   project.ID,
		State:       stateFilter(params.Get("state")),
		MilestoneID: optionalID(params.Get("milestone_id")),
		AssigneeID:  optionalID(params.Get("assignee_id")),
	}
	list, err := h.issues.ListIssues(r.Context(), filter)
	if err != nil {
		h.logger.Printf("failed to list issues of project %d: %v", project.ID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderIssues(w, h.helpers.View(r.Context(), project, params), list); err != nil {
		h.logger.Printf("failed to render issues: %v", err)
	}
}

// handleFeed serves the Atom feed of a project's open issues.
func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	list, err := h.issues.ListIssues(r.Context(), store.IssueFilter{
		ProjectID: project.ID,
		State:     domain.IssueOpened,
	})
	if err != nil {
		h.logger.Printf("failed to list issues of project %d: %v", project.ID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	if err := h.renderer.RenderFeed(w, h.helpers.View(r.Context(), project, nil), list); err != nil {
		h.logger.Printf("failed to render feed: %v", err)
	}
}

// handleIssue serves a single issue.
func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	iid, err := strconv.ParseInt(r.PathValue("iid"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid issue number", http.StatusBadRequest)
		return
	}
	if target := h.helpers.URLForIssue(iid, project); target != h.routes.ProjectIssueURL(project, iid) {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	issue, err := h.issues.IssueByIID(r.Context(), project.ID, iid)
	if errors.Is(err, domain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Printf("failed to load issue #%d of project %d: %v", iid, project.ID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	issue.Project = project

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderIssue(w, h.helpers.View(r.Context(), project, r.URL.Query()), issue); err != nil {
		h.logger.Printf("failed to render issue: %v", err)
	}
}

// handleNewIssue serves the new issue form, or redirects to the external tracker.
func (h *Handler) handleNewIssue(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if target := h.helpers.URLForNewIssue(project); target != h.routes.NewProjectIssuePath(project) {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderNewIssue(w, h.helpers.View(r.Context(), project, r.URL.Query())); err != nil {
		h.logger.Printf("failed to render new issue form: %v", err)
	}
}

// handleCreateIssue files a new issue from the form.
func (h *Handler) handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.PostForm.Get("title"))
	if title == "" {
		http.Error(w, "Title is required", http.StatusUnprocessableEntity)
		return
	}

	issue := &domain.Issue{
		Title:       title,
		Description: r.PostForm.Get("description"),
		AuthorName:  r.PostForm.Get("author_name"),
		AuthorEmail: r.PostForm.Get("author_email"),
		Project:     project,
	}
	if id := optionalID(r.PostForm.Get("assignee_id")); id != nil {
		issue.AssigneeID = *id
	}
	if id := optionalID(r.PostForm.Get("milestone_id")); id != nil {
		issue.MilestoneID = *id
	}
	if err := checkAssignment(project, store.BulkUpdate{MilestoneID: &issue.MilestoneID, AssigneeID: &issue.AssigneeID}); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	created, err := h.issues.CreateIssue(r.Context(), issue)
	if err != nil {
		h.logger.Printf("failed to create issue in project %d: %v", project.ID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, h.routes.ProjectIssuePath(project, created.IID), http.StatusSeeOther)
}

// handleBulkUpdate changes milestone, assignee or state of the selected issues.
func (h *Handler) handleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	iids, err := parseIIDs(r.PostForm["issue_ids"])
	if err != nil {
		http.Error(w, "Invalid issue selection", http.StatusBadRequest)
		return
	}

	update := store.BulkUpdate{
		MilestoneID: bulkID(r.PostForm.Get("milestone_id")),
		AssigneeID:  bulkID(r.PostForm.Get("assignee_id")),
		State:       stateEvent(r.PostForm.Get("state_event")),
	}
	if err := checkAssignment(project, update); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	n, err := h.issues.BulkUpdateIssues(r.Context(), project.ID, iids, update)
	if err != nil {
		h.logger.Printf("failed to bulk update project %d: %v", project.ID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.logger.Printf("bulk updated %d issue(s) in project %d", n, project.ID)

	http.Redirect(w, r, h.routes.ProjectIssuesPath(project), http.StatusSeeOther)
}

// handleUpdateIssue applies the assignee, milestone and state form of the
// issue page. A blank assignee or milestone clears it.
func (h *Handler) handleUpdateIssue(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	iid, err := strconv.ParseInt(r.PathValue("iid"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid issue number", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	update := store.BulkUpdate{
		MilestoneID: formID(r.PostForm.Get("milestone_id")),
		AssigneeID:  formID(r.PostForm.Get("assignee_id")),
		State:       stateEvent(r.PostForm.Get("state_event")),
	}
	if err := checkAssignment(project, update); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	n, err := h.issues.BulkUpdateIssues(r.Context(), project.ID, []int64{iid}, update)
	if err != nil {
		h.logger.Printf("failed to update issue #%d of project %d: %v", iid, project.ID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if n == 0 {
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, h.routes.ProjectIssuePath(project, iid), http.StatusSeeOther)
}

// loadProject resolves the {id} path value. It writes the error response
// and returns false when the project cannot be loaded.
func (h *Handler) loadProject(w http.ResponseWriter, r *http.Request) (*domain.Project, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid project id", http.StatusBadRequest)
		return nil, false
	}

	project, err := h.issues.GetProject(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		h.logger.Printf("failed to load project %d: %v", id, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return project, true
}

// stateFilter maps the state query parameter; open issues are the default.
func stateFilter(state string) string {
	switch state {
	case "all":
		return ""
	case domain.IssueClosed:
		return domain.IssueClosed
	default:
		return domain.IssueOpened
	}
}

// optionalID parses a filter id. Blank or malformed values mean "any".
func optionalID(s string) *int64 {
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return nil
	}
	return &id
}

// bulkID parses a bulk update id. Blank leaves the field alone; the
// "None (...)" entries and other non-numeric values clear it.
func bulkID(s string) *int64 {
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		id = 0
	}
	return &id
}

// formID parses an issue form id. Blank or malformed values clear the field.
func formID(s string) *int64 {
	if id := bulkID(s); id != nil {
		return id
	}
	var none int64
	return &none
}

func stateEvent(event string) string {
	switch event {
	case "close":
		return domain.IssueClosed
	case "reopen":
		return domain.IssueOpened
	default:
		return ""
	}
}

// checkAssignment rejects milestones and assignees from outside project.
// Zero ids clear the field and are always accepted.
func checkAssignment(project *domain.Project, update store.BulkUpdate) error {
	if id := update.MilestoneID; id != nil && *id != 0 && !hasMilestone(project, *id) {
		return fmt.Errorf("milestone %d does not belong to project %d", *id, project.ID)
	}
	if id := update.AssigneeID; id != nil && *id != 0 && !hasMember(project, *id) {
		return fmt.Errorf("user %d is not a member of project %d", *id, project.ID)
	}
	return nil
}

func hasMilestone(p *domain.Project, id int64) bool {
	for _, m := range p.Milestones {
		if m.ID == id {
			return true
		}
	}
	return false
}

func hasMember(p *domain.Project, id int64) bool {
	for _, u := range p.Members {
		if u.ID == id {
			return true
		}
	}
	return false
}

func parseIIDs(values []string) ([]int64, error) {
	var iids []int64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			iid, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, err
			}
			iids = append(iids, iid)
		}
	}
	return iids, nil
}

// StdLogger wraps the standard log package to implement Logger interface.
type StdLogger struct{}

func NewStdLogger() *StdLogger {
	return &StdLogger{}
}

func (l *StdLogger) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}
