package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vilaca/issue-views/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and runs
// migrations. Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %s: %w", pragma, err)
		}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Users and projects
// ---------------------------------------------------------------------------

func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, username, email) VALUES (?, ?, ?)`,
		user.Name, user.Username, user.Email)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("user %s already exists", user.Username)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	created := *user
	created.ID = id
	return &created, nil
}

func (s *SQLiteStore) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	tracker := project.IssuesTracker
	if tracker == "" {
		tracker = domain.DefaultIssuesTracker
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, path, issues_tracker, issues_tracker_id) VALUES (?, ?, ?, ?)`,
		project.Name, project.Path, tracker, project.IssuesTrackerID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("project %s already exists", project.Path)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetProject(ctx, id)
}

// GetProject returns the project with its members and milestones loaded.
func (s *SQLiteStore) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, path, issues_tracker, issues_tracker_id FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if p.Members, err = s.listMembers(ctx, id); err != nil {
		return nil, fmt.Errorf("list members of project %d: %w", id, err)
	}
	if p.Milestones, err = s.listMilestones(ctx, id); err != nil {
		return nil, fmt.Errorf("list milestones of project %d: %w", id, err)
	}
	return p, nil
}

// ListProjects returns every project without members or milestones.
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, path, issues_tracker, issues_tracker_id FROM projects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *SQLiteStore) AddMember(ctx context.Context, projectID, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO project_members (project_id, user_id) VALUES (?, ?)`,
		projectID, userID)
	return err
}

func (s *SQLiteStore) listMembers(ctx context.Context, projectID int64) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.username, u.email
		 FROM users u JOIN project_members m ON m.user_id = u.id
		 WHERE m.project_id = ? ORDER BY u.id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ---------------------------------------------------------------------------
// Milestones
// ---------------------------------------------------------------------------

func (s *SQLiteStore) CreateMilestone(ctx context.Context, milestone *domain.Milestone) (*domain.Milestone, error) {
	state := milestone.State
	if state == "" {
		state = domain.MilestoneActive
	}
	var due *string
	if milestone.DueDate != nil {
		d := milestone.DueDate.Format(time.DateOnly)
		due = &d
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO milestones (project_id, title, state, due_date) VALUES (?, ?, ?, ?)`,
		milestone.ProjectID, milestone.Title, state, due)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	created := *milestone
	created.ID = id
	created.State = state
	return &created, nil
}

func (s *SQLiteStore) listMilestones(ctx context.Context, projectID int64) ([]domain.Milestone, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, title, state, due_date FROM milestones WHERE project_id = ? ORDER BY id`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var milestones []domain.Milestone
	for rows.Next() {
		var m domain.Milestone
		var due sql.NullString
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Title, &m.State, &due); err != nil {
			return nil, err
		}
		if due.Valid && due.String != "" {
			t, err := time.Parse(time.DateOnly, due.String)
			if err != nil {
				return nil, fmt.Errorf("parse due date of milestone %d: %w", m.ID, err)
			}
			m.DueDate = &t
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

// ---------------------------------------------------------------------------
// Issues
// ---------------------------------------------------------------------------

const issueColumns = `id, project_id, iid, title, description, state, author_name, author_email,
	assignee_id, milestone_id, created_at, updated_at`

// CreateIssue inserts issue with the next iid of its project.
func (s *SQLiteStore) CreateIssue(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	if issue.Project == nil {
		return nil, errors.New("create issue: project is required")
	}
	state := issue.State
	if state == "" {
		state = domain.IssueOpened
	}
	createdAt := issue.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	updatedAt := issue.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var iid int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(iid), 0) + 1 FROM issues WHERE project_id = ?`,
		issue.Project.ID).Scan(&iid); err != nil {
		return nil, fmt.Errorf("next iid: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO issues (project_id, iid, title, description, state, author_name, author_email,
			assignee_id, milestone_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		issue.Project.ID, iid, issue.Title, issue.Description, state,
		issue.AuthorName, issue.AuthorEmail, issue.AssigneeID, issue.MilestoneID,
		formatTime(createdAt), formatTime(updatedAt))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := *issue
	created.ID = id
	created.IID = iid
	created.State = state
	created.CreatedAt = createdAt.UTC()
	created.UpdatedAt = updatedAt.UTC()
	return &created, nil
}

// IssueByIID returns the issue numbered iid within the project.
func (s *SQLiteStore) IssueByIID(ctx context.Context, projectID, iid int64) (*domain.Issue, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE project_id = ? AND iid = ?`, projectID, iid)
	issue, err := scanIssue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("issue #%d of project %d: %w", iid, projectID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	issue.Project, err = s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return issue, nil
}

// ListIssues returns the issues matching filter, newest first, with their
// project attached.
func (s *SQLiteStore) ListIssues(ctx context.Context, filter IssueFilter) ([]*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE project_id = ?`
	args := []interface{}{filter.ProjectID}

	if filter.State != "" {
		query += ` AND state = ?`
		args = append(args, filter.State)
	}
	if filter.MilestoneID != nil {
		query += ` AND milestone_id = ?`
		args = append(args, *filter.MilestoneID)
	}
	if filter.AssigneeID != nil {
		query += ` AND assignee_id = ?`
		args = append(args, *filter.AssigneeID)
	}
	query += ` ORDER BY created_at DESC, iid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var issues []*domain.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(issues) == 0 {
		return issues, nil
	}
	project, err := s.GetProject(ctx, filter.ProjectID)
	if err != nil {
		return nil, err
	}
	for _, issue := range issues {
		issue.Project = project
	}
	return issues, nil
}

// BulkUpdateIssues applies update to the listed issues of a project and
// returns how many rows changed.
func (s *SQLiteStore) BulkUpdateIssues(ctx context.Context, projectID int64, iids []int64, update BulkUpdate) (int64, error) {
	if len(iids) == 0 {
		return 0, nil
	}

	sets := []string{"updated_at = ?"}
	args := []interface{}{formatTime(s.now())}
	if update.MilestoneID != nil {
		sets = append(sets, "milestone_id = ?")
		args = append(args, *update.MilestoneID)
	}
	if update.AssigneeID != nil {
		sets = append(sets, "assignee_id = ?")
		args = append(args, *update.AssigneeID)
	}
	if update.State != "" {
		sets = append(sets, "state = ?")
		args = append(args, update.State)
	}
	if len(sets) == 1 {
		return 0, nil
	}

	placeholders := make([]string, len(iids))
	args = append(args, projectID)
	for i, iid := range iids {
		placeholders[i] = "?"
		args = append(args, iid)
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE issues SET %s WHERE project_id = ? AND iid IN (%s)`,
			strings.Join(sets, ", "), strings.Join(placeholders, ", ")),
		args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update issues of project %d: %w", projectID, err)
	}
	return res.RowsAffected()
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row scanner) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(&p.ID, &p.Name, &p.Path, &p.IssuesTracker, &p.IssuesTrackerID); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanIssue(row scanner) (*domain.Issue, error) {
	var iss domain.Issue
	var projectID int64
	var createdAt, updatedAt string

	err := row.Scan(&iss.ID, &projectID, &iss.IID, &iss.Title, &iss.Description, &iss.State,
		&iss.AuthorName, &iss.AuthorEmail, &iss.AssigneeID, &iss.MilestoneID,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if iss.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at of issue %d: %w", iss.ID, err)
	}
	if iss.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at of issue %d: %w", iss.ID, err)
	}
	return &iss, nil
}

// timeLayout has fixed-width fractions so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
