package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vilaca/issue-views/internal/domain"
)

func TestRoutes(t *testing.T) {
	r := New("https://issues.example.com/")
	p := &domain.Project{ID: 7}

	assert.Equal(t, "/projects/7/issues", r.ProjectIssuesPath(p))
	assert.Equal(t, "/projects/7/issues.atom", r.ProjectIssuesFeedPath(p))
	assert.Equal(t, "/projects/7/issues/new", r.NewProjectIssuePath(p))
	assert.Equal(t, "/projects/7/issues/bulk_update", r.BulkUpdatePath(p))
	assert.Equal(t, "/projects/7/issues/42", r.ProjectIssuePath(p, 42))
	assert.Equal(t, "https://issues.example.com/projects/7/issues/42", r.ProjectIssueURL(p, 42))
}
