package issues

import (
	"github.com/vilaca/issue-views/internal/domain"
	"github.com/vilaca/issue-views/internal/feed"
)

const (
	atomTitleLength = 80
	thumbnailSize   = "40"
)

// IssueToAtomEntry builds the Atom entry of an issue. The updated field
// carries the creation time.
func (h *Helpers) IssueToAtomEntry(issue domain.Issue) feed.Entry {
	var url string
	if issue.Project != nil {
		url = h.routes.ProjectIssueURL(issue.Project, issue.IID)
	}

	var avatarURL string
	if h.avatars != nil {
		avatarURL = h.avatars.URL(issue.AuthorEmail)
	}

	return feed.Entry{
		ID:      url,
		Link:    feed.Link{Href: url},
		Title:   truncate(issue.Title, atomTitleLength),
		Updated: feed.FormatTime(issue.CreatedAt),
		Thumbnail: feed.Thumbnail{
			Width:  thumbnailSize,
			Height: thumbnailSize,
			URL:    avatarURL,
		},
		Author: feed.Author{
			Name:  issue.AuthorName,
			Email: issue.AuthorEmail,
		},
		Summary: issue.Title,
	}
}

// truncate shortens s to at most length runes, the trailing "..." included.
func truncate(s string, length int) string {
	const omission = "..."
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return string(runes[:length-len(omission)]) + omission
}
