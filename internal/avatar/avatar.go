package avatar

import (
	"crypto/md5"
	"fmt"
	"strconv"
	"strings"

	"github.com/vilaca/issue-views/internal/config"
)

// DefaultImage is served when no avatar can be derived from an email.
const DefaultImage = "/assets/no_avatar.png"

// Resolver maps author emails to avatar image URLs.
type Resolver struct {
	enabled    bool
	template   string
	size       int
	defaultURL string
}

// NewResolver creates a Resolver from the gravatar settings.
func NewResolver(cfg config.GravatarConfig) *Resolver {
	r := &Resolver{
		enabled:    cfg.Enabled,
		template:   cfg.URL,
		size:       cfg.Size,
		defaultURL: cfg.DefaultURL,
	}
	if r.defaultURL == "" {
		r.defaultURL = DefaultImage
	}
	return r
}

// URL returns the avatar for email, falling back to the default image
// when Gravatar is disabled or the email is blank.
func (r *Resolver) URL(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if !r.enabled || email == "" || r.template == "" {
		return r.defaultURL
	}

	hash := fmt.Sprintf("%x", md5.Sum([]byte(email)))
	return strings.NewReplacer(
		"%{hash}", hash,
		"%{size}", strconv.Itoa(r.size),
	).Replace(r.template)
}
