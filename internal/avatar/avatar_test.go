package avatar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vilaca/issue-views/internal/config"
)

func TestResolver_URL(t *testing.T) {
	r := NewResolver(config.GravatarConfig{
		Enabled: true,
		URL:     "https://www.gravatar.com/avatar/%{hash}?s=%{size}&d=identicon",
		Size:    40,
	})

	// md5("user@example.com")
	want := "https://www.gravatar.com/avatar/b58996c504c5638798eb6b511e6f49af?s=40&d=identicon"
	assert.Equal(t, want, r.URL("user@example.com"))
	assert.Equal(t, want, r.URL("  User@Example.COM "), "email is normalised before hashing")
}

func TestResolver_Fallbacks(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.GravatarConfig
		email string
		want  string
	}{
		{"blank email", config.GravatarConfig{Enabled: true, URL: "x/%{hash}"}, "", DefaultImage},
		{"disabled", config.GravatarConfig{Enabled: false, URL: "x/%{hash}"}, "a@b.c", DefaultImage},
		{"custom default", config.GravatarConfig{DefaultURL: "/img/anon.png"}, "a@b.c", "/img/anon.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewResolver(tt.cfg).URL(tt.email))
		})
	}
}
