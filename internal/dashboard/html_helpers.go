package dashboard

import (
	"fmt"
	"strings"
)

// htmlHead returns the common HTML head section with proper meta tags.
// feedURL, when set, is advertised as the page's Atom feed.
func htmlHead(title, description, feedURL string) string {
	if description == "" {
		description = "Browse project issues, milestones and assignees"
	}

	feedLink := ""
	if feedURL != "" {
		feedLink = fmt.Sprintf(`<link rel="alternate" type="application/atom+xml" title="%s" href="%s">`,
			escapeHTML(title), escapeHTML(feedURL))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<meta name="description" content="%s">
	%s
	<title>%s - Issues</title>
	%s
</head>
<body>
	<div class="container">
`, escapeHTML(description), feedLink, escapeHTML(title), commonCSS())
}

// commonCSS returns the shared CSS styles used across all pages.
func commonCSS() string {
	return `<style>
		:root {
			--bg-primary: #f5f5f5;
			--bg-secondary: white;
			--text-primary: #333;
			--text-secondary: #666;
			--link-color: #0066cc;
			--border-color: #e0e0e0;
			--shadow: rgba(0,0,0,0.1);
			--open-bg: #d4edda;
			--closed-bg: #f8d7da;
			--merged-bg: #d1ecf1;
			--expired-bg: #fff3cd;
		}

		[data-theme="dark"] {
			--bg-primary: #1a1a1a;
			--bg-secondary: #2d2d2d;
			--text-primary: #e0e0e0;
			--text-secondary: #b0b0b0;
			--link-color: #4d9fff;
			--border-color: #404040;
			--shadow: rgba(0,0,0,0.3);
			--open-bg: #1e4620;
			--closed-bg: #4a1c1f;
			--merged-bg: #123a44;
			--expired-bg: #4a3d10;
		}

		body { font-family: system-ui, -apple-system, sans-serif; margin: 0; padding: 20px; background: var(--bg-primary); color: var(--text-primary); }
		.container { max-width: 1200px; margin: 0 auto; }
		h1 { font-size: 2rem; font-weight: 600; margin-bottom: 10px; }
		a { color: var(--link-color); }
		.nav { margin-bottom: 30px; display: flex; align-items: center; gap: 15px; flex-wrap: wrap; }
		.nav a { text-decoration: none; }
		.nav a:hover { text-decoration: underline; }
		.theme-toggle { padding: 8px 16px; background: var(--bg-secondary); border: 1px solid var(--border-color); border-radius: 4px; cursor: pointer; color: var(--text-primary); }

		.filters, .bulk-update { background: var(--bg-secondary); padding: 12px 16px; border-radius: 8px; box-shadow: 0 2px 4px var(--shadow); margin-bottom: 20px; display: flex; gap: 12px; align-items: center; flex-wrap: wrap; }
		.issues-list { list-style: none; margin: 0; padding: 0; background: var(--bg-secondary); border-radius: 8px; box-shadow: 0 2px 4px var(--shadow); }
		.issue { padding: 12px 16px; border-bottom: 1px solid var(--border-color); }
		.issue:last-child { border-bottom: none; }
		.issue.closed .issue-title a { text-decoration: line-through; color: var(--text-secondary); }
		.issue.today { border-left: 3px solid var(--link-color); }
		.issue-title { font-weight: 500; }
		.issue-meta { font-size: 13px; color: var(--text-secondary); margin-top: 4px; }

		.issue-box { padding: 16px; border-radius: 8px; margin-bottom: 20px; }
		.issue-box-open { background: var(--open-bg); }
		.issue-box-closed { background: var(--closed-bg); }
		.issue-box-merged { background: var(--merged-bg); }
		.issue-box-expired { background: var(--expired-bg); }
		.empty-state { padding: 30px; text-align: center; color: var(--text-secondary); }
	</style>`
}

// themeToggleScript returns the common theme toggle JavaScript.
func themeToggleScript() string {
	return `<script>
		function toggleTheme() {
			const html = document.documentElement;
			const newTheme = html.getAttribute('data-theme') === 'dark' ? 'light' : 'dark';
			html.setAttribute('data-theme', newTheme);
			localStorage.setItem('theme', newTheme);
		}
		document.documentElement.setAttribute('data-theme', localStorage.getItem('theme') || 'light');
	</script>`
}

// htmlFooter closes the container and the document.
func htmlFooter() string {
	return `	</div>
` + themeToggleScript() + `
</body>
</html>`
}

// buildNavigation returns the navigation bar. Links with an empty URL are skipped.
func buildNavigation(links ...navLink) string {
	var sb strings.Builder
	sb.WriteString(`<div class="nav">
			<a href="/">Projects</a>
`)
	for _, l := range links {
		if l.url == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("			%s\n", link(l.url, l.text)))
	}
	sb.WriteString(`			<button class="theme-toggle" onclick="toggleTheme()" aria-label="Toggle theme">Theme</button>
		</div>
`)
	return sb.String()
}

type navLink struct {
	url  string
	text string
}

// escapeHTML escapes special HTML characters to prevent XSS.
func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}

// link creates an anchor with escaped href and text.
func link(url, text string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, escapeHTML(url), escapeHTML(text))
}
