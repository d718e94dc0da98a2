// Package render turns resolved entities into chat-ready summaries in one of
// three formats. Rendering is pure: the same entity and format always produce
// byte-identical output, and all formats carry the same information.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/wsu2059q/ghpreview/internal/classify"
	"github.com/wsu2059q/ghpreview/internal/github"
)

// Format is a supported output representation.
type Format string

const (
	// FormatMarkdown is rich markup with markdown link syntax.
	FormatMarkdown Format = "markdown"
	// FormatHTML is HTML-like markup with anchor tags.
	FormatHTML Format = "html"
	// FormatText is plain concatenated text.
	FormatText Format = "text"
)

// NoDescription replaces an empty repository description.
const NoDescription = "no description"

// RichestFirst is the preferred delivery order across formats.
var RichestFirst = []Format{FormatMarkdown, FormatHTML, FormatText}

// Render produces the summary for an entity in the given format. Branch and
// blob references carry no extra upstream data and render as the repository
// card. Unsupported formats yield an empty string.
func Render(entity github.Entity, format Format) string {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(entity)
	case FormatHTML:
		return renderHTML(entity)
	case FormatText:
		return renderText(entity)
	default:
		return ""
	}
}

func renderMarkdown(e github.Entity) string {
	var b strings.Builder
	switch e.Kind {
	case classify.KindIssue:
		fmt.Fprintf(&b, "**[Issue #%d](%s)** - %s\n\n", e.Number, e.URL, e.Title)
		fmt.Fprintf(&b, "🔄 State: %s | 👤 Author: %s\n", e.State, e.Author)
		fmt.Fprintf(&b, "💬 Comments: %d | 📅 Created: %s", e.Comments, e.CreatedAt)
	case classify.KindPullRequest:
		fmt.Fprintf(&b, "**[PR #%d](%s)** - %s\n\n", e.Number, e.URL, e.Title)
		fmt.Fprintf(&b, "🔄 State: %s | 👤 Author: %s\n", e.State, e.Author)
		fmt.Fprintf(&b, "💬 Comments: %d | 📝 Commits: %d\n", e.Comments, e.Commits)
		fmt.Fprintf(&b, "+%d / -%d lines | 📅 Created: %s", e.Additions, e.Deletions, e.CreatedAt)
	default:
		fmt.Fprintf(&b, "**[%s](%s)**\n", e.FullName, e.URL)
		fmt.Fprintf(&b, "%s\n\n", descriptionOrSentinel(e))
		fmt.Fprintf(&b, "⭐ Stars: %d | 🍴 Forks: %d | 👀 Watchers: %d\n", e.Stars, e.Forks, e.Watchers)
		fmt.Fprintf(&b, "💻 Language: %s | 📜 License: %s\n", e.Language, e.License)
		fmt.Fprintf(&b, "📅 Created: %s | Updated: %s", e.CreatedAt, e.UpdatedAt)
	}
	return b.String()
}

func renderHTML(e github.Entity) string {
	esc := html.EscapeString

	var b strings.Builder
	switch e.Kind {
	case classify.KindIssue:
		fmt.Fprintf(&b, "<b><a href=%q>Issue #%d</a></b> - %s<br><br>", e.URL, e.Number, esc(e.Title))
		fmt.Fprintf(&b, "🔄 State: %s | 👤 Author: %s<br>", esc(e.State), esc(e.Author))
		fmt.Fprintf(&b, "💬 Comments: %d | 📅 Created: %s", e.Comments, esc(e.CreatedAt))
	case classify.KindPullRequest:
		fmt.Fprintf(&b, "<b><a href=%q>PR #%d</a></b> - %s<br><br>", e.URL, e.Number, esc(e.Title))
		fmt.Fprintf(&b, "🔄 State: %s | 👤 Author: %s<br>", esc(e.State), esc(e.Author))
		fmt.Fprintf(&b, "💬 Comments: %d | 📝 Commits: %d<br>", e.Comments, e.Commits)
		fmt.Fprintf(&b, "+%d / -%d lines | 📅 Created: %s", e.Additions, e.Deletions, esc(e.CreatedAt))
	default:
		fmt.Fprintf(&b, "<b><a href=%q>%s</a></b><br>", e.URL, esc(e.FullName))
		fmt.Fprintf(&b, "%s<br><br>", esc(descriptionOrSentinel(e)))
		fmt.Fprintf(&b, "⭐ Stars: %d | 🍴 Forks: %d | 👀 Watchers: %d<br>", e.Stars, e.Forks, e.Watchers)
		fmt.Fprintf(&b, "💻 Language: %s | 📜 License: %s<br>", esc(e.Language), esc(e.License))
		fmt.Fprintf(&b, "📅 Created: %s | Updated: %s", esc(e.CreatedAt), esc(e.UpdatedAt))
	}
	return b.String()
}

func renderText(e github.Entity) string {
	var b strings.Builder
	switch e.Kind {
	case classify.KindIssue:
		fmt.Fprintf(&b, "Issue #%d - %s\n", e.Number, e.URL)
		fmt.Fprintf(&b, "Title: %s\n", e.Title)
		fmt.Fprintf(&b, "State: %s | Author: %s\n", e.State, e.Author)
		fmt.Fprintf(&b, "Comments: %d | Created: %s", e.Comments, e.CreatedAt)
	case classify.KindPullRequest:
		fmt.Fprintf(&b, "PR #%d - %s\n", e.Number, e.URL)
		fmt.Fprintf(&b, "Title: %s\n", e.Title)
		fmt.Fprintf(&b, "State: %s | Author: %s\n", e.State, e.Author)
		fmt.Fprintf(&b, "Comments: %d | Commits: %d\n", e.Comments, e.Commits)
		fmt.Fprintf(&b, "Added: %d | Deleted: %d\n", e.Additions, e.Deletions)
		fmt.Fprintf(&b, "Created: %s", e.CreatedAt)
	default:
		fmt.Fprintf(&b, "%s - %s\n", e.FullName, e.URL)
		fmt.Fprintf(&b, "%s\n", descriptionOrSentinel(e))
		fmt.Fprintf(&b, "Stars: %d | Forks: %d | Watchers: %d\n", e.Stars, e.Forks, e.Watchers)
		fmt.Fprintf(&b, "Language: %s | License: %s\n", e.Language, e.License)
		fmt.Fprintf(&b, "Created: %s | Updated: %s", e.CreatedAt, e.UpdatedAt)
	}
	return b.String()
}

func descriptionOrSentinel(e github.Entity) string {
	if strings.TrimSpace(e.Description) == "" {
		return NoDescription
	}
	return e.Description
}
