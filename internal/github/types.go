package github

import (
	"github.com/wsu2059q/ghpreview/internal/classify"
)

// Sentinel values substituted for fields the upstream record does not carry.
const (
	// Unknown replaces missing dates, languages, and author logins.
	Unknown = "unknown"
	// NoLicense replaces a missing license.
	NoLicense = "none"
)

// Entity is the enriched, renderable result of resolving a reference. Its
// populated field set is determined by Kind: repository fields are always
// set, issue fields only for issues and pull requests, and the change-stat
// fields only for pull requests. Entities are immutable once constructed.
type Entity struct {
	Kind classify.Kind

	URL         string
	FullName    string
	Description string
	Stars       int
	Forks       int
	Watchers    int
	Language    string
	License     string
	Homepage    string
	Topics      []string
	CreatedAt   string
	UpdatedAt   string

	Number   int
	Title    string
	State    string
	Author   string
	Comments int
	ClosedAt string

	Commits      int
	Additions    int
	Deletions    int
	ChangedFiles int
	MergedAt     string
}
