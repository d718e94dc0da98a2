// Package classify extracts GitHub resource references from free-form text.
package classify

import (
	"regexp"
	"strconv"
)

// Kind identifies the GitHub resource kind a URL points at.
type Kind string

const (
	// KindRepository is a repository root URL.
	KindRepository Kind = "repository"
	// KindIssue is an issue URL.
	KindIssue Kind = "issue"
	// KindPullRequest is a pull request URL.
	KindPullRequest Kind = "pull_request"
	// KindBranch is a branch tree URL.
	KindBranch Kind = "branch"
	// KindBlob is a file blob URL.
	KindBlob Kind = "blob"
)

// Reference is the normalized resource identity extracted from a GitHub URL.
// Number is set only for issues and pull requests; Ref (a branch name, or a
// "branch/path" blob location) is set only for branches and blobs.
type Reference struct {
	Owner  string
	Repo   string
	Kind   Kind
	Number int
	Ref    string
}

// FullName returns the owner/repo form of the reference.
func (r Reference) FullName() string {
	return r.Owner + "/" + r.Repo
}

// Match pairs a reference with the raw URL text it was extracted from. The
// raw URL is the cache key downstream.
type Match struct {
	RawURL string
	Ref    Reference
}

var (
	candidateRegex = regexp.MustCompile(`https?://(?:www\.)?github\.com/[^\s]+`)

	// The grammar is anchored: a candidate URL either matches it entirely or
	// is not a reference at all. URLs with extra trailing structure are
	// skipped rather than downgraded to a repository match.
	referenceRegex = regexp.MustCompile(
		`^https?://(?:www\.)?github\.com/([^/\s]+)/([^/\s]+)(?:/(?:issues/(\d+)|pull/(\d+)|tree/([^/\s]+)|blob/([^/\s]+/[^\s]*[^/\s])))?/?$`,
	)
)

// Classify scans text for GitHub resource URLs and returns one match per
// recognized URL, in order of occurrence. URL-shaped substrings the grammar
// does not fully cover are silently skipped. Classify performs no I/O.
func Classify(text string) []Match {
	var matches []Match
	for _, raw := range candidateRegex.FindAllString(text, -1) {
		ref, ok := Parse(raw)
		if !ok {
			continue
		}
		matches = append(matches, Match{RawURL: raw, Ref: ref})
	}
	return matches
}

// Parse classifies a single URL. The second return value reports whether the
// URL fully matches the supported grammar.
func Parse(rawURL string) (Reference, bool) {
	groups := referenceRegex.FindStringSubmatch(rawURL)
	if groups == nil {
		return Reference{}, false
	}

	ref := Reference{
		Owner: groups[1],
		Repo:  groups[2],
		Kind:  KindRepository,
	}

	switch {
	case groups[3] != "":
		number, err := strconv.Atoi(groups[3])
		if err != nil {
			return Reference{}, false
		}
		ref.Kind = KindIssue
		ref.Number = number
	case groups[4] != "":
		number, err := strconv.Atoi(groups[4])
		if err != nil {
			return Reference{}, false
		}
		ref.Kind = KindPullRequest
		ref.Number = number
	case groups[5] != "":
		ref.Kind = KindBranch
		ref.Ref = groups[5]
	case groups[6] != "":
		ref.Kind = KindBlob
		ref.Ref = groups[6]
	}

	return ref, true
}
