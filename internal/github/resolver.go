// Package github resolves classified GitHub references into renderable
// entities through the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	goGithub "github.com/google/go-github/v72/github"

	"github.com/wsu2059q/ghpreview/internal/classify"
)

const (
	// DefaultHTTPTimeout bounds every upstream call when no custom client
	// is supplied.
	DefaultHTTPTimeout = 30 * time.Second
	// DefaultMaxRetries is the retry count for transient upstream failures.
	DefaultMaxRetries = 2
	// DefaultInitialBackoff is the first retry delay.
	DefaultInitialBackoff = 2 * time.Second

	dateLayout = "Jan 2, 2006"
)

// Config configures the resolver. Token may be empty: requests then run
// unauthenticated against the lower rate limit.
type Config struct {
	Token          string
	HTTPClient     *http.Client
	BaseURL        string
	MaxRetries     int
	InitialBackoff time.Duration
}

// WithDefaults fills missing optional values with package defaults.
func (c Config) WithDefaults() Config {
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = DefaultInitialBackoff
	}
	return c
}

// Resolver turns a classified reference into a complete entity. Resolution
// is all-or-nothing: when any required upstream call fails, no partial
// entity is returned.
type Resolver interface {
	Resolve(ctx context.Context, ref classify.Reference, rawURL string) (Entity, error)
}

// NewResolver constructs a resolver instance.
func NewResolver(cfg Config) (Resolver, error) {
	cfg = cfg.WithDefaults()
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("invalid MaxRetries %d", cfg.MaxRetries)
	}

	rest, err := newRESTClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create REST client: %w", err)
	}

	return &resolver{cfg: cfg, rest: rest}, nil
}

type resolver struct {
	cfg  Config
	rest *restClient
}

func (r *resolver) Resolve(ctx context.Context, ref classify.Reference, rawURL string) (Entity, error) {
	var repository *goGithub.Repository
	err := doWithRetry(ctx, r.cfg.MaxRetries, r.cfg.InitialBackoff, func() error {
		var callErr error
		repository, callErr = r.rest.getRepository(ctx, ref.Owner, ref.Repo)
		return callErr
	})
	if err != nil {
		return Entity{}, fmt.Errorf("resolve repository %s: %w", ref.FullName(), err)
	}

	entity := entityFromRepository(ref, rawURL, repository)

	switch ref.Kind {
	case classify.KindIssue:
		var issue *goGithub.Issue
		err := doWithRetry(ctx, r.cfg.MaxRetries, r.cfg.InitialBackoff, func() error {
			var callErr error
			issue, callErr = r.rest.getIssue(ctx, ref.Owner, ref.Repo, ref.Number)
			return callErr
		})
		if err != nil {
			return Entity{}, fmt.Errorf("resolve issue %s#%d: %w", ref.FullName(), ref.Number, err)
		}
		mergeIssue(&entity, issue)
	case classify.KindPullRequest:
		var pr *goGithub.PullRequest
		err := doWithRetry(ctx, r.cfg.MaxRetries, r.cfg.InitialBackoff, func() error {
			var callErr error
			pr, callErr = r.rest.getPullRequest(ctx, ref.Owner, ref.Repo, ref.Number)
			return callErr
		})
		if err != nil {
			return Entity{}, fmt.Errorf("resolve pull request %s#%d: %w", ref.FullName(), ref.Number, err)
		}
		mergePullRequest(&entity, pr)
	}

	return entity, nil
}

func entityFromRepository(ref classify.Reference, rawURL string, repository *goGithub.Repository) Entity {
	language := Unknown
	if repository.Language != nil && repository.GetLanguage() != "" {
		language = repository.GetLanguage()
	}
	license := NoLicense
	if repository.GetLicense().GetName() != "" {
		license = repository.GetLicense().GetName()
	}

	return Entity{
		Kind:        ref.Kind,
		URL:         rawURL,
		FullName:    ref.FullName(),
		Description: repository.GetDescription(),
		Stars:       repository.GetStargazersCount(),
		Forks:       repository.GetForksCount(),
		Watchers:    repository.GetWatchersCount(),
		Language:    language,
		License:     license,
		Homepage:    repository.GetHomepage(),
		Topics:      repository.Topics,
		CreatedAt:   formatDate(repository.CreatedAt),
		UpdatedAt:   formatDate(repository.UpdatedAt),
	}
}

func mergeIssue(entity *Entity, issue *goGithub.Issue) {
	entity.Number = issue.GetNumber()
	entity.Title = issue.GetTitle()
	entity.State = issue.GetState()
	entity.Author = loginOrUnknown(issue.GetUser())
	entity.Comments = issue.GetComments()
	entity.CreatedAt = formatDate(issue.CreatedAt)
	entity.UpdatedAt = formatDate(issue.UpdatedAt)
	entity.ClosedAt = formatDate(issue.ClosedAt)
}

func mergePullRequest(entity *Entity, pr *goGithub.PullRequest) {
	entity.Number = pr.GetNumber()
	entity.Title = pr.GetTitle()
	entity.State = pr.GetState()
	entity.Author = loginOrUnknown(pr.GetUser())
	entity.Comments = pr.GetComments()
	entity.Commits = pr.GetCommits()
	entity.Additions = pr.GetAdditions()
	entity.Deletions = pr.GetDeletions()
	entity.ChangedFiles = pr.GetChangedFiles()
	entity.CreatedAt = formatDate(pr.CreatedAt)
	entity.UpdatedAt = formatDate(pr.UpdatedAt)
	entity.ClosedAt = formatDate(pr.ClosedAt)
	entity.MergedAt = formatDate(pr.MergedAt)
}

func loginOrUnknown(user *goGithub.User) string {
	if login := user.GetLogin(); login != "" {
		return login
	}
	return Unknown
}

// formatDate renders an upstream timestamp as a fixed human-readable date.
// Missing or zero timestamps become the Unknown sentinel, never an empty
// string.
func formatDate(ts *goGithub.Timestamp) string {
	if ts == nil {
		return Unknown
	}
	t := ts.GetTime()
	if t == nil || t.IsZero() {
		return Unknown
	}
	return t.UTC().Format(dateLayout)
}
