package github

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/wsu2059q/ghpreview/internal/classify"
)

func newTestResolver(t *testing.T, fn roundTripFunc) Resolver {
	t.Helper()
	resolver, err := NewResolver(Config{
		HTTPClient:     newTestHTTPClient(fn),
		BaseURL:        "https://api.test/",
		InitialBackoff: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewResolver error = %v, want nil", err)
	}
	return resolver
}

func TestResolveRepository(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/repos/golang/go" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		return mustJSONResponse(t, http.StatusOK, minimalRepositoryBody()), nil
	})

	rawURL := "https://github.com/golang/go"
	ref := classify.Reference{Owner: "golang", Repo: "go", Kind: classify.KindRepository}

	entity, err := resolver.Resolve(context.Background(), ref, rawURL)
	if err != nil {
		t.Fatalf("Resolve error = %v, want nil", err)
	}

	if entity.Kind != classify.KindRepository {
		t.Fatalf("entity kind = %q, want repository", entity.Kind)
	}
	if entity.URL != rawURL {
		t.Fatalf("entity URL = %q, want %q", entity.URL, rawURL)
	}
	if entity.FullName != "golang/go" {
		t.Fatalf("entity full name = %q, want golang/go", entity.FullName)
	}
	if entity.Stars != 120000 || entity.Forks != 17000 || entity.Watchers != 120000 {
		t.Fatalf("entity counters = %d/%d/%d", entity.Stars, entity.Forks, entity.Watchers)
	}
	if entity.Language != "Go" || entity.License != "BSD-3-Clause" {
		t.Fatalf("entity language/license = %q/%q", entity.Language, entity.License)
	}
	if entity.CreatedAt != "Aug 19, 2014" {
		t.Fatalf("entity created at = %q, want Aug 19, 2014", entity.CreatedAt)
	}
}

func TestResolveIssue(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, func(r *http.Request) (*http.Response, error) {
		switch r.URL.Path {
		case "/repos/golang/go":
			return mustJSONResponse(t, http.StatusOK, minimalRepositoryBody()), nil
		case "/repos/golang/go/issues/100":
			return mustJSONResponse(t, http.StatusOK, map[string]any{
				"number":     100,
				"title":      "T",
				"state":      "open",
				"user":       map[string]any{"login": "alice"},
				"comments":   3,
				"created_at": "2020-01-01T00:00:00Z",
			}), nil
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
			return nil, nil
		}
	})

	ref := classify.Reference{Owner: "golang", Repo: "go", Kind: classify.KindIssue, Number: 100}

	entity, err := resolver.Resolve(context.Background(), ref, "https://github.com/golang/go/issues/100")
	if err != nil {
		t.Fatalf("Resolve error = %v, want nil", err)
	}

	if entity.Kind != classify.KindIssue || entity.Number != 100 {
		t.Fatalf("entity kind/number = %q/%d, want issue/100", entity.Kind, entity.Number)
	}
	if entity.Title != "T" || entity.State != "open" || entity.Author != "alice" {
		t.Fatalf("entity title/state/author = %q/%q/%q", entity.Title, entity.State, entity.Author)
	}
	if entity.Comments != 3 {
		t.Fatalf("entity comments = %d, want 3", entity.Comments)
	}
	if entity.CreatedAt != "Jan 1, 2020" {
		t.Fatalf("entity created at = %q, want Jan 1, 2020", entity.CreatedAt)
	}
	if entity.UpdatedAt != Unknown || entity.ClosedAt != Unknown {
		t.Fatalf("entity updated/closed = %q/%q, want %q sentinels", entity.UpdatedAt, entity.ClosedAt, Unknown)
	}
}

func TestResolvePullRequest(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, func(r *http.Request) (*http.Response, error) {
		switch r.URL.Path {
		case "/repos/octo/repo":
			return mustJSONResponse(t, http.StatusOK, minimalRepositoryBody()), nil
		case "/repos/octo/repo/pulls/7":
			return mustJSONResponse(t, http.StatusOK, map[string]any{
				"number":        7,
				"title":         "add widget",
				"state":         "closed",
				"user":          map[string]any{"login": "bob"},
				"comments":      2,
				"commits":       5,
				"additions":     120,
				"deletions":     30,
				"changed_files": 4,
				"created_at":    "2021-03-04T12:00:00Z",
				"merged_at":     "2021-03-05T08:30:00Z",
			}), nil
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
			return nil, nil
		}
	})

	ref := classify.Reference{Owner: "octo", Repo: "repo", Kind: classify.KindPullRequest, Number: 7}

	entity, err := resolver.Resolve(context.Background(), ref, "https://github.com/octo/repo/pull/7")
	if err != nil {
		t.Fatalf("Resolve error = %v, want nil", err)
	}

	if entity.Commits != 5 || entity.Additions != 120 || entity.Deletions != 30 || entity.ChangedFiles != 4 {
		t.Fatalf("entity change stats = %d/%d/%d/%d", entity.Commits, entity.Additions, entity.Deletions, entity.ChangedFiles)
	}
	if entity.MergedAt != "Mar 5, 2021" {
		t.Fatalf("entity merged at = %q, want Mar 5, 2021", entity.MergedAt)
	}
}

func TestResolveRepositoryNotFound(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, func(r *http.Request) (*http.Response, error) {
		return notFoundResponse(), nil
	})

	ref := classify.Reference{Owner: "octo", Repo: "missing", Kind: classify.KindRepository}

	_, err := resolver.Resolve(context.Background(), ref, "https://github.com/octo/missing")
	if err == nil {
		t.Fatal("Resolve error = nil, want not found")
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound(%v) = false, want true", err)
	}
	if got := ClassifyFailure(err); got != FailureNotFound {
		t.Fatalf("ClassifyFailure(%v) = %q, want %q", err, got, FailureNotFound)
	}
}

func TestResolveSubResourceFailureIsTotal(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path == "/repos/golang/go" {
			return mustJSONResponse(t, http.StatusOK, minimalRepositoryBody()), nil
		}
		return notFoundResponse(), nil
	})

	ref := classify.Reference{Owner: "golang", Repo: "go", Kind: classify.KindIssue, Number: 999999}

	entity, err := resolver.Resolve(context.Background(), ref, "https://github.com/golang/go/issues/999999")
	if err == nil {
		t.Fatal("Resolve error = nil, want issue failure")
	}
	if !reflect.DeepEqual(entity, Entity{}) {
		t.Fatalf("entity = %+v, want zero value on failure", entity)
	}
	if !strings.Contains(err.Error(), "resolve issue") {
		t.Fatalf("error = %v, want issue stage context", err)
	}
}

func TestResolveMalformedBody(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, func(r *http.Request) (*http.Response, error) {
		return textResponse(http.StatusOK, `["not","an","object"]`), nil
	})

	ref := classify.Reference{Owner: "octo", Repo: "repo", Kind: classify.KindRepository}

	_, err := resolver.Resolve(context.Background(), ref, "https://github.com/octo/repo")
	if err == nil {
		t.Fatal("Resolve error = nil, want malformed response")
	}
	if !IsMalformed(err) {
		t.Fatalf("IsMalformed(%v) = false, want true", err)
	}
	if got := ClassifyFailure(err); got != FailureMalformed {
		t.Fatalf("ClassifyFailure(%v) = %q, want %q", err, got, FailureMalformed)
	}
}

func TestResolveNetworkFailure(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	ref := classify.Reference{Owner: "octo", Repo: "repo", Kind: classify.KindRepository}

	_, err := resolver.Resolve(context.Background(), ref, "https://github.com/octo/repo")
	if err == nil {
		t.Fatal("Resolve error = nil, want network failure")
	}
	if got := ClassifyFailure(err); got != FailureNetwork {
		t.Fatalf("ClassifyFailure(%v) = %q, want %q", err, got, FailureNetwork)
	}
}

func TestResolveMissingOptionalFields(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, func(r *http.Request) (*http.Response, error) {
		return mustJSONResponse(t, http.StatusOK, map[string]any{
			"full_name": "octo/bare",
		}), nil
	})

	ref := classify.Reference{Owner: "octo", Repo: "bare", Kind: classify.KindRepository}

	entity, err := resolver.Resolve(context.Background(), ref, "https://github.com/octo/bare")
	if err != nil {
		t.Fatalf("Resolve error = %v, want nil", err)
	}
	if entity.Description != "" {
		t.Fatalf("entity description = %q, want empty", entity.Description)
	}
	if entity.Language != Unknown {
		t.Fatalf("entity language = %q, want %q", entity.Language, Unknown)
	}
	if entity.License != NoLicense {
		t.Fatalf("entity license = %q, want %q", entity.License, NoLicense)
	}
	if entity.CreatedAt != Unknown || entity.UpdatedAt != Unknown {
		t.Fatalf("entity dates = %q/%q, want %q sentinels", entity.CreatedAt, entity.UpdatedAt, Unknown)
	}
	if entity.Stars != 0 || entity.Forks != 0 || entity.Watchers != 0 {
		t.Fatalf("entity counters = %d/%d/%d, want zeros", entity.Stars, entity.Forks, entity.Watchers)
	}
}

func TestResolverAuthHeader(t *testing.T) {
	t.Parallel()

	resolver, err := NewResolver(Config{
		Token: "token-123",
		HTTPClient: newTestHTTPClient(func(r *http.Request) (*http.Response, error) {
			if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
				t.Fatalf("Authorization header = %q, want Bearer token-123", got)
			}
			return mustJSONResponse(t, http.StatusOK, minimalRepositoryBody()), nil
		}),
		BaseURL: "https://api.test/",
	})
	if err != nil {
		t.Fatalf("NewResolver error = %v, want nil", err)
	}

	ref := classify.Reference{Owner: "golang", Repo: "go", Kind: classify.KindRepository}
	if _, err := resolver.Resolve(context.Background(), ref, "https://github.com/golang/go"); err != nil {
		t.Fatalf("Resolve error = %v, want nil", err)
	}
}
