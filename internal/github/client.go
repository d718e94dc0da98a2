package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	goGithub "github.com/google/go-github/v72/github"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://api.github.com/"

// restClient is a thin wrapper over go-github that applies rate limiting and
// normalizes errors into the package taxonomy.
type restClient struct {
	client  *goGithub.Client
	limiter *rateLimiter
}

func newRESTClient(cfg Config) (*restClient, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		baseTransport := httpClient.Transport
		if baseTransport == nil {
			baseTransport = http.DefaultTransport
		}
		httpClient = &http.Client{
			Transport: &oauth2.Transport{
				Source: ts,
				Base:   baseTransport,
			},
			Timeout: httpClient.Timeout,
		}
	}

	client := goGithub.NewClient(httpClient)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	// go-github resolves request paths relative to BaseURL, which must end
	// in a slash.
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}
	client.BaseURL = parsed

	return &restClient{
		client:  client,
		limiter: newRateLimiter(),
	}, nil
}

func (c *restClient) getRepository(ctx context.Context, owner, repo string) (*goGithub.Repository, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}
	repository, resp, err := c.client.Repositories.Get(ctx, owner, repo)
	c.limiter.update(resp)
	if err != nil {
		return nil, wrapRESTError("get repository", err)
	}
	return repository, nil
}

func (c *restClient) getIssue(ctx context.Context, owner, repo string, number int) (*goGithub.Issue, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}
	issue, resp, err := c.client.Issues.Get(ctx, owner, repo, number)
	c.limiter.update(resp)
	if err != nil {
		return nil, wrapRESTError("get issue", err)
	}
	return issue, nil
}

func (c *restClient) getPullRequest(ctx context.Context, owner, repo string, number int) (*goGithub.PullRequest, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}
	pr, resp, err := c.client.PullRequests.Get(ctx, owner, repo, number)
	c.limiter.update(resp)
	if err != nil {
		return nil, wrapRESTError("get pull request", err)
	}
	return pr, nil
}

func wrapRESTError(op string, err error) error {
	if err == nil {
		return nil
	}

	var respErr *goGithub.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return fmt.Errorf("%s: %w", op, &statusError{
			StatusCode: respErr.Response.StatusCode,
			Err:        err,
		})
	}

	if isDecodeError(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
