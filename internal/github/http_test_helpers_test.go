package github

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestHTTPClient(fn roundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

func mustJSONResponse(t *testing.T, statusCode int, payload any) *http.Response {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		t.Fatalf("build json response: %v", err)
	}
	return &http.Response{
		StatusCode: statusCode,
		Header: http.Header{
			"Content-Type": []string{"application/json"},
		},
		Body: io.NopCloser(buf),
	}
}

func textResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Header: http.Header{
			"Content-Type": []string{"application/json"},
		},
		Body: io.NopCloser(strings.NewReader(body)),
	}
}

func notFoundResponse() *http.Response {
	return textResponse(http.StatusNotFound, `{"message":"Not Found"}`)
}

func minimalRepositoryBody() map[string]any {
	return map[string]any{
		"full_name":        "golang/go",
		"description":      "The Go programming language",
		"stargazers_count": 120000,
		"forks_count":      17000,
		"watchers_count":   120000,
		"language":         "Go",
		"license":          map[string]any{"name": "BSD-3-Clause"},
		"created_at":       "2014-08-19T04:33:40Z",
		"updated_at":       "2020-06-01T10:00:00Z",
	}
}
