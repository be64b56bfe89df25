package builtin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pronetheia/agenthub/tool"
)

// Fetcher retrieves a URL's content. The default implementation uses
// net/http; tests substitute a stub.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (statusCode int, body string, err error)
}

// httpFetcher is the production Fetcher.
type httpFetcher struct {
	client *http.Client
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(body), nil
}

// WebSearchOptions configures a WebSearch tool.
type WebSearchOptions struct {
	Fetcher Fetcher
}

// WebSearch provides simulated search and documentation lookup plus real
// content fetching through its Fetcher.
type WebSearch struct {
	fetcher Fetcher
}

// NewWebSearch constructs the tool.
func NewWebSearch(optFns ...func(o *WebSearchOptions)) *WebSearch {
	opts := WebSearchOptions{
		Fetcher: &httpFetcher{client: &http.Client{Timeout: 10 * time.Second}},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &WebSearch{fetcher: opts.Fetcher}
}

// ID implements tool.Tool.
func (t *WebSearch) ID() string { return "web-search" }

// Name implements tool.Tool.
func (t *WebSearch) Name() string { return "WebSearchMCP" }

// Category implements tool.Tool.
func (t *WebSearch) Category() string { return "web_search" }

// Description implements tool.Tool.
func (t *WebSearch) Description() string {
	return "Web search and content analysis including search, content fetching, and documentation lookup"
}

// SecurityLevel implements tool.Tool.
func (t *WebSearch) SecurityLevel() tool.SecurityLevel { return tool.SecuritySafe }

// ExecutionTimeout implements tool.Tool.
func (t *WebSearch) ExecutionTimeout() time.Duration { return 20 * time.Second }

// InputSchema implements tool.Tool.
func (t *WebSearch) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type": "string",
				"enum": []string{"search", "fetch", "documentation"},
			},
			"query":      map[string]any{"type": "string"},
			"url":        map[string]any{"type": "string"},
			"technology": map[string]any{"type": "string"},
		},
		"required": []string{"action"},
	}
}

// OutputSchema implements tool.Tool.
func (t *WebSearch) OutputSchema() map[string]any {
	return map[string]any{"type": "object"}
}

// ValidateParameters implements tool.Tool.
func (t *WebSearch) ValidateParameters(params map[string]any) error {
	return validate(params, t.InputSchema())
}

// Execute implements tool.Tool.
func (t *WebSearch) Execute(ctx context.Context, params map[string]any) (any, error) {
	action, _ := params["action"].(string)
	switch strings.ToLower(action) {
	case "search":
		return searchWeb(stringParam(params, "query", "")), nil
	case "fetch":
		return t.fetchContent(ctx, stringParam(params, "url", ""))
	case "documentation":
		return findDocumentation(stringParam(params, "technology", "")), nil
	default:
		return nil, fmt.Errorf("unknown action: %s", action)
	}
}

// searchWeb returns simulated results. No live search backend is wired in.
func searchWeb(query string) map[string]any {
	results := []map[string]any{
		{"title": "Result 1", "url": "https://example.com/1", "snippet": fmt.Sprintf("Search result for: %s", query)},
		{"title": "Result 2", "url": "https://example.com/2", "snippet": fmt.Sprintf("Another result for: %s", query)},
	}
	return map[string]any{"query": query, "results": results, "count": len(results)}
}

func (t *WebSearch) fetchContent(ctx context.Context, url string) (any, error) {
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}

	status, content, err := t.fetcher.Fetch(ctx, url)
	if err != nil {
		return map[string]any{"url": url, "error": err.Error(), "fetched": false}, nil
	}

	preview := content
	if len(preview) > 500 {
		preview = preview[:500] + "..."
	}
	return map[string]any{
		"url":            url,
		"status_code":    status,
		"content_length": len(content),
		"preview":        preview,
	}, nil
}

func findDocumentation(technology string) map[string]any {
	lower := strings.ToLower(technology)
	docs := []map[string]any{
		{"technology": technology, "title": fmt.Sprintf("%s Official Documentation", technology), "url": fmt.Sprintf("https://docs.%s.com", lower)},
		{"technology": technology, "title": fmt.Sprintf("%s Tutorial", technology), "url": fmt.Sprintf("https://learn.%s.com", lower)},
	}
	return map[string]any{"technology": technology, "documentation": docs}
}
