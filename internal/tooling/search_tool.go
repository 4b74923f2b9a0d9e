package tooling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"toolstudio/internal/domain"
)

// serperEndpoint is the search API endpoint.
const serperEndpoint = "https://google.serper.dev/search"

// topResultsToReturn caps how many organic hits are passed back to the agent.
const topResultsToReturn = 3

// HTTPDoer abstracts an HTTP client for testability.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SearchInternetConfig carries the per-deployment API credential.
type SearchInternetConfig struct {
	SerperAPIKey string `json:"serper_api_key" jsonschema:"minLength=1,description=API key for the Serper search service"`
}

// SearchInternetArgs carry the query for one call.
type SearchInternetArgs struct {
	Query string `json:"query" jsonschema:"minLength=1,description=The search query to find relevant results"`
}

// SearchHit is one formatted organic result.
type SearchHit struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

var (
	searchUnmarshalFunc  = json.Unmarshal
	searchNewRequestFunc = http.NewRequestWithContext
	searchReadAllFunc    = io.ReadAll
)

// SearchInternetTool queries the Serper web-search API and returns the top
// organic results as structured JSON.
type SearchInternetTool struct {
	client   HTTPDoer
	endpoint string
}

// NewSearchInternetTool creates the tool. client may be nil, in which case a
// 30s-timeout default client is used.
func NewSearchInternetTool(client HTTPDoer) *SearchInternetTool {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &SearchInternetTool{client: client, endpoint: serperEndpoint}
}

func (s *SearchInternetTool) Name() string { return "search_internet" }

func (s *SearchInternetTool) Description() string {
	return "Useful to search the internet about a given topic and return relevant results."
}

func (s *SearchInternetTool) ConfigSchema() string { return GenerateSchema(SearchInternetConfig{}) }

func (s *SearchInternetTool) ArgsSchema() string { return GenerateSchema(SearchInternetArgs{}) }

// Call posts the query and formats the top hits.
func (s *SearchInternetTool) Call(ctx context.Context, config, args json.RawMessage) (*domain.ToolResult, error) {
	var cfg SearchInternetConfig
	if err := searchUnmarshalFunc(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	var in SearchInternetArgs
	if err := searchUnmarshalFunc(args, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	payload, err := json.Marshal(map[string]string{"q": in.Query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := searchNewRequestFunc(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-API-KEY", cfg.SerperAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := searchReadAllFunc(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	var parsed struct {
		Organic []map[string]any `json:"organic"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Organic == nil {
		return &domain.ToolResult{
			Data: "Sorry, I couldn't find anything about that. There might be an issue with your Serper API key.",
		}, nil
	}

	hits := make([]SearchHit, 0, topResultsToReturn)
	for _, result := range parsed.Organic {
		if len(hits) == topResultsToReturn {
			break
		}
		title, okTitle := result["title"].(string)
		link, okLink := result["link"].(string)
		snippet, okSnippet := result["snippet"].(string)
		if !okTitle || !okLink || !okSnippet {
			// Skip hits missing any expected key.
			continue
		}
		hits = append(hits, SearchHit{Title: title, Link: link, Snippet: snippet})
	}

	data, err := json.Marshal(hits)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize results: %w", err)
	}

	return &domain.ToolResult{
		Data:     string(data),
		Metadata: map[string]string{"query": in.Query, "hits": fmt.Sprintf("%d", len(hits))},
	}, nil
}
