package tooling

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// fakeFetcher serves canned HTML or a canned error.
type fakeFetcher struct {
	body []byte
	err  error
}

func (f *fakeFetcher) Fetch(string) ([]byte, error) { return f.body, f.err }

const samplePage = `<html><head><title>Sample</title><style>body{color:red}</style></head>
<body><script>alert(1)</script><article><h1>Heading</h1>
<p>First paragraph of the article body with enough words to matter.</p>
<p>Second paragraph continues the story.</p></article></body></html>`

func TestScrapeWebsiteExtractsContent(t *testing.T) {
	tool := NewScrapeWebsiteTool(&fakeFetcher{body: []byte(samplePage)}, nil)
	outcome := Invoke(context.Background(), tool, nil, json.RawMessage(`{"website":"https://example.test/story"}`))
	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Err)
	}
	data := outcome.Result.Data
	if !strings.Contains(data, "First paragraph") {
		t.Errorf("content missing article text: %q", data)
	}
	if strings.Contains(data, "alert(1)") || strings.Contains(data, "color:red") {
		t.Errorf("scripts/styles leaked into content: %q", data)
	}
}

func TestScrapeWebsiteFetchFailure(t *testing.T) {
	tool := NewScrapeWebsiteTool(&fakeFetcher{err: fmt.Errorf("connect: host unreachable")}, nil)
	outcome := Invoke(context.Background(), tool, nil, json.RawMessage(`{"website":"http://unreachable.invalid"}`))
	if outcome.Failed() {
		t.Fatalf("scrape failures are reported as result text, got %v", outcome.Err)
	}
	if !strings.Contains(outcome.Result.Data, "An error occurred while scraping:") {
		t.Errorf("Data = %q", outcome.Result.Data)
	}
}

func TestScrapeWebsiteRejectsNonHTTPURL(t *testing.T) {
	tool := NewScrapeWebsiteTool(&fakeFetcher{}, nil)
	outcome := Invoke(context.Background(), tool, nil, json.RawMessage(`{"website":"ftp://example.test"}`))
	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Err)
	}
	if !strings.Contains(outcome.Result.Data, "An error occurred while scraping:") {
		t.Errorf("Data = %q", outcome.Result.Data)
	}
}

func TestScrapeWebsiteEmptyPage(t *testing.T) {
	tool := NewScrapeWebsiteTool(&fakeFetcher{body: []byte("<html><body></body></html>")}, nil)
	outcome := Invoke(context.Background(), tool, nil, json.RawMessage(`{"website":"https://example.test/empty"}`))
	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Err)
	}
	if !strings.Contains(outcome.Result.Data, "An error occurred while scraping:") {
		t.Errorf("Data = %q", outcome.Result.Data)
	}
}

// fixedTokenizer returns a constant count.
type fixedTokenizer struct{ n int }

func (f fixedTokenizer) CountTokens(string) (int, error) { return f.n, nil }

func TestScrapeWebsiteTokenMetadata(t *testing.T) {
	tool := NewScrapeWebsiteTool(&fakeFetcher{body: []byte(samplePage)}, fixedTokenizer{n: 17})
	outcome := Invoke(context.Background(), tool, nil, json.RawMessage(`{"website":"https://example.test/story"}`))
	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Err)
	}
	if outcome.Result.Metadata["tokens"] != "17" {
		t.Errorf("tokens metadata = %q, want 17", outcome.Result.Metadata["tokens"])
	}
}

func TestScrapeWebsiteMissingArgument(t *testing.T) {
	tool := NewScrapeWebsiteTool(&fakeFetcher{}, nil)
	outcome := Invoke(context.Background(), tool, nil, json.RawMessage(`{}`))
	if !outcome.Failed() {
		t.Fatal("expected argument error")
	}
}
