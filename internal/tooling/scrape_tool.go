package tooling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"toolstudio/internal/domain"
)

// browserUserAgent mimics a desktop browser; several sites refuse the Go
// default agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/96.0.4664.110 Safari/537.36"

// HTTPFetcher abstracts HTTP GET requests for testability.
type HTTPFetcher interface {
	Fetch(url string) ([]byte, error)
}

// DefaultFetcher fetches pages with a plain HTTP client and a browser
// User-Agent, failing on non-2xx status codes.
type DefaultFetcher struct {
	Client *http.Client
}

// NewDefaultFetcher returns a fetcher with a 30s timeout.
func NewDefaultFetcher() *DefaultFetcher {
	return &DefaultFetcher{Client: &http.Client{Timeout: 30 * time.Second}}
}

// Fetch performs the GET and returns the raw body.
func (f *DefaultFetcher) Fetch(pageURL string) ([]byte, error) {
	req, err := scrapeHTTPNewRequestFunc(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return scrapeReadAllFunc(resp.Body)
}

// ScrapeConfig is empty: scraping needs no deployment configuration.
type ScrapeConfig struct{}

// ScrapeArgs name the website to fetch.
type ScrapeArgs struct {
	Website string `json:"website" jsonschema:"minLength=1,description=The website URL to search or fetch data from"`
}

// Package-level injectable function vars. Tests override these to cover
// error paths that are unreachable with natural inputs.
var (
	scrapeUnmarshalFunc      = json.Unmarshal
	scrapeGoQueryParseFunc   = goquery.NewDocumentFromReader
	scrapeURLParseFunc       = url.Parse
	scrapeHTTPNewRequestFunc = http.NewRequest
	scrapeRenderHTMLFunc     = func(doc *goquery.Document) (string, error) { return doc.Html() }
	scrapeReadabilityFunc    = func(input io.Reader, pageURL *url.URL) (readability.Article, error) {
		return readability.FromReader(input, pageURL)
	}
	scrapeReadAllFunc = io.ReadAll
)

// ScrapeWebsiteTool fetches a URL, strips script/style tags with goquery, and
// extracts the main article content with go-readability. Fetch and parse
// failures are reported as result text beginning "An error occurred while
// scraping:" so the calling agent can read them inline.
type ScrapeWebsiteTool struct {
	fetcher   HTTPFetcher
	tokenizer domain.Tokenizer
}

// NewScrapeWebsiteTool creates the tool. tokenizer may be nil; when present,
// the result carries a token-count metadata entry.
func NewScrapeWebsiteTool(fetcher HTTPFetcher, tokenizer domain.Tokenizer) *ScrapeWebsiteTool {
	return &ScrapeWebsiteTool{fetcher: fetcher, tokenizer: tokenizer}
}

func (s *ScrapeWebsiteTool) Name() string { return "scrape_website" }

func (s *ScrapeWebsiteTool) Description() string {
	return "Fetches and returns the main text content of a website."
}

func (s *ScrapeWebsiteTool) ConfigSchema() string { return GenerateSchema(ScrapeConfig{}) }

func (s *ScrapeWebsiteTool) ArgsSchema() string { return GenerateSchema(ScrapeArgs{}) }

// Call fetches and extracts the page text.
func (s *ScrapeWebsiteTool) Call(_ context.Context, _ json.RawMessage, args json.RawMessage) (*domain.ToolResult, error) {
	var in ScrapeArgs
	if err := scrapeUnmarshalFunc(args, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	if !strings.HasPrefix(in.Website, "http://") && !strings.HasPrefix(in.Website, "https://") {
		return scrapeErrorResult(fmt.Errorf("invalid URL %q: must start with http:// or https://", in.Website)), nil
	}

	rawHTML, err := s.fetcher.Fetch(in.Website)
	if err != nil {
		return scrapeErrorResult(err), nil
	}

	content, err := extractPageContent(rawHTML, in.Website)
	if err != nil {
		return scrapeErrorResult(err), nil
	}

	metadata := map[string]string{"url": in.Website, "source": "scrape_website"}
	if s.tokenizer != nil {
		if tokens, err := s.tokenizer.CountTokens(content); err == nil {
			metadata["tokens"] = strconv.Itoa(tokens)
		}
	}

	return &domain.ToolResult{Data: content, Metadata: metadata}, nil
}

// scrapeErrorResult wraps a scraping failure as readable result text.
func scrapeErrorResult(err error) *domain.ToolResult {
	return &domain.ToolResult{Data: fmt.Sprintf("An error occurred while scraping: %v", err)}
}

// extractPageContent strips scripts/styles and extracts readable content,
// falling back to plain text when readability cannot identify an article.
func extractPageContent(rawHTML []byte, sourceURL string) (string, error) {
	cleanedHTML, err := stripScriptsAndStyles(rawHTML)
	if err != nil {
		return "", fmt.Errorf("failed to clean HTML: %w", err)
	}

	content, err := extractReadableContent(cleanedHTML, sourceURL)
	if err == nil && strings.TrimSpace(content) != "" {
		return strings.TrimSpace(content), nil
	}

	text, err := extractPlainText(cleanedHTML)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no content found at URL")
	}
	return strings.TrimSpace(text), nil
}

// stripScriptsAndStyles removes script, style, and noscript tags with goquery.
func stripScriptsAndStyles(rawHTML []byte) (string, error) {
	doc, err := scrapeGoQueryParseFunc(bytes.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Each(func(i int, sel *goquery.Selection) {
		sel.Remove()
	})

	return scrapeRenderHTMLFunc(doc)
}

// extractReadableContent runs go-readability over the cleaned HTML.
func extractReadableContent(cleanedHTML, sourceURL string) (string, error) {
	parsedURL, err := scrapeURLParseFunc(sourceURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	article, err := scrapeReadabilityFunc(strings.NewReader(cleanedHTML), parsedURL)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}
	return article.TextContent, nil
}

// extractPlainText flattens the cleaned HTML to whitespace-normalized text.
func extractPlainText(cleanedHTML string) (string, error) {
	doc, err := scrapeGoQueryParseFunc(strings.NewReader(cleanedHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
