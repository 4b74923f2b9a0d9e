package tooling

import (
	"fmt"

	"toolstudio/internal/domain"
)

// RegisterBuiltins registers the example tool set on r. tokenizer may be nil
// when token metadata is unavailable (e.g. the encoding could not be loaded).
func RegisterBuiltins(r *Registry, tokenizer domain.Tokenizer) error {
	tools := []domain.Tool{
		&CalculatorTool{},
		&DirectoryReadTool{},
		NewScrapeWebsiteTool(NewDefaultFetcher(), tokenizer),
		NewSearchInternetTool(nil),
		&CustomerProfileLookupTool{},
		&PortfolioLookupTool{},
		&SQLQueryTool{},
		&DBInsertTool{},
		NewFileReadTool(tokenizer),
		NewSlackMessageTool(nil),
		NewJiraIntegrationTool(nil),
	}
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return fmt.Errorf("register builtins: %w", err)
		}
	}
	return nil
}
