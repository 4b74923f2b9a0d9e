package tooling

import (
	"context"
	"encoding/json"
	"fmt"

	"toolstudio/internal/domain"
)

// PortfolioLookupConfig is empty: the lookup has no real backing store.
type PortfolioLookupConfig struct{}

// PortfolioLookupArgs identify the customer whose portfolio to fetch.
type PortfolioLookupArgs struct {
	CustomerID string `json:"customer_id" jsonschema:"minLength=1,description=Customer ID - The unique identifier for the customer"`
}

var portfolioUnmarshalFunc = json.Unmarshal

// PortfolioLookupTool fetches portfolio data (stocks, bonds, cash holdings)
// for a customer ID. Returns fixed placeholder data.
type PortfolioLookupTool struct{}

func (t *PortfolioLookupTool) Name() string { return "portfolio_lookup" }

func (t *PortfolioLookupTool) Description() string {
	return "Fetches portfolio data including stocks, bonds and cash holdings for a given customer ID. Returns sample data."
}

func (t *PortfolioLookupTool) ConfigSchema() string { return GenerateSchema(PortfolioLookupConfig{}) }

func (t *PortfolioLookupTool) ArgsSchema() string { return GenerateSchema(PortfolioLookupArgs{}) }

// Call returns the placeholder portfolio for the given customer.
func (t *PortfolioLookupTool) Call(_ context.Context, _ json.RawMessage, args json.RawMessage) (*domain.ToolResult, error) {
	var in PortfolioLookupArgs
	if err := portfolioUnmarshalFunc(args, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	portfolio := map[string]any{
		"portfolio_makeup": map[string]any{
			"stocks":  []string{"AAPL", "GOOGL", "MSFT", "ADBE"},
			"percent": []string{"0.2", "0.4", "0.3", "0.1"},
		},
		"total_value": 100000,
	}

	data, err := json.Marshal(portfolio)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize portfolio: %w", err)
	}

	return &domain.ToolResult{
		Data:     string(data),
		Metadata: map[string]string{"customer_id": in.CustomerID, "source": "placeholder"},
	}, nil
}
