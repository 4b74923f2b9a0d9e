package tooling

import (
	"context"
	"encoding/json"
	"fmt"

	"toolstudio/internal/domain"
)

// CustomerProfileConfig is empty: the lookup has no real backing store.
type CustomerProfileConfig struct{}

// CustomerProfileArgs identify the customer to look up.
type CustomerProfileArgs struct {
	CustomerID string `json:"customer_id" jsonschema:"minLength=1,description=Customer ID - The unique identifier for the customer"`
}

var profileUnmarshalFunc = json.Unmarshal

// CustomerProfileLookupTool returns a customer's account information and
// investment preferences. The profile data is a fixed placeholder; only the
// customer_id is echoed from the call.
type CustomerProfileLookupTool struct{}

func (t *CustomerProfileLookupTool) Name() string { return "customer_profile_lookup" }

func (t *CustomerProfileLookupTool) Description() string {
	return "Fetches customer profile data including account information and investment preferences " +
		"such as risk profile, investment horizon, and financial information. Returns sample data."
}

func (t *CustomerProfileLookupTool) ConfigSchema() string {
	return GenerateSchema(CustomerProfileConfig{})
}

func (t *CustomerProfileLookupTool) ArgsSchema() string { return GenerateSchema(CustomerProfileArgs{}) }

// Call echoes the customer ID into the placeholder profile.
func (t *CustomerProfileLookupTool) Call(_ context.Context, _ json.RawMessage, args json.RawMessage) (*domain.ToolResult, error) {
	var in CustomerProfileArgs
	if err := profileUnmarshalFunc(args, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	profile := map[string]any{
		"customer_id":        in.CustomerID,
		"name":               "John Doe",
		"risk_profile":       "Moderate",
		"investment_horizon": "Long-term",
		"max_drawdown":       "20%",
		"annual_income":      100000,
		"amount_to_invest":   100000,
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize profile: %w", err)
	}

	return &domain.ToolResult{
		Data:     string(data),
		Metadata: map[string]string{"customer_id": in.CustomerID, "source": "placeholder"},
	}, nil
}
