package tooling

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"toolstudio/internal/domain"
)

// CalculatorConfig is empty: the calculator needs no deployment configuration.
type CalculatorConfig struct{}

// CalculatorArgs are the per-call arguments for one arithmetic operation.
type CalculatorArgs struct {
	A  float64 `json:"a" jsonschema:"description=first number"`
	B  float64 `json:"b" jsonschema:"description=second number"`
	Op string  `json:"op" jsonschema:"enum=+,enum=-,enum=*,enum=/,description=operator"`
}

// calcUnmarshalFunc is the JSON unmarshaler used by Call. Package-level so
// tests can inject a failing unmarshaler to cover the defense-in-depth path.
var calcUnmarshalFunc = json.Unmarshal

// CalculatorTool performs basic arithmetic. Division by zero is not allowed
// and surfaces as an execution error.
type CalculatorTool struct{}

func (c *CalculatorTool) Name() string { return "calculator" }

func (c *CalculatorTool) Description() string {
	return "Performs basic arithmetic (+, -, *, /) on two numbers. Division by zero is not allowed."
}

func (c *CalculatorTool) ConfigSchema() string { return GenerateSchema(CalculatorConfig{}) }

func (c *CalculatorTool) ArgsSchema() string { return GenerateSchema(CalculatorArgs{}) }

// Call runs the arithmetic on schema-validated arguments.
func (c *CalculatorTool) Call(_ context.Context, _ json.RawMessage, args json.RawMessage) (*domain.ToolResult, error) {
	var in CalculatorArgs
	if err := calcUnmarshalFunc(args, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	value, err := calculate(in)
	if err != nil {
		return nil, err
	}

	return &domain.ToolResult{
		Data: formatDecimal(value),
		Metadata: map[string]string{
			"op": in.Op,
			"a":  formatDecimal(in.A),
			"b":  formatDecimal(in.B),
		},
	}, nil
}

// calculate is separated from Call so every branch (including the default
// case) can be unit-tested without bypassing schema validation.
func calculate(in CalculatorArgs) (float64, error) {
	switch in.Op {
	case "+":
		return in.A + in.B, nil
	case "-":
		return in.A - in.B, nil
	case "*":
		return in.A * in.B, nil
	case "/":
		if in.B == 0 {
			return 0, fmt.Errorf("division by zero is not allowed")
		}
		return in.A / in.B, nil
	default:
		return 0, fmt.Errorf("unknown operator: %s", in.Op)
	}
}

// formatDecimal renders a float the way the orchestrator expects: integral
// values keep one decimal place ("2.0"), everything else prints minimally.
func formatDecimal(v float64) string {
	if math.Trunc(v) == v && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
