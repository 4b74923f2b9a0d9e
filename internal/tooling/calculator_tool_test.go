package tooling

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"toolstudio/internal/domain"
)

func TestCalculatorDivide(t *testing.T) {
	tool := &CalculatorTool{}
	outcome := Invoke(context.Background(), tool, nil, json.RawMessage(`{"a":4,"b":2,"op":"/"}`))
	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Err)
	}
	if outcome.Result.Data != "2.0" {
		t.Errorf("Data = %q, want 2.0", outcome.Result.Data)
	}

	var buf bytes.Buffer
	if err := Emit(&buf, outcome); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "tool_output 2.0\n" {
		t.Errorf("emitted %q", got)
	}
}

func TestCalculatorDivisionByZero(t *testing.T) {
	tool := &CalculatorTool{}
	outcome := Invoke(context.Background(), tool, nil, json.RawMessage(`{"a":4,"b":0,"op":"/"}`))
	if !outcome.Failed() {
		t.Fatal("expected failure")
	}
	if outcome.Err.Kind != domain.ErrExecution {
		t.Errorf("kind = %v, want execution", outcome.Err.Kind)
	}
	if !strings.Contains(outcome.Err.Message, "division by zero") {
		t.Errorf("message %q should indicate division by zero", outcome.Err.Message)
	}
}

func TestCalculatorOperations(t *testing.T) {
	cases := []struct {
		args string
		want string
	}{
		{`{"a":1,"b":2,"op":"+"}`, "3.0"},
		{`{"a":5,"b":2,"op":"-"}`, "3.0"},
		{`{"a":3,"b":4,"op":"*"}`, "12.0"},
		{`{"a":1,"b":8,"op":"/"}`, "0.125"},
	}
	tool := &CalculatorTool{}
	for _, tc := range cases {
		outcome := Invoke(context.Background(), tool, nil, json.RawMessage(tc.args))
		if outcome.Failed() {
			t.Errorf("%s: unexpected failure %v", tc.args, outcome.Err)
			continue
		}
		if outcome.Result.Data != tc.want {
			t.Errorf("%s: got %q, want %q", tc.args, outcome.Result.Data, tc.want)
		}
	}
}

func TestCalculatorRejectsUnknownOperator(t *testing.T) {
	tool := &CalculatorTool{}
	outcome := Invoke(context.Background(), tool, nil, json.RawMessage(`{"a":1,"b":2,"op":"%"}`))
	if !outcome.Failed() {
		t.Fatal("expected failure")
	}
	// The schema enum rejects it before Call ever runs.
	if outcome.Err.Kind != domain.ErrArgument {
		t.Errorf("kind = %v, want argument", outcome.Err.Kind)
	}
}

func TestCalculatorRejectsMissingField(t *testing.T) {
	tool := &CalculatorTool{}
	outcome := Invoke(context.Background(), tool, nil, json.RawMessage(`{"a":1,"op":"+"}`))
	if !outcome.Failed() || outcome.Err.Kind != domain.ErrArgument {
		t.Fatalf("expected argument error, got %+v", outcome)
	}
}

func TestCalculateDefaultBranch(t *testing.T) {
	// calculate is reachable with a bad operator only by bypassing the schema.
	if _, err := calculate(CalculatorArgs{A: 1, B: 2, Op: "^"}); err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestFormatDecimal(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{2, "2.0"},
		{-3, "-3.0"},
		{0.125, "0.125"},
		{0, "0.0"},
	}
	for _, tc := range cases {
		if got := formatDecimal(tc.in); got != tc.want {
			t.Errorf("formatDecimal(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
