package tooling

import (
	"context"
	"encoding/json"
	"fmt"

	"toolstudio/internal/domain"
)

// Outcome is the determinate result of one invocation: exactly one of Result
// or Err is set. Either way the caller gets a single marker-prefixed line via
// Emit.
type Outcome struct {
	Result *domain.ToolResult
	Err    *domain.InvocationError
}

// Failed reports whether the invocation ended in any error kind.
func (o Outcome) Failed() bool { return o.Err != nil }

// Text returns the serialized payload for the output line: the result data on
// success, the error message otherwise.
func (o Outcome) Text() string {
	if o.Err != nil {
		return o.Err.Message
	}
	if o.Result == nil {
		return ""
	}
	return o.Result.Data
}

// emptyObject stands in for an absent payload so that tools with no declared
// parameters validate cleanly.
var emptyObject = json.RawMessage(`{}`)

// normalizeRaw treats nil/empty raw input as an empty JSON object.
func normalizeRaw(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return emptyObject
	}
	return raw
}

// ValidateConfiguration checks raw deployment configuration against the
// tool's declared configuration schema. A failure is a ConfigurationError and
// must abort the invocation before any side effect occurs.
func ValidateConfiguration(t domain.Tool, raw json.RawMessage) *domain.InvocationError {
	if err := ValidateAgainstSchema(normalizeRaw(raw), t.ConfigSchema()); err != nil {
		return domain.NewInvocationError(domain.ErrConfiguration,
			fmt.Sprintf("configuration validation failed: %v", err))
	}
	return nil
}

// ValidateArguments checks raw per-call arguments against the tool's declared
// argument schema. A failure is an ArgumentError and must abort the
// invocation before any side effect occurs.
func ValidateArguments(t domain.Tool, raw json.RawMessage) *domain.InvocationError {
	if err := ValidateAgainstSchema(normalizeRaw(raw), t.ArgsSchema()); err != nil {
		return domain.NewInvocationError(domain.ErrArgument,
			fmt.Sprintf("argument validation failed: %v", err))
	}
	return nil
}

// Invoke runs the full contract pass for one tool call: validate
// configuration, validate arguments, execute, and wrap every failure as a
// tagged outcome. It never returns a Go error and never panics; a panicking
// tool is converted to an ExecutionError so the caller always observes a
// determinate answer.
func Invoke(ctx context.Context, t domain.Tool, rawConfig, rawArgs json.RawMessage) Outcome {
	if invErr := ValidateConfiguration(t, rawConfig); invErr != nil {
		return Outcome{Err: invErr}
	}
	if invErr := ValidateArguments(t, rawArgs); invErr != nil {
		return Outcome{Err: invErr}
	}

	result, err := safeCall(ctx, t, normalizeRaw(rawConfig), normalizeRaw(rawArgs))
	if err != nil {
		return Outcome{Err: domain.NewInvocationError(domain.ErrExecution, err.Error())}
	}
	if result == nil {
		return Outcome{Err: domain.NewInvocationError(domain.ErrExecution,
			fmt.Sprintf("tool %q returned no result", t.Name()))}
	}
	return Outcome{Result: result}
}

// safeCall shields the pipeline from a panicking tool implementation.
func safeCall(ctx context.Context, t domain.Tool, config, args json.RawMessage) (result *domain.ToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("tool %q panicked: %v", t.Name(), r)
		}
	}()
	return t.Call(ctx, config, args)
}
