package tooling

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputKey is the fixed marker token written before the serialized outcome.
// Orchestrators scan process output for a line starting with this token;
// everything else printed by a tool is advisory log output.
const OutputKey = "tool_output"

// compactFunc compacts a JSON document. Package-level so tests can inject a
// failure to cover the fallback path.
var compactFunc = func(dst *bytes.Buffer, src []byte) error {
	return json.Compact(dst, src)
}

// Emit writes the outcome as exactly one marker-prefixed line to w. Success
// payloads that are already valid JSON are written compact as-is; anything
// else (plain text, error messages) is written as a JSON string so the line
// stays machine-parseable and newline-free.
func Emit(w io.Writer, o Outcome) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", OutputKey, serializePayload(o)); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	return nil
}

// serializePayload renders the outcome as a single-line JSON value. Error
// messages are always quoted so the caller can distinguish them by content.
func serializePayload(o Outcome) string {
	text := o.Text()
	if !o.Failed() && json.Valid([]byte(text)) {
		var buf bytes.Buffer
		if err := compactFunc(&buf, []byte(text)); err == nil && !strings.ContainsAny(buf.String(), "\n\r") {
			return buf.String()
		}
	}
	quoted, err := json.Marshal(text)
	if err != nil {
		// json.Marshal of a string cannot fail; keep a deterministic fallback.
		return `""`
	}
	return string(quoted)
}
