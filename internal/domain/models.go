package domain

// =============================================================================
// Core Configuration
// =============================================================================

// Config is the process-wide runner configuration, loaded once at startup and
// passed explicitly to the components that need it.
type Config struct {
	Infra       InfraConfig    `json:"infra"`
	Database    DatabaseConfig `json:"database"`
	ETL         ETLConfig      `json:"etl"`
	ManifestDir string         `json:"manifestDir,omitempty"` // Optional directory of tool manifests (tool.yaml files)
}

type InfraConfig struct {
	LogFormat string `json:"logFormat"` // "json" | "text"
	LogLevel  string `json:"logLevel"`
}

// DatabaseConfig describes the relational store used by the SQL tools and the
// ETL agent. URL schemes follow database/sql driver conventions:
// "file:" for local SQLite, "libsql://" for remote.
type DatabaseConfig struct {
	URL             string `json:"url"`
	DefaultDatabase string `json:"defaultDatabase,omitempty"`
}

// ETLConfig configures the extract/transform/load agent.
type ETLConfig struct {
	SourceDir string `json:"sourceDir"` // Directory of documents to ingest
	Table     string `json:"table"`     // Destination table name
	Schedule  string `json:"schedule,omitempty"`
	Watch     bool   `json:"watch,omitempty"`
}

// =============================================================================
// Tool Invocation Outcomes
// =============================================================================

// ToolResult is the output of a successful tool invocation. Data holds the
// serialized result: either a bare scalar ("2.0"), a JSON document, or plain
// text. Metadata carries advisory key/value pairs that never reach the
// machine-readable output line.
type ToolResult struct {
	Data     string
	Metadata map[string]string
}

// ErrorKind tags where an invocation failure surfaced.
type ErrorKind string

const (
	// ErrConfiguration: deployment-time input failed schema validation.
	ErrConfiguration ErrorKind = "configuration"
	// ErrArgument: per-call input failed schema validation.
	ErrArgument ErrorKind = "argument"
	// ErrExecution: the tool's business logic failed after validation passed.
	ErrExecution ErrorKind = "execution"
)

// InvocationError is a tagged failure outcome. It is reported as data on the
// output channel, never as a process crash.
type InvocationError struct {
	Kind    ErrorKind
	Message string
}

func (e *InvocationError) Error() string {
	return string(e.Kind) + " error: " + e.Message
}

// NewInvocationError builds a tagged error with the given kind and message.
func NewInvocationError(kind ErrorKind, message string) *InvocationError {
	return &InvocationError{Kind: kind, Message: message}
}
