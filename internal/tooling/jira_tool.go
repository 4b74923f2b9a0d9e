package tooling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"toolstudio/internal/domain"
)

// jiraAPIPath is the REST API prefix appended to the configured server URL.
const jiraAPIPath = "/rest/api/2"

// JiraConfig carries the per-deployment Jira server and credentials.
type JiraConfig struct {
	JiraURL   string `json:"jira_url" jsonschema:"minLength=1,description=Base URL of the Jira server"`
	AuthToken string `json:"auth_token" jsonschema:"minLength=1,description=API token used for basic authentication"`
	UserEmail string `json:"user_email" jsonschema:"minLength=1,description=Account email paired with the API token"`
}

// JiraArgs describe one Jira operation. Which optional fields are required
// depends on the action; a missing one is reported as result text.
type JiraArgs struct {
	ActionType  string         `json:"action_type" jsonschema:"enum=search,enum=create,enum=update,enum=delete,description=Action type specifying the operation to perform on Jira"`
	QueryParams string         `json:"query_params,omitempty" jsonschema:"description=JQL query string for filtering Jira data"`
	IssueData   map[string]any `json:"issue_data,omitempty" jsonschema:"description=Fields for creating a Jira issue"`
	IssueID     string         `json:"issue_id,omitempty" jsonschema:"description=ID of the issue to update or delete"`
	UpdateData  map[string]any `json:"update_data,omitempty" jsonschema:"description=Fields for updating a Jira issue under an outer 'fields' key"`
}

var (
	jiraUnmarshalFunc  = json.Unmarshal
	jiraNewRequestFunc = http.NewRequestWithContext
	jiraReadAllFunc    = io.ReadAll
)

// JiraIntegrationTool runs search/create/update/delete operations against a
// Jira server's REST API. Service failures are reported as result text so the
// calling agent can read them inline.
type JiraIntegrationTool struct {
	client HTTPDoer
}

// NewJiraIntegrationTool creates the tool. client may be nil, in which case a
// 30s-timeout default client is used.
func NewJiraIntegrationTool(client HTTPDoer) *JiraIntegrationTool {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &JiraIntegrationTool{client: client}
}

func (t *JiraIntegrationTool) Name() string { return "jira_integration" }

func (t *JiraIntegrationTool) Description() string {
	return "Executes specified actions on Jira such as searching, creating, updating, and deleting issues."
}

func (t *JiraIntegrationTool) ConfigSchema() string { return GenerateSchema(JiraConfig{}) }

func (t *JiraIntegrationTool) ArgsSchema() string { return GenerateSchema(JiraArgs{}) }

// Call dispatches on the action type.
func (t *JiraIntegrationTool) Call(ctx context.Context, config, args json.RawMessage) (*domain.ToolResult, error) {
	var cfg JiraConfig
	if err := jiraUnmarshalFunc(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	var in JiraArgs
	if err := jiraUnmarshalFunc(args, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	var text string
	var err error
	switch in.ActionType {
	case "search":
		if in.QueryParams == "" {
			text = "Error: 'query_params' is required for 'search' action."
		} else {
			text, err = t.search(ctx, cfg, in.QueryParams)
		}
	case "create":
		if len(in.IssueData) == 0 {
			text = "Error: 'issue_data' is required for 'create' action."
		} else {
			text, err = t.create(ctx, cfg, in.IssueData)
		}
	case "update":
		if in.IssueID == "" || len(in.UpdateData) == 0 {
			text = "Error: Both 'issue_id' and 'update_data' are required for 'update' action."
		} else {
			text, err = t.update(ctx, cfg, in.IssueID, in.UpdateData)
		}
	case "delete":
		if in.IssueID == "" {
			text = "Error: 'issue_id' is required for 'delete' action."
		} else {
			text, err = t.delete(ctx, cfg, in.IssueID)
		}
	default:
		// Unreachable through the schema enum.
		text = "Invalid action type. Available actions are 'search', 'create', 'update', 'delete'."
	}
	if err != nil {
		text = fmt.Sprintf("Failed to perform %s action: %v", in.ActionType, err)
	}

	return &domain.ToolResult{
		Data:     text,
		Metadata: map[string]string{"action": in.ActionType},
	}, nil
}

func (t *JiraIntegrationTool) search(ctx context.Context, cfg JiraConfig, jql string) (string, error) {
	endpoint := strings.TrimRight(cfg.JiraURL, "/") + jiraAPIPath + "/search?jql=" + url.QueryEscape(jql)
	body, err := t.do(ctx, cfg, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Issues []map[string]any `json:"issues"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}
	if len(parsed.Issues) == 0 {
		return "No issues found for the provided query.", nil
	}
	data, err := json.Marshal(parsed.Issues)
	if err != nil {
		return "", fmt.Errorf("failed to serialize issues: %w", err)
	}
	return string(data), nil
}

func (t *JiraIntegrationTool) create(ctx context.Context, cfg JiraConfig, fields map[string]any) (string, error) {
	endpoint := strings.TrimRight(cfg.JiraURL, "/") + jiraAPIPath + "/issue"
	payload, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return "", fmt.Errorf("failed to encode issue data: %w", err)
	}
	body, err := t.do(ctx, cfg, http.MethodPost, endpoint, payload)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode create response: %w", err)
	}
	return fmt.Sprintf("Issue created successfully: %s", parsed.Key), nil
}

func (t *JiraIntegrationTool) update(ctx context.Context, cfg JiraConfig, issueID string, updateData map[string]any) (string, error) {
	endpoint := strings.TrimRight(cfg.JiraURL, "/") + jiraAPIPath + "/issue/" + url.PathEscape(issueID)
	fields, _ := updateData["fields"].(map[string]any)
	payload, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return "", fmt.Errorf("failed to encode update data: %w", err)
	}
	if _, err := t.do(ctx, cfg, http.MethodPut, endpoint, payload); err != nil {
		return "", err
	}
	return fmt.Sprintf("Issue %s updated successfully.", issueID), nil
}

func (t *JiraIntegrationTool) delete(ctx context.Context, cfg JiraConfig, issueID string) (string, error) {
	endpoint := strings.TrimRight(cfg.JiraURL, "/") + jiraAPIPath + "/issue/" + url.PathEscape(issueID)
	if _, err := t.do(ctx, cfg, http.MethodDelete, endpoint, nil); err != nil {
		return "", err
	}
	return fmt.Sprintf("Issue %s deleted successfully.", issueID), nil
}

// do performs one authenticated API call and returns the response body.
func (t *JiraIntegrationTool) do(ctx context.Context, cfg JiraConfig, method, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := jiraNewRequestFunc(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(cfg.UserEmail, cfg.AuthToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := jiraReadAllFunc(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
