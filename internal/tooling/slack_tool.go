package tooling

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"toolstudio/internal/domain"
)

// slackPostMessageEndpoint is the Slack Web API method used to deliver
// messages.
const slackPostMessageEndpoint = "https://slack.com/api/chat.postMessage"

// SlackMessageConfig carries the per-deployment API credential.
type SlackMessageConfig struct {
	SlackAPIToken string `json:"slack_api_token" jsonschema:"minLength=1,description=The Slack API token for authentication"`
}

// SlackMessageArgs describe one outgoing message.
type SlackMessageArgs struct {
	Recipient string `json:"recipient" jsonschema:"minLength=1,description=The Slack channel name (e.g. 'general' or '#general')"`
	Message   string `json:"message" jsonschema:"minLength=1,description=The message content to send"`
}

var (
	slackUnmarshalFunc  = json.Unmarshal
	slackNewRequestFunc = http.NewRequestWithContext
)

// SlackMessageTool posts a message to a Slack channel through the Web API.
type SlackMessageTool struct {
	client   HTTPDoer
	endpoint string
}

// NewSlackMessageTool creates the tool. client may be nil, in which case a
// 30s-timeout default client is used.
func NewSlackMessageTool(client HTTPDoer) *SlackMessageTool {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &SlackMessageTool{client: client, endpoint: slackPostMessageEndpoint}
}

func (t *SlackMessageTool) Name() string { return "slack_message" }

func (t *SlackMessageTool) Description() string {
	return "Posts a message to a specified Slack channel."
}

func (t *SlackMessageTool) ConfigSchema() string { return GenerateSchema(SlackMessageConfig{}) }

func (t *SlackMessageTool) ArgsSchema() string { return GenerateSchema(SlackMessageArgs{}) }

// Call delivers the message and reports the outcome as text.
func (t *SlackMessageTool) Call(ctx context.Context, config, args json.RawMessage) (*domain.ToolResult, error) {
	var cfg SlackMessageConfig
	if err := slackUnmarshalFunc(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	var in SlackMessageArgs
	if err := slackUnmarshalFunc(args, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	channel := strings.TrimPrefix(in.Recipient, "#")

	form := url.Values{}
	form.Set("channel", channel)
	form.Set("text", in.Message)

	req, err := slackNewRequestFunc(ctx, http.MethodPost, t.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SlackAPIToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode slack response: %w", err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("slack API error: %s", parsed.Error)
	}

	return &domain.ToolResult{
		Data:     fmt.Sprintf("Message sent to %s.", in.Recipient),
		Metadata: map[string]string{"recipient": in.Recipient},
	}, nil
}
