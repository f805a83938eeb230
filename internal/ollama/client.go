// Package ollama implements an eino chat model backed by a local Ollama
// server. The exchange is a single blocking request with a bounded timeout;
// every failure mode surfaces as an error for the caller to degrade on.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ErrorType categorizes client errors. The chat pipeline treats every kind
// identically by falling back; the distinction exists for logs and health
// reporting only.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeBadStatus
	ErrTypeInvalidResponse
	ErrTypeEmptyReply
	ErrTypeUnsupported
)

// ClientError represents an error from the Ollama client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for easy checking.
var (
	ErrNotRunning = &ClientError{Type: ErrTypeNotRunning, Message: "ollama is not reachable"}
	ErrTimeout    = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrEmptyReply = &ClientError{Type: ErrTypeEmptyReply, Message: "model returned an empty reply"}
)

// Config holds the connection and generation parameters for the client.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://127.0.0.1:11434).
	BaseURL string

	// Model is the model identifier sent with every request.
	Model string

	// Timeout bounds the full request/response exchange (default: 30s).
	Timeout time.Duration

	// Temperature and NumPredict form the fixed generation configuration.
	Temperature float64
	NumPredict  int
}

// DefaultConfig returns the reference generation policy: the local endpoint,
// a 30 second wait bound, and a short, moderately sampled reply.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "http://127.0.0.1:11434",
		Model:       "llama3.2:3b",
		Timeout:     30 * time.Second,
		Temperature: 0.7,
		NumPredict:  150,
	}
}

// Client speaks the Ollama chat API and satisfies eino's model.ChatModel so
// the generation chain can drive it. Safe for concurrent use.
type Client struct {
	config     *Config
	httpClient *http.Client
}

var _ model.ChatModel = (*Client)(nil)

// NewClient creates a client, filling zero config values with defaults.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Temperature == 0 {
		config.Temperature = defaults.Temperature
	}
	if config.NumPredict == 0 {
		config.NumPredict = defaults.NumPredict
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// CheckRunning verifies that the Ollama server is reachable.
func (c *Client) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeBadStatus,
			Message: "unexpected status from ollama: " + resp.Status,
		}
	}
	return nil
}

// Generate sends one non-streaming chat exchange and returns the assistant
// message. Timeout, transport fault, non-success status, malformed body, and
// a successful-but-empty reply all fail the call; there is no retry.
func (c *Client) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	reqBody := ChatRequest{
		Model:    c.config.Model,
		Messages: toWireMessages(input),
		Stream:   false,
		Options: &Options{
			Temperature: c.config.Temperature,
			NumPredict:  c.config.NumPredict,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return nil, &ClientError{Type: ErrTypeBadStatus, Message: apiErr.Error}
		}
		return nil, &ClientError{Type: ErrTypeBadStatus, Message: "chat request failed: " + resp.Status}
	}

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	content := strings.TrimSpace(result.Message.Content)
	if content == "" {
		return nil, ErrEmptyReply
	}

	return schema.AssistantMessage(content, nil), nil
}

// Stream is not supported: the response contract is atomic, full reply or
// failure, with no partial output exposed.
func (c *Client) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, &ClientError{Type: ErrTypeUnsupported, Message: "streaming is not supported"}
}

// BindTools is not supported; the counselor never calls tools.
func (c *Client) BindTools([]*schema.ToolInfo) error {
	return &ClientError{Type: ErrTypeUnsupported, Message: "tool calling is not supported"}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *Config {
	return c.config
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return false
}

// IsNotRunning checks if an error indicates Ollama is unreachable.
func IsNotRunning(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotRunning
	}
	return false
}

func toWireMessages(input []*schema.Message) []Message {
	messages := make([]Message, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		messages = append(messages, Message{
			Role:    roleString(msg.Role),
			Content: msg.Content,
		})
	}
	return messages
}

func roleString(role schema.RoleType) string {
	switch role {
	case schema.System:
		return "system"
	case schema.Assistant:
		return "assistant"
	case schema.Tool:
		return "tool"
	default:
		return "user"
	}
}
