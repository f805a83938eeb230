// Package ai drives response generation through the Ollama-backed chat model.
// It owns the system instruction and the bounded conversational context; it
// never decides what to do about failures, it only reports them.
package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/saharanepal/saharabot/internal/config"
	"github.com/saharanepal/saharabot/internal/model/chat"
	"github.com/saharanepal/saharabot/internal/model/directory"
)

// historyTurns caps how many prior turns are replayed into the model context.
// Each turn expands to a user/assistant pair, so context size stays bounded
// no matter how long the session runs.
const historyTurns = 5

// Service encapsulates AI-powered response generation.
type Service struct {
	chatModel    model.ChatModel
	chain        compose.Runnable[map[string]any, *schema.Message]
	systemPrompt string
}

// NewService creates the generation service from configuration.
func NewService(ctx context.Context, dir directory.Store, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return newService(ctx, chatModel, dir)
}

func newService(ctx context.Context, chatModel model.ChatModel, dir directory.Store) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile counselor chain: %w", err)
	}

	return &Service{
		chatModel:    chatModel,
		chain:        runnable,
		systemPrompt: counselorPrompt(dir.List()),
	}, nil
}

// GenerateReply runs one generation exchange for the new user message over
// the bounded session context. Any backend fault, malformed reply, or empty
// reply comes back as an error; the orchestrator degrades to the fallback
// responder and the error never reaches the end user.
func (s *Service) GenerateReply(ctx context.Context, history []chat.Turn, userMessage string) (string, error) {
	input := map[string]any{
		"system":  s.systemPrompt,
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run counselor chain: %w", err)
	}

	content := strings.TrimSpace(response.Content)
	if content == "" {
		return "", fmt.Errorf("counselor chain returned empty content")
	}

	log.Printf("[ai] generated reply, history=%d, length=%d", len(history), len(content))
	return content, nil
}

// GetChatModel returns the underlying chat model, for health probes.
func (s *Service) GetChatModel() model.ChatModel {
	return s.chatModel
}

// buildHistoryMessages expands the most recent turns, oldest first, into
// user/assistant message pairs.
func buildHistoryMessages(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	startIdx := 0
	if len(turns) > historyTurns {
		startIdx = len(turns) - historyTurns
	}

	history := make([]*schema.Message, 0, 2*(len(turns)-startIdx))
	for _, turn := range turns[startIdx:] {
		history = append(history, schema.UserMessage(turn.User))
		history = append(history, schema.AssistantMessage(turn.Bot, nil))
	}
	return history
}
