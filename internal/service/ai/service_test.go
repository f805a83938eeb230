package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	chatModel "github.com/saharanepal/saharabot/internal/model/chat"
	"github.com/saharanepal/saharabot/internal/model/directory"
)

// captureModel records the rendered prompt the chain hands to the backend.
type captureModel struct {
	received []*schema.Message
	reply    *schema.Message
	err      error
}

func (m *captureModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.received = input
	if m.err != nil {
		return nil, m.err
	}
	return m.reply, nil
}

func (m *captureModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported in tests")
}

func (m *captureModel) BindTools([]*schema.ToolInfo) error { return nil }

func newTestService(t *testing.T, backend *captureModel) *Service {
	t.Helper()
	svc, err := newService(context.Background(), backend, directory.NewMemoryStore(directory.Seed()))
	if err != nil {
		t.Fatalf("newService err: %v", err)
	}
	return svc
}

func makeTurns(n int) []chatModel.Turn {
	turns := make([]chatModel.Turn, 0, n)
	for i := 0; i < n; i++ {
		turns = append(turns, chatModel.Turn{
			User: fmt.Sprintf("user message %d", i),
			Bot:  fmt.Sprintf("bot reply %d", i),
		})
	}
	return turns
}

func TestGenerateReplyPromptShape(t *testing.T) {
	backend := &captureModel{reply: schema.AssistantMessage("Here to help.", nil)}
	svc := newTestService(t, backend)

	reply, err := svc.GenerateReply(context.Background(), makeTurns(2), "what can I do?")
	if err != nil {
		t.Fatalf("GenerateReply err: %v", err)
	}
	if reply != "Here to help." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	// system + 2 turns expanded to pairs + query
	if len(backend.received) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(backend.received))
	}
	if backend.received[0].Role != schema.System {
		t.Fatalf("first message must be the system instruction, got %s", backend.received[0].Role)
	}
	if !strings.Contains(backend.received[0].Content, "SaharaBot") {
		t.Fatal("system instruction missing persona")
	}
	if !strings.Contains(backend.received[0].Content, "Police: 100") {
		t.Fatal("system instruction missing emergency contacts")
	}
	last := backend.received[len(backend.received)-1]
	if last.Role != schema.User || last.Content != "what can I do?" {
		t.Fatalf("query must come last, got %s %q", last.Role, last.Content)
	}
}

func TestGenerateReplyBoundsHistory(t *testing.T) {
	backend := &captureModel{reply: schema.AssistantMessage("ok", nil)}
	svc := newTestService(t, backend)

	if _, err := svc.GenerateReply(context.Background(), makeTurns(9), "latest"); err != nil {
		t.Fatalf("GenerateReply err: %v", err)
	}

	// system + 5 most recent turns as pairs + query
	if len(backend.received) != 12 {
		t.Fatalf("expected 12 messages, got %d", len(backend.received))
	}
	oldest := backend.received[1]
	if oldest.Content != "user message 4" {
		t.Fatalf("history window must keep the most recent turns, got %q", oldest.Content)
	}
}

func TestGenerateReplyEmptyHistory(t *testing.T) {
	backend := &captureModel{reply: schema.AssistantMessage("hi", nil)}
	svc := newTestService(t, backend)

	if _, err := svc.GenerateReply(context.Background(), nil, "hello"); err != nil {
		t.Fatalf("GenerateReply err: %v", err)
	}
	if len(backend.received) != 2 {
		t.Fatalf("expected system + query only, got %d messages", len(backend.received))
	}
}

func TestGenerateReplyPropagatesBackendFailure(t *testing.T) {
	backend := &captureModel{err: errors.New("connection refused")}
	svc := newTestService(t, backend)

	if _, err := svc.GenerateReply(context.Background(), nil, "hello"); err == nil {
		t.Fatal("expected error from failing backend")
	}
}

func TestGenerateReplyRejectsBlankContent(t *testing.T) {
	backend := &captureModel{reply: schema.AssistantMessage("   \n", nil)}
	svc := newTestService(t, backend)

	if _, err := svc.GenerateReply(context.Background(), nil, "hello"); err == nil {
		t.Fatal("expected error for blank reply")
	}
}

func TestGenerateReplyTrimsWhitespace(t *testing.T) {
	backend := &captureModel{reply: schema.AssistantMessage("  trimmed reply \n", nil)}
	svc := newTestService(t, backend)

	reply, err := svc.GenerateReply(context.Background(), nil, "hello")
	if err != nil {
		t.Fatalf("GenerateReply err: %v", err)
	}
	if reply != "trimmed reply" {
		t.Fatalf("expected trimmed reply, got %q", reply)
	}
}
