// Package chat owns session state and orchestrates the per-message triage
// pipeline: detect language, generate or fall back, overlay, classify risk,
// append the turn. Every message produces a response; generation failure is
// absorbed here and never becomes a user-visible error.
package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saharanepal/saharabot/internal/analysis/language"
	"github.com/saharanepal/saharabot/internal/analysis/risk"
	"github.com/saharanepal/saharabot/internal/model/chat"
)

// Generator produces a reply from the bounded session context, or fails.
// A nil Generator means the backend is unavailable for the process lifetime
// and every turn takes the fallback path.
type Generator interface {
	GenerateReply(ctx context.Context, history []chat.Turn, userMessage string) (string, error)
}

// Responder is the deterministic fallback path. It must never fail.
type Responder interface {
	Respond(message string, lang language.Language) string
}

// Result is what one processed message returns to the command layer.
type Result struct {
	Response    string
	Urgency     risk.Urgency
	Categories  []risk.Category
	SuggestHelp bool
	TurnCount   int
}

// session is the mutable state behind one session id. Turn processing holds
// the session lock, so concurrent messages for the same id serialize and
// history stays append-only in arrival order.
type session struct {
	mu        sync.Mutex
	id        string
	createdAt time.Time
	turns     []chat.Turn
	turnCount int
}

// Service is the process-wide session store and turn orchestrator.
type Service struct {
	mu        sync.Mutex
	sessions  map[string]*session
	generator Generator
	responder Responder
}

// NewService bootstraps the in-memory chat service.
func NewService(generator Generator, responder Responder) *Service {
	return &Service{
		sessions:  make(map[string]*session),
		generator: generator,
		responder: responder,
	}
}

// Start creates the session if absent and returns its id, generating one
// from a high-resolution timestamp when the caller supplies none.
func (s *Service) Start(sessionID string) string {
	if sessionID == "" {
		sessionID = fmt.Sprintf("session_%d", time.Now().UnixNano())
	}
	s.resolveOrCreate(sessionID)
	return sessionID
}

// Chat processes one turn for the session, creating it if needed. An unknown
// session id is implicit creation, not a fault.
func (s *Service) Chat(ctx context.Context, sessionID, message string) Result {
	sess := s.resolveOrCreate(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	lang := language.Detect(message)
	response := s.generateOrFallback(ctx, sess, message, lang)
	assessment := risk.Classify(message)

	sess.turnCount++
	sess.turns = append(sess.turns, chat.Turn{
		ID:        uuid.NewString(),
		SessionID: sess.id,
		User:      message,
		Bot:       response,
		CreatedAt: time.Now().UTC(),
	})

	return Result{
		Response:    response,
		Urgency:     assessment.Urgency,
		Categories:  assessment.Categories,
		SuggestHelp: len(assessment.Categories) > 0,
		TurnCount:   sess.turnCount,
	}
}

// GetSession retrieves session metadata by identifier.
func (s *Service) GetSession(sessionID string) (chat.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, false
	}
	return chat.Session{ID: sess.id, CreatedAt: sess.createdAt}, true
}

// History returns a copy of the recorded turns for a session.
func (s *Service) History(sessionID string) ([]chat.Turn, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	copied := make([]chat.Turn, len(sess.turns))
	copy(copied, sess.turns)
	return copied, true
}

// generateOrFallback attempts one backend exchange and degrades to the
// responder on any failure, including a successful-but-empty reply. The
// failure kinds are deliberately not distinguished here.
func (s *Service) generateOrFallback(ctx context.Context, sess *session, message string, lang language.Language) string {
	if s.generator != nil {
		reply, err := s.generator.GenerateReply(ctx, sess.turns, message)
		if err == nil && strings.TrimSpace(reply) != "" {
			if lang == language.Nepali {
				return language.Bilingual(reply)
			}
			return reply
		}
		if err != nil {
			log.Printf("[chat] generation failed for session=%s, using fallback: %v", sess.id, err)
		}
	}
	return s.responder.Respond(message, lang)
}

func (s *Service) resolveOrCreate(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}

	sess := &session{
		id:        sessionID,
		createdAt: time.Now().UTC(),
		turns:     make([]chat.Turn, 0, 16),
	}
	s.sessions[sessionID] = sess
	return sess
}
