package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saharanepal/saharabot/internal/analysis/risk"
	"github.com/saharanepal/saharabot/internal/model/chat"
	"github.com/saharanepal/saharabot/internal/model/directory"
	chatService "github.com/saharanepal/saharabot/internal/service/chat"
	"github.com/saharanepal/saharabot/pkg/utils"
)

// Pinger reports whether the generation backend is reachable. A nil Pinger
// means the backend was never configured.
type Pinger interface {
	CheckRunning(ctx context.Context) error
}

// Handler exposes the chatbot command surface over HTTP.
type Handler struct {
	chatSvc   *chatService.Service
	directory directory.Store
	backend   Pinger
}

// New creates the chatbot handler.
func New(chatSvc *chatService.Service, dir directory.Store, backend Pinger) *Handler {
	return &Handler{
		chatSvc:   chatSvc,
		directory: dir,
		backend:   backend,
	}
}

// RegisterRoutes registers the chatbot command routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chatbot/start", h.handleStart)
	r.Post("/chatbot/message", h.handleMessage)
	r.Get("/chatbot/session/{sessionID}", h.handleSession)
	r.Get("/chatbot/resources", h.handleResources)
	r.Get("/chatbot/health", h.handleHealth)
}

type startRequest struct {
	SessionID string `json:"session_id"`
}

type startResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

// handleStart creates (or confirms) a session.
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload startRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := h.chatSvc.Start(payload.SessionID)
	utils.RespondJSON(w, http.StatusOK, startResponse{Success: true, SessionID: sessionID})
}

type messageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type messageResponse struct {
	Success            bool            `json:"success"`
	BotResponse        string          `json:"bot_response"`
	Urgency            risk.Urgency    `json:"urgency"`
	Categories         []risk.Category `json:"categories"`
	SuggestHelpCenters bool            `json:"suggest_help_centers"`
	ConversationLength int             `json:"conversation_length"`
}

// handleMessage processes one turn. A missing field is the only error that
// propagates to the caller; everything downstream degrades internally.
func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload messageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	result := h.chatSvc.Chat(r.Context(), payload.SessionID, payload.Message)

	utils.RespondJSON(w, http.StatusOK, messageResponse{
		Success:            true,
		BotResponse:        result.Response,
		Urgency:            result.Urgency,
		Categories:         result.Categories,
		SuggestHelpCenters: result.SuggestHelp,
		ConversationLength: result.TurnCount,
	})
}

type sessionResponse struct {
	Success bool         `json:"success"`
	Session chat.Session `json:"session"`
	Turns   []chat.Turn  `json:"turns"`
}

// handleSession returns session metadata and the recorded conversation.
func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, ok := h.chatSvc.GetSession(sessionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	turns, _ := h.chatSvc.History(sessionID)
	utils.RespondJSON(w, http.StatusOK, sessionResponse{
		Success: true,
		Session: sess,
		Turns:   turns,
	})
}

type resourcesResponse struct {
	Success          bool              `json:"success"`
	EmergencyNumbers map[string]string `json:"emergency_numbers"`
}

// handleResources returns a read-only snapshot of the emergency directory.
func (h *Handler) handleResources(w http.ResponseWriter, _ *http.Request) {
	numbers := make(map[string]string)
	for _, entry := range h.directory.List() {
		numbers[entry.Name] = entry.Contact
	}

	utils.RespondJSON(w, http.StatusOK, resourcesResponse{
		Success:          true,
		EmergencyNumbers: numbers,
	})
}

type healthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// handleHealth reports service liveness and backend reachability. The chat
// surface stays healthy either way; generation failures degrade to fallback.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	backend := "unconfigured"
	if h.backend != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.backend.CheckRunning(ctx); err != nil {
			backend = "unreachable"
		} else {
			backend = "available"
		}
	}

	utils.RespondJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Backend: backend,
	})
}
