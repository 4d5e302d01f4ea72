package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/zenquest/pkg/quest"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StartQuestRequest is the body for creating a quest session. Both
// fields are optional: a missing session id is minted server-side.
type StartQuestRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Name      string `json:"name,omitempty"`
}

// ActionRequest is the body for action and riddle-answer submissions.
type ActionRequest struct {
	Input string `json:"input"`
}

// QuestHandler serves the quest session API.
type QuestHandler struct {
	engine *quest.Engine
	logger *slog.Logger
}

func NewQuestHandler(engine *quest.Engine, logger *slog.Logger) *QuestHandler {
	return &QuestHandler{
		engine: engine,
		logger: logger,
	}
}

// ServeHTTP routes quest session requests.
// Routes:
// POST /v1/quests                - start a new quest
// GET /v1/quests/{id}            - quest status
// DELETE /v1/quests/{id}         - interrupt the quest
// POST /v1/quests/{id}/actions   - submit an action or riddle answer
// POST /v1/quests/{id}/meditate  - meditate
func (h *QuestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/quests"), "/")
	var parts []string
	if path != "" {
		parts = strings.Split(path, "/")
	}

	switch {
	case len(parts) == 0:
		if r.Method != http.MethodPost {
			h.methodNotAllowed(w, r, "POST")
			return
		}
		h.handleStart(w, r)

	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.handleStatus(w, r, parts[0])
		case http.MethodDelete:
			h.handleInterrupt(w, r, parts[0])
		default:
			h.methodNotAllowed(w, r, "GET, DELETE")
		}

	case len(parts) == 2 && parts[1] == "actions":
		if r.Method != http.MethodPost {
			h.methodNotAllowed(w, r, "POST")
			return
		}
		h.handleAction(w, r, parts[0])

	case len(parts) == 2 && parts[1] == "meditate":
		if r.Method != http.MethodPost {
			h.methodNotAllowed(w, r, "POST")
			return
		}
		h.handleMeditate(w, r, parts[0])

	default:
		w.WriteHeader(http.StatusNotFound)
		if err := json.NewEncoder(w).Encode(ErrorResponse{
			Error: "Unknown quest endpoint.",
		}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
	}
}

func (h *QuestHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartQuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		if err := json.NewEncoder(w).Encode(ErrorResponse{
			Error: "Invalid JSON in request body",
		}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	reply, err := h.engine.StartQuest(r.Context(), req.SessionID, req.Name)
	if err != nil {
		h.respondEngineError(w, err, req.SessionID)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		h.logger.Error("Failed to encode quest reply", "error", err)
	}
}

func (h *QuestHandler) handleAction(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		if err := json.NewEncoder(w).Encode(ErrorResponse{
			Error: "Invalid JSON in request body",
		}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	if strings.TrimSpace(req.Input) == "" {
		w.WriteHeader(http.StatusBadRequest)
		if err := json.NewEncoder(w).Encode(ErrorResponse{
			Error: "Action cannot be empty.",
		}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	reply, err := h.engine.Act(r.Context(), sessionID, req.Input)
	if err != nil {
		h.respondEngineError(w, err, sessionID)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		h.logger.Error("Failed to encode quest reply", "error", err)
	}
}

func (h *QuestHandler) handleMeditate(w http.ResponseWriter, r *http.Request, sessionID string) {
	reply, err := h.engine.Meditate(r.Context(), sessionID)
	if err != nil {
		h.respondEngineError(w, err, sessionID)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		h.logger.Error("Failed to encode quest reply", "error", err)
	}
}

func (h *QuestHandler) handleStatus(w http.ResponseWriter, r *http.Request, sessionID string) {
	status, err := h.engine.Status(r.Context(), sessionID)
	if err != nil {
		h.respondEngineError(w, err, sessionID)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.logger.Error("Failed to encode quest status", "error", err)
	}
}

func (h *QuestHandler) handleInterrupt(w http.ResponseWriter, r *http.Request, sessionID string) {
	reply, err := h.engine.Interrupt(r.Context(), sessionID)
	if err != nil {
		h.respondEngineError(w, err, sessionID)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		h.logger.Error("Failed to encode quest reply", "error", err)
	}
}

func (h *QuestHandler) methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	h.logger.Warn("Method not allowed for quest endpoint", "method", r.Method, "path", r.URL.Path)
	w.WriteHeader(http.StatusMethodNotAllowed)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error: "Method not allowed. Supported methods: " + allowed,
	}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}

// respondEngineError maps engine errors to transport responses.
func (h *QuestHandler) respondEngineError(w http.ResponseWriter, err error, sessionID string) {
	switch {
	case errors.Is(err, quest.ErrNoQuest):
		w.WriteHeader(http.StatusNotFound)
		if err := json.NewEncoder(w).Encode(ErrorResponse{
			Error: "You are not currently on a quest. Start a new journey first.",
		}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}

	case errors.Is(err, quest.ErrQuestBusy):
		w.WriteHeader(http.StatusConflict)
		if err := json.NewEncoder(w).Encode(ErrorResponse{
			Error: "Your quest is still processing the previous action. Please wait.",
		}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}

	default:
		h.logger.Error("Quest operation failed", "session_id", sessionID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		if err := json.NewEncoder(w).Encode(ErrorResponse{
			Error: "Failed to process quest request. Please try again.",
		}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
	}
}
