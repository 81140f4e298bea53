package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Ji-Haitang/char-card-1/internal/worker"
	"github.com/Ji-Haitang/char-card-1/pkg/turn"
)

// TurnHandler processes narrator turns synchronously.
// POST /v1/turn
type TurnHandler struct {
	processor *worker.TurnProcessor
	logger    *slog.Logger
}

func NewTurnHandler(processor *worker.TurnProcessor, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{processor: processor, logger: logger}
}

func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	var req turn.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in turn request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.GameStateID == uuid.Nil {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id is required")
		return
	}
	if req.Raw == "" {
		writeError(w, h.logger, http.StatusBadRequest, "raw turn payload is required")
		return
	}

	resp, err := h.processor.ProcessTurn(r.Context(), &req)
	if err != nil {
		if errors.Is(err, worker.ErrGameStateNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Game state not found")
			return
		}
		h.logger.Error("Failed to process turn", "error", err, "game_state_id", req.GameStateID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to process turn")
		return
	}

	// Replay scripted turns deferred by the event engine so the caller
	// receives them in the same response cycle.
	scripted, err := h.processor.ProcessScripted(r.Context(), req.GameStateID)
	if err != nil {
		h.logger.Error("Failed to replay scripted turns", "error", err, "game_state_id", req.GameStateID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to replay scripted turns")
		return
	}
	for _, s := range scripted {
		resp.Pages = append(resp.Pages, s.Pages...)
		resp.Notifications = append(resp.Notifications, s.Notifications...)
		resp.GameState = s.GameState
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
