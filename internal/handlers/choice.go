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

// ChoiceHandler resolves a pending random event by option number.
// POST /v1/choice
type ChoiceHandler struct {
	processor *worker.TurnProcessor
	logger    *slog.Logger
}

func NewChoiceHandler(processor *worker.TurnProcessor, logger *slog.Logger) *ChoiceHandler {
	return &ChoiceHandler{processor: processor, logger: logger}
}

func (h *ChoiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	var req turn.ChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in choice request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.GameStateID == uuid.Nil {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id is required")
		return
	}

	resp, err := h.processor.ResolveChoice(r.Context(), &req)
	if err != nil {
		if errors.Is(err, worker.ErrGameStateNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Game state not found")
			return
		}
		h.logger.Warn("Failed to resolve choice", "error", err, "game_state_id", req.GameStateID.String())
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	// A storyline-continuation choice triggers the next chained event,
	// whose scripted text lands on the replay queue. Fold it into this
	// response the same way the turn handler does.
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
