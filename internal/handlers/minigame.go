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

// minigameRequest is the wire form of a minigame exit payload. The
// payload field stays raw; the processor decodes it per game.
type minigameRequest struct {
	GameStateID uuid.UUID       `json:"game_state_id"`
	Game        string          `json:"game"`
	Payload     json.RawMessage `json:"payload"`
}

// MinigameHandler folds minigame results back into the game state.
// POST /v1/minigame
type MinigameHandler struct {
	processor *worker.TurnProcessor
	logger    *slog.Logger
}

func NewMinigameHandler(processor *worker.TurnProcessor, logger *slog.Logger) *MinigameHandler {
	return &MinigameHandler{processor: processor, logger: logger}
}

func (h *MinigameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	var req minigameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in minigame request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.GameStateID == uuid.Nil {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id is required")
		return
	}
	if req.Game == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game field is required")
		return
	}

	resp, err := h.processor.ProcessMinigame(r.Context(), &turn.MinigameRequest{
		GameStateID: req.GameStateID,
		Game:        req.Game,
		Payload:     req.Payload,
	})
	if err != nil {
		if errors.Is(err, worker.ErrGameStateNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Game state not found")
			return
		}
		h.logger.Warn("Failed to process minigame result", "error", err, "game", req.Game, "game_state_id", req.GameStateID.String())
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	// Folding a result can satisfy an event rule; its scripted text must
	// reach the caller in this response, not a later turn.
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
