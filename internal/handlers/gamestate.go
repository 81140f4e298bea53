package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Ji-Haitang/char-card-1/internal/storage"
	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
)

type GameStateHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewGameStateHandler(logger *slog.Logger, st storage.Storage) *GameStateHandler {
	return &GameStateHandler{
		logger:  logger,
		storage: st,
	}
}

// CreateGameStateRequest defines the request body for creating a new game state
type CreateGameStateRequest struct {
	Difficulty string `json:"difficulty,omitempty"`
}

// ServeHTTP handles HTTP requests for game state operations
// Routes:
// POST /v1/gamestate         - Create new game state
// GET /v1/gamestate/{id}     - Read game state by ID
// DELETE /v1/gamestate/{id}  - Delete game state by ID
func (h *GameStateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/gamestate")
	var gameStateID uuid.UUID
	var err error

	if path != "" && path != "/" {
		idStr := strings.Trim(path, "/")
		gameStateID, err = uuid.Parse(idStr)
		if err != nil {
			h.logger.Warn("Invalid game state ID", "id", idStr, "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid game state ID format")
			return
		}
	}

	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)

	case http.MethodGet:
		if gameStateID == uuid.Nil {
			h.logger.Warn("GET request without game state ID")
			writeError(w, h.logger, http.StatusBadRequest, "Game state ID is required for GET requests")
			return
		}
		h.handleRead(w, r, gameStateID)

	case http.MethodDelete:
		if gameStateID == uuid.Nil {
			h.logger.Warn("DELETE request without game state ID")
			writeError(w, h.logger, http.StatusBadRequest, "Game state ID is required for DELETE requests")
			return
		}
		h.handleDelete(w, r, gameStateID)

	default:
		h.logger.Warn("Method not allowed for game state endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET, DELETE")
	}
}

func (h *GameStateHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Creating new game state")

	var req CreateGameStateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("Invalid JSON in request body", "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
	}

	gs := gamestate.NewGameState()
	if req.Difficulty != "" {
		switch d := gamestate.Difficulty(req.Difficulty); d {
		case gamestate.DifficultyEasy, gamestate.DifficultyNormal, gamestate.DifficultyHard:
			gs.Difficulty = d
		default:
			writeError(w, h.logger, http.StatusBadRequest, "Invalid difficulty: "+req.Difficulty)
			return
		}
	}

	if err := h.storage.SaveGameState(r.Context(), gs.ID, gs); err != nil {
		h.logger.Error("Failed to save new game state", "error", err, "id", gs.ID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create game state")
		return
	}

	h.logger.Debug("Game state created successfully", "id", gs.ID.String())
	writeJSON(w, h.logger, http.StatusCreated, gs)
}

func (h *GameStateHandler) handleRead(w http.ResponseWriter, r *http.Request, gameStateID uuid.UUID) {
	gs, err := h.storage.LoadGameState(r.Context(), gameStateID)
	if err != nil {
		h.logger.Error("Failed to load game state", "error", err, "id", gameStateID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load game state")
		return
	}

	if gs == nil {
		h.logger.Warn("Game state not found", "id", gameStateID.String())
		writeError(w, h.logger, http.StatusNotFound, "Game state not found")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, gs)
}

func (h *GameStateHandler) handleDelete(w http.ResponseWriter, r *http.Request, gameStateID uuid.UUID) {
	if err := h.storage.DeleteGameState(r.Context(), gameStateID); err != nil {
		h.logger.Error("Failed to delete game state", "error", err, "id", gameStateID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete game state")
		return
	}
	h.logger.Debug("Game state deleted successfully", "id", gameStateID.String())
	w.WriteHeader(http.StatusNoContent)
}
