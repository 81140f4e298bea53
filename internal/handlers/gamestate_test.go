package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ji-Haitang/char-card-1/internal/storage"
	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGameStateHandler_Create(t *testing.T) {
	store := storage.NewMockStorage()
	handler := NewGameStateHandler(testLogger(), store)

	req := httptest.NewRequest(http.MethodPost, "/v1/gamestate", bytes.NewBufferString("{}"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var gs gamestate.GameState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gs))
	assert.NotEqual(t, uuid.Nil, gs.ID)
	assert.Equal(t, gamestate.DifficultyNormal, gs.Difficulty)
	assert.Equal(t, 3, gs.ActionPoints)

	saved, err := store.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	require.NotNil(t, saved, "created state must persist")
}

func TestGameStateHandler_CreateWithDifficulty(t *testing.T) {
	store := storage.NewMockStorage()
	handler := NewGameStateHandler(testLogger(), store)

	body := bytes.NewBufferString(`{"difficulty": "hard"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/gamestate", body)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var gs gamestate.GameState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gs))
	assert.Equal(t, gamestate.DifficultyHard, gs.Difficulty)
}

func TestGameStateHandler_CreateInvalidDifficulty(t *testing.T) {
	store := storage.NewMockStorage()
	handler := NewGameStateHandler(testLogger(), store)

	body := bytes.NewBufferString(`{"difficulty": "nightmare"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/gamestate", body)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameStateHandler_Read(t *testing.T) {
	store := storage.NewMockStorage()
	handler := NewGameStateHandler(testLogger(), store)

	gs := gamestate.NewGameState()
	gs.CurrentWeek = 7
	require.NoError(t, store.SaveGameState(context.Background(), gs.ID, gs))

	req := httptest.NewRequest(http.MethodGet, "/v1/gamestate/"+gs.ID.String(), nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var loaded gamestate.GameState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, gs.ID, loaded.ID)
	assert.Equal(t, 7, loaded.CurrentWeek)
}

func TestGameStateHandler_ReadNotFound(t *testing.T) {
	handler := NewGameStateHandler(testLogger(), storage.NewMockStorage())

	req := httptest.NewRequest(http.MethodGet, "/v1/gamestate/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGameStateHandler_ReadInvalidID(t *testing.T) {
	handler := NewGameStateHandler(testLogger(), storage.NewMockStorage())

	req := httptest.NewRequest(http.MethodGet, "/v1/gamestate/not-a-uuid", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameStateHandler_Delete(t *testing.T) {
	store := storage.NewMockStorage()
	handler := NewGameStateHandler(testLogger(), store)

	gs := gamestate.NewGameState()
	require.NoError(t, store.SaveGameState(context.Background(), gs.ID, gs))

	req := httptest.NewRequest(http.MethodDelete, "/v1/gamestate/"+gs.ID.String(), nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	gone, err := store.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestGameStateHandler_MethodNotAllowed(t *testing.T) {
	handler := NewGameStateHandler(testLogger(), storage.NewMockStorage())

	req := httptest.NewRequest(http.MethodPut, "/v1/gamestate", bytes.NewBufferString("{}"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
