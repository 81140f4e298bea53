package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
	"github.com/Ji-Haitang/char-card-1/pkg/turn"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func decodeResponse(resp *http.Response, wantStatus int, out interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func createGameState(client *http.Client, baseURL string) (*gamestate.GameState, error) {
	resp, err := client.Post(baseURL+"/v1/gamestate", "application/json", bytes.NewBufferString("{}"))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var gs gamestate.GameState
	if err := decodeResponse(resp, http.StatusCreated, &gs); err != nil {
		return nil, fmt.Errorf("failed to create game state: %w", err)
	}
	return &gs, nil
}

func getGameState(client *http.Client, baseURL string, gameStateID uuid.UUID) (*gamestate.GameState, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/gamestate/%s", baseURL, gameStateID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var gs gamestate.GameState
	if err := decodeResponse(resp, http.StatusOK, &gs); err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}
	return &gs, nil
}

func postTurn(client *http.Client, baseURL string, req *turn.Request) (*turn.Response, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(baseURL+"/v1/turn", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var turnResp turn.Response
	if err := decodeResponse(resp, http.StatusOK, &turnResp); err != nil {
		return nil, fmt.Errorf("turn request failed: %w", err)
	}
	return &turnResp, nil
}

func postChoice(client *http.Client, baseURL string, req *turn.ChoiceRequest) (*turn.Response, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(baseURL+"/v1/choice", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var turnResp turn.Response
	if err := decodeResponse(resp, http.StatusOK, &turnResp); err != nil {
		return nil, fmt.Errorf("choice request failed: %w", err)
	}
	return &turnResp, nil
}
