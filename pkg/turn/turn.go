// Package turn defines the request/response contract of the turn
// pipeline and builds the structured user-turn preamble the narrator
// receives ahead of free-form input.
package turn

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
	"github.com/Ji-Haitang/char-card-1/pkg/parser"
)

// Request is one inbound narrator response to process against a stored
// game state.
type Request struct {
	GameStateID uuid.UUID `json:"game_state_id"`
	// Raw is the narrator's full turn payload, tagged envelope included.
	Raw string `json:"raw"`
	// Action is the player's free-text or menu action that produced the
	// turn, used for the preamble of the next request.
	Action string `json:"action,omitempty"`
	// ConsumeActionPoint marks turns that cost one of the week's action
	// points. Draining the last point rolls the calendar forward.
	ConsumeActionPoint bool `json:"consume_action_point,omitempty"`
}

// Response is the processed turn: render pages (or classic prose),
// reconciliation notifications, and the post-turn state snapshot.
type Response struct {
	GameStateID   uuid.UUID            `json:"game_state_id"`
	Pages         []parser.Page        `json:"pages,omitempty"`
	Prose         string               `json:"prose,omitempty"`
	Notifications []string             `json:"notifications,omitempty"`
	UserMessage   string               `json:"user_message,omitempty"`
	GameState     *gamestate.GameState `json:"gamestate"`
}

// Queued is one deferred scripted turn waiting in a game's replay queue.
// Special-event text is not rendered inline at trigger time; it replays
// through the regular pipeline on the next turn boundary.
type Queued struct {
	GameStateID uuid.UUID `json:"game_state_id"`
	EventID     string    `json:"event_id,omitempty"`
	Raw         string    `json:"raw"`
}

// ChoiceRequest resolves a pending random event by option index (1..3),
// or intercepts a scripted-continuation option.
type ChoiceRequest struct {
	GameStateID uuid.UUID `json:"game_state_id"`
	Option      int       `json:"option"`
}

// MinigameRequest folds a minigame exit payload back into the state.
// Game selects the payload shape: blackjack, battle, farm, alchemy or
// worldmap.
type MinigameRequest struct {
	GameStateID uuid.UUID `json:"game_state_id"`
	Game        string    `json:"game"`
	Payload     []byte    `json:"payload"`
}

// BuildUserMessage assembles the structured preamble sent with the
// player's action: calendar line, season, location (with movement when
// the player changed rooms) and the action itself.
func BuildUserMessage(gs *gamestate.GameState, action string) string {
	date := gs.Date()

	var b strings.Builder
	fmt.Fprintf(&b, "时间：第%d年第%d月第%d周\n", date.Year, date.Month, date.Week)
	fmt.Fprintf(&b, "季节：%s\n", gs.SeasonName())

	current := gamestate.LocationNames[gs.UserLocation]
	if gs.OldUserLocation != "" && gs.OldUserLocation != gs.UserLocation {
		old := gamestate.LocationNames[gs.OldUserLocation]
		fmt.Fprintf(&b, "地点：从%s来到%s\n", old, current)
	} else {
		fmt.Fprintf(&b, "地点：%s\n", current)
	}

	fmt.Fprintf(&b, "{{user}}行动选择：%s", action)
	return b.String()
}

// BuildResultMessage appends a minigame or event result block to the
// standard preamble.
func BuildResultMessage(gs *gamestate.GameState, result string) string {
	date := gs.Date()
	return fmt.Sprintf("时间：第%d年第%d月第%d周\n季节：%s\n\n%s",
		date.Year, date.Month, date.Week, gs.SeasonName(), result)
}
