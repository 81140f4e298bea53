package gamestate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// GameState is the single persisted aggregate for one playthrough. It is
// saved as one JSON document after every turn. Inner stat maps keep their
// Chinese keys because the narrator addresses stats by display name.
type GameState struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`

	GameMode   GameMode   `json:"gameMode"`
	Difficulty Difficulty `json:"difficulty"`

	UserLocation string `json:"userLocation"`
	// OldUserLocation tracks the previous location so turn messages can
	// describe the transition.
	OldUserLocation string `json:"userLocationOld,omitempty"`

	PlayerTalents map[string]int `json:"playerTalents"`
	PlayerStats   map[string]int `json:"playerStats"`
	CombatStats   map[string]int `json:"combatStats"`
	PlayerMood    int            `json:"playerMood"`
	MartialArts   map[string]int `json:"martialArts"`

	NPCFavorability map[string]int    `json:"npcFavorability"`
	NPCLocations    map[string]string `json:"npcLocations"`
	NPCVisibility   map[string]bool   `json:"npcVisibility"`
	NPCGiftGiven    map[string]bool   `json:"npcGiftGiven"`
	NPCSparred      map[string]bool   `json:"npcSparred"`

	ActionPoints int `json:"actionPoints"`
	CurrentWeek  int `json:"currentWeek"`

	Inventory map[string]int    `json:"inventory"`
	Equipment map[string]string `json:"equipment"`

	DayNightStatus string `json:"dayNightStatus"`

	MapLocation  string   `json:"mapLocation,omitempty"`
	CompanionNPC []string `json:"companionNPC"`

	// InputEnabled is consulted by the presentation layer; a pending
	// random or battle event clears it until the event is resolved.
	InputEnabled bool `json:"inputEnabled"`

	RandomEventFlag int `json:"randomEvent"`
	BattleEventFlag int `json:"battleEvent"`

	// PendingEvent holds an unresolved random or battle event between the
	// turn that raised it and the choice that resolves it.
	PendingEvent json.RawMessage `json:"pendingEvent,omitempty"`

	TriggeredEvents     []string `json:"triggeredEvents"`
	CurrentSpecialEvent string   `json:"currentSpecialEvent,omitempty"`

	LastFarmWeek int             `json:"lastFarmWeek,omitempty"`
	FarmGrid     json.RawMessage `json:"farmGrid,omitempty"`
}

// NewGameState returns a fresh playthrough with default stats.
func NewGameState() *GameState {
	return &GameState{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		GameMode:     ModeClassic,
		Difficulty:   DifficultyNormal,
		UserLocation: "houshan",
		PlayerTalents: map[string]int{
			"根骨": 25, "悟性": 25, "心性": 25, "魅力": 25,
		},
		PlayerStats: map[string]int{
			"武学": 20, "学识": 20, "声望": 20, "金钱": 500,
		},
		CombatStats: map[string]int{
			"攻击力": 20, "生命值": 50,
		},
		PlayerMood:  100,
		MartialArts: DefaultMartialArts(),
		NPCFavorability: map[string]int{
			"A": 0, "B": 0, "C": 0, "D": 0, "E": 0, "F": 0, "G": 0, "H": 0, "I": 0,
		},
		NPCLocations: map[string]string{
			"A": "none", "B": "yishiting", "C": "yishiting", "D": "shanmen",
			"E": "nvdizi", "F": "cangjingge", "G": "yanwuchang", "H": "houshan", "I": "huofang",
		},
		NPCVisibility: map[string]bool{
			"A": true, "B": true, "C": true, "D": true, "E": true,
			"F": true, "G": true, "H": true, "I": true,
		},
		NPCGiftGiven:    map[string]bool{},
		NPCSparred:      map[string]bool{},
		ActionPoints:    3,
		CurrentWeek:     1,
		Inventory:       map[string]int{},
		Equipment:       map[string]string{"武器": "", "防具": "", "饰品1": "", "饰品2": ""},
		DayNightStatus:  "daytime",
		CompanionNPC:    []string{},
		InputEnabled:    true,
		TriggeredEvents: []string{},
	}
}

// Merge unmarshals a stored document over the compiled-in defaults.
// Missing keys keep their default values and present keys win, which
// makes the merge the schema-migration mechanism: a save written by an
// older build gains the new fields on load. Returns the merged state and
// whether the merge changed anything relative to the raw document, so
// callers know to re-save.
func Merge(raw []byte) (*GameState, bool, error) {
	gs := NewGameState()
	if err := json.Unmarshal(raw, gs); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal gamestate: %w", err)
	}

	merged, err := json.Marshal(gs)
	if err != nil {
		return nil, false, fmt.Errorf("failed to remarshal gamestate: %w", err)
	}

	var before, after map[string]interface{}
	if err := json.Unmarshal(raw, &before); err != nil {
		return nil, false, fmt.Errorf("failed to inspect raw gamestate: %w", err)
	}
	if err := json.Unmarshal(merged, &after); err != nil {
		return nil, false, fmt.Errorf("failed to inspect merged gamestate: %w", err)
	}
	return gs, !reflect.DeepEqual(before, after), nil
}

// Date is the calendar derivation of the week counter: 48-week years
// split into 12 four-week months.
type Date struct {
	Year  int
	Month int
	Week  int
}

// Date derives the in-game calendar from CurrentWeek.
func (gs *GameState) Date() Date {
	year := (gs.CurrentWeek-1)/48 + 1
	remaining := (gs.CurrentWeek - 1) % 48
	return Date{
		Year:  year,
		Month: remaining/4 + 1,
		Week:  remaining%4 + 1,
	}
}

// Season returns the season ID for the current week.
func (gs *GameState) Season() string {
	month := gs.Date().Month
	switch {
	case month == 12 || month <= 2:
		return "winter"
	case month <= 5:
		return "spring"
	case month <= 8:
		return "summer"
	default:
		return "autumn"
	}
}

// SeasonName returns the display name of the current season.
func (gs *GameState) SeasonName() string {
	if name, ok := SeasonNames[gs.Season()]; ok {
		return name
	}
	return SeasonNames["winter"]
}

// HasTriggered reports membership in the triggered-event list. The list
// is append-only during normal play; membership checks treat it as a set.
func (gs *GameState) HasTriggered(eventID string) bool {
	for _, id := range gs.TriggeredEvents {
		if id == eventID {
			return true
		}
	}
	return false
}

// MarkTriggered appends an event ID exactly once.
func (gs *GameState) MarkTriggered(eventID string) {
	if !gs.HasTriggered(eventID) {
		gs.TriggeredEvents = append(gs.TriggeredEvents, eventID)
	}
}
