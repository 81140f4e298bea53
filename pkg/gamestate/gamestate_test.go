package gamestate

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestNewGameStateDefaults(t *testing.T) {
	gs := NewGameState()

	if gs.ID == uuid.Nil {
		t.Error("new game state has nil ID")
	}
	if gs.GameMode != ModeClassic {
		t.Errorf("GameMode = %v, want classic", gs.GameMode)
	}
	if gs.Difficulty != DifficultyNormal {
		t.Errorf("Difficulty = %v, want normal", gs.Difficulty)
	}
	if gs.ActionPoints != 3 || gs.CurrentWeek != 1 || gs.PlayerMood != 100 {
		t.Errorf("AP/week/mood = %d/%d/%d, want 3/1/100", gs.ActionPoints, gs.CurrentWeek, gs.PlayerMood)
	}
	if !gs.InputEnabled {
		t.Error("input should start enabled")
	}
	if len(gs.NPCFavorability) != len(NPCs) {
		t.Errorf("favorability entries = %d, want one per NPC", len(gs.NPCFavorability))
	}
	for _, slot := range EquipmentSlots {
		if _, ok := gs.Equipment[slot]; !ok {
			t.Errorf("equipment slot %q missing", slot)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		week  int
		year  int
		month int
		wk    int
	}{
		{1, 1, 1, 1},
		{4, 1, 1, 4},
		{5, 1, 2, 1},
		{48, 1, 12, 4},
		{49, 2, 1, 1},
		{100, 3, 1, 4},
	}

	for _, tt := range tests {
		gs := NewGameState()
		gs.CurrentWeek = tt.week
		d := gs.Date()
		if d.Year != tt.year || d.Month != tt.month || d.Week != tt.wk {
			t.Errorf("week %d: date = %d/%d/%d, want %d/%d/%d",
				tt.week, d.Year, d.Month, d.Week, tt.year, tt.month, tt.wk)
		}
	}
}

func TestSeason(t *testing.T) {
	tests := []struct {
		week   int
		season string
	}{
		{1, "winter"},   // month 1
		{8, "winter"},   // month 2
		{9, "spring"},   // month 3
		{20, "spring"},  // month 5
		{21, "summer"},  // month 6
		{33, "autumn"},  // month 9
		{45, "winter"},  // month 12
	}

	for _, tt := range tests {
		gs := NewGameState()
		gs.CurrentWeek = tt.week
		if got := gs.Season(); got != tt.season {
			t.Errorf("week %d: season = %q, want %q", tt.week, got, tt.season)
		}
	}
}

func TestSeasonName(t *testing.T) {
	gs := NewGameState()
	gs.CurrentWeek = 9
	if got := gs.SeasonName(); got != SeasonNames["spring"] {
		t.Errorf("SeasonName() = %q, want %q", got, SeasonNames["spring"])
	}
}

func TestTriggeredEvents(t *testing.T) {
	gs := NewGameState()

	if gs.HasTriggered("ev1") {
		t.Error("fresh state reports triggered event")
	}
	gs.MarkTriggered("ev1")
	gs.MarkTriggered("ev1")
	gs.MarkTriggered("ev2")

	if !gs.HasTriggered("ev1") || !gs.HasTriggered("ev2") {
		t.Error("marked events not reported")
	}
	if len(gs.TriggeredEvents) != 2 {
		t.Errorf("TriggeredEvents = %v, want exactly one entry per event", gs.TriggeredEvents)
	}
}

func TestMergeFillsMissingFields(t *testing.T) {
	// A save written before the mood field existed: the merge must restore
	// the default and report that the document changed.
	raw := []byte(`{"currentWeek": 7, "actionPoints": 2}`)

	gs, changed, err := Merge(raw)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if !changed {
		t.Error("merge of a partial document should report a change")
	}
	if gs.CurrentWeek != 7 || gs.ActionPoints != 2 {
		t.Errorf("present keys lost: week=%d ap=%d", gs.CurrentWeek, gs.ActionPoints)
	}
	if gs.PlayerMood != 100 {
		t.Errorf("PlayerMood = %d, want default 100", gs.PlayerMood)
	}
	if gs.PlayerStats["金钱"] != 500 {
		t.Errorf("金钱 = %d, want default 500", gs.PlayerStats["金钱"])
	}
}

func TestMergeRoundTripUnchanged(t *testing.T) {
	gs := NewGameState()
	raw, err := json.Marshal(gs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	merged, changed, err := Merge(raw)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if changed {
		t.Error("round trip of a current document reported a change")
	}
	if merged.ID != gs.ID {
		t.Errorf("ID = %v, want %v", merged.ID, gs.ID)
	}
}

func TestMergeRejectsInvalidJSON(t *testing.T) {
	if _, _, err := Merge([]byte("{not json")); err == nil {
		t.Error("Merge accepted invalid JSON")
	}
}

func TestClampAll(t *testing.T) {
	gs := NewGameState()
	gs.PlayerTalents["魅力"] = 150
	gs.PlayerStats["声望"] = -5
	gs.CombatStats["攻击力"] = 5
	gs.PlayerMood = 130
	gs.NPCFavorability["C"] = 999
	gs.ActionPoints = 10
	gs.CurrentWeek = 0
	gs.Inventory["铁剑"] = 0
	gs.Inventory["烤饼"] = 2

	gs.ClampAll()

	if gs.PlayerTalents["魅力"] != 100 {
		t.Errorf("魅力 = %d, want 100", gs.PlayerTalents["魅力"])
	}
	if gs.PlayerStats["声望"] != 0 {
		t.Errorf("声望 = %d, want 0", gs.PlayerStats["声望"])
	}
	if gs.CombatStats["攻击力"] != 10 {
		t.Errorf("攻击力 = %d, want floor 10", gs.CombatStats["攻击力"])
	}
	if gs.PlayerMood != 100 {
		t.Errorf("mood = %d, want 100", gs.PlayerMood)
	}
	if gs.NPCFavorability["C"] != 100 {
		t.Errorf("favorability = %d, want 100", gs.NPCFavorability["C"])
	}
	if gs.ActionPoints != 3 {
		t.Errorf("AP = %d, want 3", gs.ActionPoints)
	}
	if gs.CurrentWeek != 1 {
		t.Errorf("week = %d, want 1", gs.CurrentWeek)
	}
	if _, ok := gs.Inventory["铁剑"]; ok {
		t.Error("zero-count item survived the prune")
	}
	if gs.Inventory["烤饼"] != 2 {
		t.Errorf("烤饼 = %d, want 2", gs.Inventory["烤饼"])
	}
}
