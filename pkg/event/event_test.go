package event

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConditionEvaluate(t *testing.T) {
	gs := gamestate.NewGameState()
	gs.CurrentWeek = 5
	gs.NPCFavorability["C"] = 80
	gs.CurrentSpecialEvent = "prologue"

	tests := []struct {
		name string
		path string
		cond Condition
		want bool
	}{
		{"min holds", "currentWeek", Condition{Min: f(2)}, true},
		{"min at boundary", "currentWeek", Condition{Min: f(5)}, true},
		{"min fails", "currentWeek", Condition{Min: f(6)}, false},
		{"max holds", "currentWeek", Condition{Max: f(5)}, true},
		{"max fails", "currentWeek", Condition{Max: f(4)}, false},
		{"min and max window", "npcFavorability.C", Condition{Min: f(50), Max: f(100)}, true},
		{"equals number", "currentWeek", Condition{Equals: float64(5)}, true},
		{"equals string", "currentSpecialEvent", Condition{Equals: "prologue"}, true},
		{"equals mismatch", "currentSpecialEvent", Condition{Equals: "finale"}, false},
		{"notEquals holds", "currentSpecialEvent", Condition{NotEquals: "finale"}, true},
		{"notEquals fails", "currentSpecialEvent", Condition{NotEquals: "prologue"}, false},
		{"in holds", "difficulty", Condition{In: []interface{}{"easy", "normal"}}, true},
		{"in fails", "difficulty", Condition{In: []interface{}{"hard"}}, false},
		{"unresolvable path fails", "playerStats.不存在", Condition{Min: f(0)}, false},
		{"numeric clause on string path fails", "difficulty", Condition{Min: f(0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.Evaluate(gs, tt.path); got != tt.want {
				t.Errorf("Evaluate(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestEffectUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, e Effect)
	}{
		{"add", `{"add": 3}`, func(t *testing.T, e Effect) {
			if e.Add == nil || *e.Add != 3 {
				t.Errorf("Add = %v", e.Add)
			}
		}},
		{"set object form", `{"set": "天山派"}`, func(t *testing.T, e Effect) {
			if e.Set != "天山派" {
				t.Errorf("Set = %v", e.Set)
			}
		}},
		{"multiply", `{"multiply": 1.5}`, func(t *testing.T, e Effect) {
			if e.Multiply == nil || *e.Multiply != 1.5 {
				t.Errorf("Multiply = %v", e.Multiply)
			}
		}},
		{"push", `{"push": "苓雪妃"}`, func(t *testing.T, e Effect) {
			if e.Push != "苓雪妃" {
				t.Errorf("Push = %v", e.Push)
			}
		}},
		{"concat", `{"concat": ["a", "b"]}`, func(t *testing.T, e Effect) {
			if len(e.Concat) != 2 {
				t.Errorf("Concat = %v", e.Concat)
			}
		}},
		{"bare number is set", `7`, func(t *testing.T, e Effect) {
			if e.Set != float64(7) {
				t.Errorf("Set = %v", e.Set)
			}
		}},
		{"bare string is set", `"外堡"`, func(t *testing.T, e Effect) {
			if e.Set != "外堡" {
				t.Errorf("Set = %v", e.Set)
			}
		}},
		{"bare array is set", `["a"]`, func(t *testing.T, e Effect) {
			arr, ok := e.Set.([]interface{})
			if !ok || len(arr) != 1 {
				t.Errorf("Set = %v", e.Set)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Effect
			if err := json.Unmarshal([]byte(tt.raw), &e); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.raw, err)
			}
			tt.check(t, e)
		})
	}
}

func TestEngineCheckPriorityOrder(t *testing.T) {
	low := &Event{ID: "low", Priority: 10, Conditions: map[string]Condition{
		"currentWeek": {Min: f(1)},
	}}
	high := &Event{ID: "high", Priority: 90, Conditions: map[string]Condition{
		"currentWeek": {Min: f(1)},
	}}
	en := NewEngine([]*Event{low, high}, quietLogger())

	gs := gamestate.NewGameState()
	if e := en.Check(gs); e == nil || e.ID != "high" {
		t.Fatalf("Check() = %v, want high-priority event", e)
	}

	// Equal priorities keep declaration order.
	first := &Event{ID: "first", Priority: 50, Conditions: map[string]Condition{}}
	second := &Event{ID: "second", Priority: 50, Conditions: map[string]Condition{}}
	en = NewEngine([]*Event{first, second}, quietLogger())
	if e := en.Check(gs); e == nil || e.ID != "first" {
		t.Fatalf("Check() = %v, want declaration order among equals", e)
	}
}

func TestEngineCheckSkipsTriggered(t *testing.T) {
	ev := &Event{ID: "once", Priority: 50, Conditions: map[string]Condition{}}
	en := NewEngine([]*Event{ev}, quietLogger())
	gs := gamestate.NewGameState()

	first := en.Check(gs)
	if first == nil {
		t.Fatal("Check() found nothing on fresh state")
	}
	en.Trigger(gs, first)

	if again := en.Check(gs); again != nil {
		t.Errorf("Check() after trigger = %v, want nil", again)
	}
}

func TestEngineTrigger(t *testing.T) {
	ev := &Event{
		ID:       "week_two_reward",
		Priority: 50,
		Conditions: map[string]Condition{
			"currentWeek": {Min: f(2)},
		},
		Effects: map[string]Effect{
			"playerStats.声望": {Add: f(3)},
			"mapLocation":    {Set: "天山派外堡"},
			"companionNPC":   {Push: "苓雪妃"},
		},
	}
	en := NewEngine([]*Event{ev}, quietLogger())

	gs := gamestate.NewGameState()
	gs.CurrentWeek = 2

	match := en.Check(gs)
	if match == nil {
		t.Fatal("conditions should hold at week 2")
	}
	en.Trigger(gs, match)

	if gs.PlayerStats["声望"] != 23 {
		t.Errorf("声望 = %d, want 23", gs.PlayerStats["声望"])
	}
	if gs.MapLocation != "天山派外堡" {
		t.Errorf("mapLocation = %q", gs.MapLocation)
	}
	if len(gs.CompanionNPC) != 1 || gs.CompanionNPC[0] != "苓雪妃" {
		t.Errorf("companionNPC = %v", gs.CompanionNPC)
	}
	if gs.CurrentSpecialEvent != "week_two_reward" {
		t.Errorf("currentSpecialEvent = %q", gs.CurrentSpecialEvent)
	}
	if !gs.HasTriggered("week_two_reward") {
		t.Error("event not recorded as triggered")
	}
}

func TestTriggerSkipsBadEffectAppliesRest(t *testing.T) {
	ev := &Event{
		ID:       "partial",
		Priority: 50,
		Effects: map[string]Effect{
			"playerStats.声望": {Add: f(3)},
			"mapLocation":    {Add: f(1)}, // add on a string path must be skipped
		},
	}
	en := NewEngine([]*Event{ev}, quietLogger())

	gs := gamestate.NewGameState()
	en.Trigger(gs, ev)

	if gs.PlayerStats["声望"] != 23 {
		t.Errorf("声望 = %d, want 23 despite the bad sibling effect", gs.PlayerStats["声望"])
	}
	if gs.MapLocation != "" {
		t.Errorf("mapLocation = %q, want untouched", gs.MapLocation)
	}
}

func TestTriggerClampsAfterBatch(t *testing.T) {
	ev := &Event{
		ID:       "overflow",
		Priority: 50,
		Effects: map[string]Effect{
			"npcFavorability.C": {Add: f(500)},
		},
	}
	en := NewEngine([]*Event{ev}, quietLogger())

	gs := gamestate.NewGameState()
	en.Trigger(gs, ev)

	if gs.NPCFavorability["C"] != 100 {
		t.Errorf("favorability = %d, want clamp to 100", gs.NPCFavorability["C"])
	}
}

func TestArrayEffects(t *testing.T) {
	gs := gamestate.NewGameState()
	gs.CompanionNPC = []string{"苓雪妃", "钱塘君"}

	en := NewEngine(nil, quietLogger())

	remove := &Event{ID: "rm", Effects: map[string]Effect{
		"companionNPC": {Remove: "苓雪妃"},
	}}
	en.Trigger(gs, remove)
	if len(gs.CompanionNPC) != 1 || gs.CompanionNPC[0] != "钱塘君" {
		t.Errorf("after remove: %v", gs.CompanionNPC)
	}

	concat := &Event{ID: "cc", Effects: map[string]Effect{
		"companionNPC": {Concat: []interface{}{"洞庭君", "雨烛"}},
	}}
	en.Trigger(gs, concat)
	if len(gs.CompanionNPC) != 3 {
		t.Errorf("after concat: %v", gs.CompanionNPC)
	}
}

func TestStorylineChaining(t *testing.T) {
	// The follow-up event keys on the predecessor being the current
	// special event, so the chain advances one link per check.
	opening := &Event{
		ID:       "chain_1",
		Priority: 100,
		Conditions: map[string]Condition{
			"currentWeek": {Min: f(2)},
		},
	}
	followup := &Event{
		ID:       "chain_2",
		Priority: 99,
		Conditions: map[string]Condition{
			"currentSpecialEvent": {Equals: "chain_1"},
		},
	}
	en := NewEngine([]*Event{opening, followup}, quietLogger())

	gs := gamestate.NewGameState()
	gs.CurrentWeek = 2

	first := en.Check(gs)
	if first == nil || first.ID != "chain_1" {
		t.Fatalf("first check = %v, want chain_1", first)
	}
	en.Trigger(gs, first)

	second := en.Check(gs)
	if second == nil || second.ID != "chain_2" {
		t.Fatalf("second check = %v, want chain_2", second)
	}
	en.Trigger(gs, second)

	if en.Check(gs) != nil {
		t.Error("chain exhausted but check still fires")
	}
}
