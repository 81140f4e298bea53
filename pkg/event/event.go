// Package event implements the declarative special-event rules: JSON
// conditions evaluated against dotted state paths, JSON effects applied
// through the same paths, and a priority-ordered engine that fires at
// most one untriggered event per check.
package event

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
)

// Condition constrains one state path. All present clauses must hold.
// A path the state cannot resolve fails the condition outright.
type Condition struct {
	Min       *float64      `json:"min,omitempty"`
	Max       *float64      `json:"max,omitempty"`
	Equals    interface{}   `json:"equals,omitempty"`
	In        []interface{} `json:"in,omitempty"`
	NotEquals interface{}   `json:"notEquals,omitempty"`
}

// Evaluate checks the condition against the value at path.
func (c Condition) Evaluate(gs *gamestate.GameState, path string) bool {
	value, ok := gs.GetPath(path)
	if !ok {
		return false
	}

	if c.Min != nil || c.Max != nil {
		n, ok := toFloat(value)
		if !ok {
			return false
		}
		if c.Min != nil && n < *c.Min {
			return false
		}
		if c.Max != nil && n > *c.Max {
			return false
		}
	}
	if c.Equals != nil && !looseEqual(value, c.Equals) {
		return false
	}
	if c.NotEquals != nil && looseEqual(value, c.NotEquals) {
		return false
	}
	if c.In != nil {
		found := false
		for _, candidate := range c.In {
			if looseEqual(value, candidate) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Effect mutates one state path. Exactly one operation is set; a bare
// JSON scalar or array decodes as Set.
type Effect struct {
	Add      *float64      `json:"-"`
	Set      interface{}   `json:"-"`
	Multiply *float64      `json:"-"`
	Push     interface{}   `json:"-"`
	Remove   interface{}   `json:"-"`
	Concat   []interface{} `json:"-"`
}

// UnmarshalJSON accepts either the operation-object form
// ({"add":2}, {"set":"x"}, {"multiply":1.5}, {"push":"a"},
// {"remove":"a"}, {"concat":[...]}) or a bare value, which means set.
func (e *Effect) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err == nil && obj != nil {
		known := false
		if raw, ok := obj["add"]; ok {
			known = true
			if err := json.Unmarshal(raw, &e.Add); err != nil {
				return fmt.Errorf("effect add: %w", err)
			}
		}
		if raw, ok := obj["set"]; ok {
			known = true
			if err := json.Unmarshal(raw, &e.Set); err != nil {
				return fmt.Errorf("effect set: %w", err)
			}
		}
		if raw, ok := obj["multiply"]; ok {
			known = true
			if err := json.Unmarshal(raw, &e.Multiply); err != nil {
				return fmt.Errorf("effect multiply: %w", err)
			}
		}
		if raw, ok := obj["push"]; ok {
			known = true
			if err := json.Unmarshal(raw, &e.Push); err != nil {
				return fmt.Errorf("effect push: %w", err)
			}
		}
		if raw, ok := obj["remove"]; ok {
			known = true
			if err := json.Unmarshal(raw, &e.Remove); err != nil {
				return fmt.Errorf("effect remove: %w", err)
			}
		}
		if raw, ok := obj["concat"]; ok {
			known = true
			if err := json.Unmarshal(raw, &e.Concat); err != nil {
				return fmt.Errorf("effect concat: %w", err)
			}
		}
		if known {
			return nil
		}
		// An object with no recognized operation sets the object itself.
		var value interface{}
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		e.Set = value
		return nil
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	e.Set = value
	return nil
}

// Event is one declarative special-event rule. Higher priority wins;
// equal priorities keep declaration order.
type Event struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Priority   int                  `json:"priority"`
	Conditions map[string]Condition `json:"conditions"`
	Effects    map[string]Effect    `json:"effects"`
	Text       string               `json:"text"`
}

// Matches reports whether every condition holds against the state.
func (e *Event) Matches(gs *gamestate.GameState) bool {
	for path, cond := range e.Conditions {
		if !cond.Evaluate(gs, path) {
			return false
		}
	}
	return true
}

// Engine evaluates a fixed rule table against game states.
type Engine struct {
	events []*Event
	logger *slog.Logger
}

// NewEngine sorts the rules by descending priority, keeping declaration
// order among equals.
func NewEngine(events []*Event, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	sorted := make([]*Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return &Engine{events: sorted, logger: logger}
}

// Events returns the rules in evaluation order.
func (en *Engine) Events() []*Event {
	return en.events
}

// Get looks up a rule by id.
func (en *Engine) Get(id string) (*Event, bool) {
	for _, e := range en.events {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Check returns the highest-priority event whose conditions hold and
// that has not triggered before, or nil.
func (en *Engine) Check(gs *gamestate.GameState) *Event {
	for _, e := range en.events {
		if gs.HasTriggered(e.ID) {
			continue
		}
		if e.Matches(gs) {
			return e
		}
	}
	return nil
}

// Trigger applies the event's effects and records it as triggered.
// Effects are contained individually: a path or type mismatch logs a
// warning and skips that effect, the rest still apply. Range clamping
// runs once after the whole batch.
func (en *Engine) Trigger(gs *gamestate.GameState, e *Event) {
	// Effects apply in sorted path order. Every shipped rule keeps each
	// effect on its own path, so ordering cannot change the outcome; a
	// rule whose effects read one another's paths would need Effects to
	// become an ordered list first.
	paths := make([]string, 0, len(e.Effects))
	for path := range e.Effects {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := en.applyEffect(gs, path, e.Effects[path]); err != nil {
			en.logger.Warn("event effect skipped", "event", e.ID, "path", path, "error", err)
		}
	}

	gs.CurrentSpecialEvent = e.ID
	gs.MarkTriggered(e.ID)
	gs.ClampAll()
}

func (en *Engine) applyEffect(gs *gamestate.GameState, path string, effect Effect) error {
	switch {
	case effect.Add != nil:
		current, ok := gs.GetPath(path)
		if !ok {
			return fmt.Errorf("unknown path %q", path)
		}
		n, ok := toFloat(current)
		if !ok {
			return fmt.Errorf("add on non-numeric path %q", path)
		}
		return gs.SetPath(path, n+*effect.Add)

	case effect.Multiply != nil:
		current, ok := gs.GetPath(path)
		if !ok {
			return fmt.Errorf("unknown path %q", path)
		}
		n, ok := toFloat(current)
		if !ok {
			return fmt.Errorf("multiply on non-numeric path %q", path)
		}
		return gs.SetPath(path, n**effect.Multiply)

	case effect.Push != nil:
		arr, ok := gs.ArrayPath(path)
		if !ok {
			return fmt.Errorf("push on non-array path %q", path)
		}
		s, ok := effect.Push.(string)
		if !ok {
			return fmt.Errorf("push of non-string value on %q", path)
		}
		*arr = append(*arr, s)
		return nil

	case effect.Remove != nil:
		arr, ok := gs.ArrayPath(path)
		if !ok {
			return fmt.Errorf("remove on non-array path %q", path)
		}
		s, ok := effect.Remove.(string)
		if !ok {
			return fmt.Errorf("remove of non-string value on %q", path)
		}
		kept := (*arr)[:0]
		for _, item := range *arr {
			if item != s {
				kept = append(kept, item)
			}
		}
		*arr = kept
		return nil

	case effect.Concat != nil:
		arr, ok := gs.ArrayPath(path)
		if !ok {
			return fmt.Errorf("concat on non-array path %q", path)
		}
		for _, item := range effect.Concat {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("concat of non-string element on %q", path)
			}
			*arr = append(*arr, s)
		}
		return nil

	case effect.Set != nil:
		return gs.SetPath(path, effect.Set)
	}
	return fmt.Errorf("empty effect on %q", path)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func looseEqual(a, b interface{}) bool {
	if na, aOK := toFloat(a); aOK {
		if nb, bOK := toFloat(b); bOK {
			return na == nb
		}
	}
	sa, aOK := a.(string)
	sb, bOK := b.(string)
	if aOK && bOK {
		return sa == sb
	}
	return false
}
