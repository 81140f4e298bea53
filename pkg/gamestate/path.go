package gamestate

import (
	"fmt"
	"strings"
)

// Dotted-path accessors over the aggregate, e.g. "currentWeek" or
// "npcFavorability.C". One level of nesting is supported. The event
// engine's declarative conditions and effects read and write state
// exclusively through these, so the set of reachable fields is closed
// and typed instead of reflective.

// GetPath fetches the value at a dotted path. The second return is false
// when the path does not resolve; conditions treat that as a failure.
func (gs *GameState) GetPath(path string) (interface{}, bool) {
	head, rest, nested := strings.Cut(path, ".")

	if !nested {
		switch head {
		case "currentWeek":
			return gs.CurrentWeek, true
		case "playerMood":
			return gs.PlayerMood, true
		case "actionPoints":
			return gs.ActionPoints, true
		case "GameMode":
			return int(gs.GameMode), true
		case "difficulty":
			return string(gs.Difficulty), true
		case "randomEvent":
			return gs.RandomEventFlag, true
		case "battleEvent":
			return gs.BattleEventFlag, true
		case "mapLocation":
			return gs.MapLocation, true
		case "userLocation":
			return gs.UserLocation, true
		case "seasonStatus":
			return gs.Season(), true
		case "dayNightStatus":
			return gs.DayNightStatus, true
		case "currentSpecialEvent":
			return gs.CurrentSpecialEvent, true
		case "inputEnable":
			if gs.InputEnabled {
				return 1, true
			}
			return 0, true
		case "companionNPC":
			return gs.CompanionNPC, true
		case "triggeredEvents":
			return gs.TriggeredEvents, true
		}
		return nil, false
	}

	m, ok := gs.intMap(head)
	if ok {
		v, present := m[rest]
		if !present {
			return nil, false
		}
		return v, true
	}
	if head == "equipment" {
		v, present := gs.Equipment[rest]
		if !present {
			return nil, false
		}
		return v, true
	}
	return nil, false
}

// SetPath writes a value at a dotted path. Numeric targets accept any
// numeric JSON value; type mismatches are errors so a bad effect is
// skipped rather than silently coerced.
func (gs *GameState) SetPath(path string, value interface{}) error {
	head, rest, nested := strings.Cut(path, ".")

	if !nested {
		switch head {
		case "currentWeek":
			return setInt(&gs.CurrentWeek, path, value)
		case "playerMood":
			return setInt(&gs.PlayerMood, path, value)
		case "actionPoints":
			return setInt(&gs.ActionPoints, path, value)
		case "GameMode":
			n, err := asInt(value)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			gs.GameMode = GameMode(n)
			return nil
		case "difficulty":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("%s: expected string, got %T", path, value)
			}
			gs.Difficulty = Difficulty(s)
			return nil
		case "randomEvent":
			return setInt(&gs.RandomEventFlag, path, value)
		case "battleEvent":
			return setInt(&gs.BattleEventFlag, path, value)
		case "mapLocation":
			return setString(&gs.MapLocation, path, value)
		case "userLocation":
			return setString(&gs.UserLocation, path, value)
		case "dayNightStatus":
			return setString(&gs.DayNightStatus, path, value)
		case "currentSpecialEvent":
			return setString(&gs.CurrentSpecialEvent, path, value)
		case "inputEnable":
			n, err := asInt(value)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			gs.InputEnabled = n != 0
			return nil
		case "companionNPC":
			list, err := asStringSlice(value)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			gs.CompanionNPC = list
			return nil
		}
		return fmt.Errorf("unknown state path: %s", path)
	}

	if m, ok := gs.intMap(head); ok {
		n, err := asInt(value)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		m[rest] = n
		return nil
	}
	if head == "equipment" {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s: expected string, got %T", path, value)
		}
		gs.Equipment[rest] = s
		return nil
	}
	return fmt.Errorf("unknown state path: %s", path)
}

// ArrayPath resolves a path to a mutable string slice for the in-place
// push/remove/concat effect operations.
func (gs *GameState) ArrayPath(path string) (*[]string, bool) {
	switch path {
	case "companionNPC":
		return &gs.CompanionNPC, true
	case "triggeredEvents":
		return &gs.TriggeredEvents, true
	}
	return nil, false
}

func (gs *GameState) intMap(name string) (map[string]int, bool) {
	switch name {
	case "npcFavorability":
		return gs.NPCFavorability, true
	case "playerTalents":
		return gs.PlayerTalents, true
	case "playerStats":
		return gs.PlayerStats, true
	case "combatStats":
		return gs.CombatStats, true
	case "martialArts":
		return gs.MartialArts, true
	case "inventory":
		return gs.Inventory, true
	}
	return nil, false
}

func asInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("expected number, got %T", value)
}

func asStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string element, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected array, got %T", value)
}

func setInt(dst *int, path string, value interface{}) error {
	n, err := asInt(value)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	*dst = n
	return nil
}

func setString(dst *string, path string, value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%s: expected string, got %T", path, value)
	}
	*dst = s
	return nil
}
