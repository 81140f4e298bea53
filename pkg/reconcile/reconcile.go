// Package reconcile applies a parsed turn's directives to the persistent
// game state. Every directive is contained at its own scope: an
// unresolvable NPC or location is logged and skipped, and the rest of
// the turn proceeds.
package reconcile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
	"github.com/Ji-Haitang/char-card-1/pkg/parser"
)

// Reconciler mutates GameState from parsed turn directives. The random
// source is injected so charm judgments and option rolls are
// deterministic under test.
type Reconciler struct {
	logger *slog.Logger
	rng    *rand.Rand
}

func New(logger *slog.Logger, rng *rand.Rand) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{logger: logger, rng: rng}
}

// Rand exposes the injected random source for callers that share it.
func (r *Reconciler) Rand() *rand.Rand {
	return r.rng
}

// Apply folds a parsed turn into the state and returns user-visible
// notifications (charm judgments and the like). The clamp pass runs
// after every mutation, not once at the end.
func (r *Reconciler) Apply(gs *gamestate.GameState, turn *parser.ParsedTurn) []string {
	var notes []string
	if turn.Meta == nil {
		r.applyEventPresence(gs, nil)
		return notes
	}

	r.applyTime(gs, turn.Meta.Time)
	r.applyUserLocation(gs, turn.Meta.User)
	notes = append(notes, r.applyNPCDeltas(gs, turn.Meta.NPCs)...)
	r.applyEventPresence(gs, turn.Meta.RandomEvent)

	gs.ClampAll()
	return notes
}

// applyTime derives the day/night flag from a "HH:MM" string. Daytime is
// 06:00 inclusive to 18:00 exclusive.
func (r *Reconciler) applyTime(gs *gamestate.GameState, timeStr string) {
	if timeStr == "" {
		return
	}
	parts := strings.SplitN(timeStr, ":", 2)
	if len(parts) != 2 {
		r.logger.Warn("unparseable time string", "time", timeStr)
		return
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		r.logger.Warn("unparseable time string", "time", timeStr)
		return
	}
	if hour >= 6 && hour < 18 {
		gs.DayNightStatus = "daytime"
	} else {
		gs.DayNightStatus = "night"
	}
}

// applyUserLocation moves the player. Only classic mode honors the
// directive; in paged mode the scene layer already carries location.
func (r *Reconciler) applyUserLocation(gs *gamestate.GameState, user *parser.UserDelta) {
	if gs.GameMode != gamestate.ModeClassic || user == nil {
		return
	}
	name := lastPathSegment(user.LocationChange)
	if name == "" || name == parser.None {
		return
	}
	id, ok := gamestate.LocationIDByName(name)
	if !ok {
		r.logger.Warn("unknown user location", "location", name)
		return
	}
	gs.OldUserLocation = gs.UserLocation
	gs.UserLocation = id
}

// applyNPCDeltas resolves favorability changes (difficulty table plus
// charm doubling) and location paths per NPC.
func (r *Reconciler) applyNPCDeltas(gs *gamestate.GameState, deltas map[string]parser.NPCTurnDelta) []string {
	var notes []string
	for npcName, delta := range deltas {
		npcID, ok := gamestate.NPCNameToID[npcName]
		if !ok {
			r.logger.Warn("unknown NPC in turn delta", "npc", npcName)
			continue
		}

		if delta.FavorChange != "" {
			if note := r.applyFavorChange(gs, npcID, npcName, gamestate.FavorCategory(delta.FavorChange)); note != "" {
				notes = append(notes, note)
			}
		}

		if delta.LocationChange != "" {
			r.applyNPCLocation(gs, npcID, npcName, delta.LocationChange)
		}
	}
	return notes
}

// applyFavorChange adds the difficulty-indexed delta, doubling positive
// deltas on a successful charm roll (charm/2 percent chance). Returns a
// notification when the roll succeeds.
func (r *Reconciler) applyFavorChange(gs *gamestate.GameState, npcID, npcName string, category gamestate.FavorCategory) string {
	row, ok := gamestate.FavorDeltaTable[category]
	if !ok {
		r.logger.Warn("unknown favorability category", "npc", npcName, "category", string(category))
		return ""
	}
	change := row[gs.Difficulty]

	note := ""
	if change > 0 {
		charmChance := float64(gs.PlayerTalents["魅力"]) / 2
		if r.rng.Float64()*100 < charmChance {
			change *= 2
			note = fmt.Sprintf("对%s的魅力属性判定成功，好感度变化加倍", npcName)
		}
	}

	gs.NPCFavorability[npcID] += change
	gs.ClampAll()
	return note
}

// applyNPCLocation resolves a pipe-delimited path of display names; the
// last segment wins. An unresolvable name is a logged no-op.
func (r *Reconciler) applyNPCLocation(gs *gamestate.GameState, npcID, npcName, path string) {
	name := lastPathSegment(path)
	if name == "" {
		return
	}
	id, ok := gamestate.LocationIDByName(name)
	if !ok {
		r.logger.Warn("unknown NPC location", "npc", npcName, "location", name)
		return
	}
	gs.NPCLocations[npcID] = id
}

// applyEventPresence raises or clears the pending-event state. A pending
// event disables free-text input until resolved.
func (r *Reconciler) applyEventPresence(gs *gamestate.GameState, event *parser.RandomEvent) {
	if event == nil {
		gs.InputEnabled = true
		gs.RandomEventFlag = 0
		gs.BattleEventFlag = 0
		gs.PendingEvent = nil
		return
	}

	gs.InputEnabled = false
	if event.IsBattle() {
		gs.BattleEventFlag = 1
		gs.RandomEventFlag = 0
	} else {
		gs.RandomEventFlag = 1
		gs.BattleEventFlag = 0
	}
	if raw, err := json.Marshal(event); err == nil {
		gs.PendingEvent = raw
	}
}

// PendingEvent decodes the stored unresolved event, if any.
func PendingEvent(gs *gamestate.GameState) *parser.RandomEvent {
	if len(gs.PendingEvent) == 0 {
		return nil
	}
	var event parser.RandomEvent
	if err := json.Unmarshal(gs.PendingEvent, &event); err != nil {
		return nil
	}
	return &event
}

// ResolveOption rolls an event option's success rate and applies its
// reward on success. The pending event is cleared either way.
func (r *Reconciler) ResolveOption(gs *gamestate.GameState, event *parser.RandomEvent, option *parser.EventOption) (bool, string) {
	rate := parsePercent(option.SuccessRate)
	success := r.rng.Float64() < rate

	if success && option.Reward != "" {
		r.ApplyReward(gs, option.Reward)
	}

	gs.PendingEvent = nil
	gs.InputEnabled = true
	gs.RandomEventFlag = 0

	outcome := "失败"
	if success {
		outcome = "成功"
	}
	message := fmt.Sprintf("事件描述: %s\n{{user}}行动选择: %s\n选择结果: %s",
		event.Description, option.Description, outcome)
	return success, message
}

var rewardRe = regexp.MustCompile(`(.+?)([+-])(\d+)`)

// ApplyReward parses an "attribute±amount" reward string and applies it
// to the matching talent or stat. Unknown attributes are skipped.
func (r *Reconciler) ApplyReward(gs *gamestate.GameState, reward string) bool {
	m := rewardRe.FindStringSubmatch(strings.TrimSpace(reward))
	if m == nil {
		r.logger.Warn("unparseable reward", "reward", reward)
		return false
	}
	attribute := m[1]
	value, _ := strconv.Atoi(m[3])
	if m[2] == "-" {
		value = -value
	}

	switch {
	case hasKey(gs.PlayerTalents, attribute):
		gs.PlayerTalents[attribute] += value
	case hasKey(gs.PlayerStats, attribute):
		gs.PlayerStats[attribute] += value
	default:
		r.logger.Warn("unknown reward attribute", "attribute", attribute)
		return false
	}
	gs.ClampAll()
	return true
}

// ApplyBattleReward folds a victory reward into player stats.
func (r *Reconciler) ApplyBattleReward(gs *gamestate.GameState, reward *parser.BattleReward) {
	if reward == nil {
		return
	}
	switch reward.Kind {
	case "金钱", "声望", "武学", "学识":
		gs.PlayerStats[reward.Kind] += reward.Value
	default:
		r.logger.Warn("unknown battle reward kind", "kind", reward.Kind)
		return
	}
	gs.ClampAll()
}

func lastPathSegment(path string) string {
	segments := strings.Split(path, "|")
	return strings.TrimSpace(segments[len(segments)-1])
}

func parsePercent(raw string) float64 {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return float64(n) / 100
}

func hasKey(m map[string]int, key string) bool {
	_, ok := m[key]
	return ok
}
