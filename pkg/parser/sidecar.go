package parser

import (
	"encoding/json"
	"strings"
)

// The side-channel JSON rides alongside the prose and reports state
// directives: time of day, location changes, per-NPC favorability deltas
// and random/battle events. Keys are the narrator's Chinese vocabulary;
// they are part of the wire contract and stay as-is.

// TurnMeta is the parsed side channel. Any missing key means "no change".
type TurnMeta struct {
	Time        string                  `json:"时间,omitempty"`
	User        *UserDelta              `json:"用户,omitempty"`
	NPCs        map[string]NPCTurnDelta `json:"当前NPC,omitempty"`
	RandomEvent *RandomEvent            `json:"随机事件,omitempty"`
}

// UserDelta carries the player's own location change.
type UserDelta struct {
	LocationChange string `json:"位置变动,omitempty"`
}

// NPCTurnDelta is one NPC's reported change for this turn. The location
// change is a pipe-delimited path of display names; only the last
// segment is authoritative.
type NPCTurnDelta struct {
	FavorChange    string `json:"好感变化,omitempty"`
	LocationChange string `json:"位置变动,omitempty"`
}

// RandomEvent is either a plain-choice event with up to three options or
// a battle event carrying enemy info.
type RandomEvent struct {
	EventType   string       `json:"事件类型"`
	Description string       `json:"事件描述"`
	Option1     *EventOption `json:"选项一,omitempty"`
	Option2     *EventOption `json:"选项二,omitempty"`
	Option3     *EventOption `json:"选项三,omitempty"`
	EnemyInfo   *EnemyInfo   `json:"敌方信息,omitempty"`
}

// IsBattle reports whether this event hands off to the battle minigame.
func (e *RandomEvent) IsBattle() bool {
	return e.EventType == "战斗事件"
}

// Options returns the present options in declaration order.
func (e *RandomEvent) Options() []*EventOption {
	var out []*EventOption
	for _, opt := range []*EventOption{e.Option1, e.Option2, e.Option3} {
		if opt != nil {
			out = append(out, opt)
		}
	}
	return out
}

// EventOption is one selectable outcome with a success-gated reward.
type EventOption struct {
	Description string `json:"描述"`
	Reward      string `json:"奖励"`
	SuccessRate string `json:"成功率"`
}

// EnemyInfo describes the battle opponent.
type EnemyInfo struct {
	Name       string        `json:"名称"`
	Attributes *EnemyStats   `json:"属性,omitempty"`
	Reward     *BattleReward `json:"战斗报酬,omitempty"`
}

// EnemyStats are coarse descriptors (高/中/低), not raw numbers.
type EnemyStats struct {
	Attack string `json:"攻击力,omitempty"`
	Health string `json:"生命力,omitempty"`
}

// BattleReward is granted on victory.
type BattleReward struct {
	Kind  string `json:"类型"`
	Value int    `json:"数值"`
}

// ParseSidecar decodes the side channel. Malformed JSON means "no
// directives this turn", never an error: the prose still renders.
func ParseSidecar(raw string) *TurnMeta {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var meta TurnMeta
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil
	}
	return &meta
}
