package reconcile

import (
	"encoding/json"
	"fmt"

	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
)

// Minigames (blackjack, turn-based battle, farm, alchemy, world map) run
// as external collaborators. The engine passes typed parameters out and
// folds the typed exit payloads back into the state here. Counts in exit
// payloads are absolute remaining values, not increments.

// BattleParams is the hand-off contract for the battle minigame.
type BattleParams struct {
	PlayerName      string `json:"playerName"`
	PlayerAttack    int    `json:"playerAttack"`
	PlayerHealth    int    `json:"playerHealth"`
	EnemyName       string `json:"enemyName"`
	EnemyMaxHealth  int    `json:"enemyMaxHealth"`
	EnemyBasicDamage int   `json:"enemyBasicDamage"`
	Background      string `json:"backgroundUrl"`
	Difficulty      string `json:"difficulty"`
}

// NewBattleParams builds the outgoing parameter set for a battle.
func NewBattleParams(gs *gamestate.GameState, playerName, enemyName string, enemyMaxHealth, enemyBasicDamage int) BattleParams {
	return BattleParams{
		PlayerName:       playerName,
		PlayerAttack:     gs.CombatStats["攻击力"],
		PlayerHealth:     gs.CombatStats["生命值"],
		EnemyName:        enemyName,
		EnemyMaxHealth:   enemyMaxHealth,
		EnemyBasicDamage: enemyBasicDamage,
		Background:       gamestate.LocationNames[gs.UserLocation],
		Difficulty:       string(gs.Difficulty),
	}
}

// PillCounts are the consumables the battle minigame may spend.
type PillCounts struct {
	Daliwan     int `json:"daliwan"`
	Jingutie    int `json:"jingutie"`
	Jinchuangyao int `json:"jinchuangyao"`
	Piliwan     int `json:"piliwan"`
}

// BattleResult is the battle exit payload.
type BattleResult struct {
	Outcome        string      `json:"result"` // victory, defeat, quit
	BattleType     string      `json:"battleType,omitempty"` // npc or event
	NPCID          string      `json:"npcId,omitempty"`
	RemainingItems *PillCounts `json:"remainingItems,omitempty"`
}

// FoldBattle applies a battle exit payload: consumable counts sync, spar
// bookkeeping and rewards for NPC matches, event rewards for battle
// events. Returns the user-turn result message.
func (r *Reconciler) FoldBattle(gs *gamestate.GameState, result *BattleResult) string {
	if result.RemainingItems != nil {
		gs.SetItemCount("大力丸", result.RemainingItems.Daliwan)
		gs.SetItemCount("筋骨贴", result.RemainingItems.Jingutie)
		gs.SetItemCount("金疮药", result.RemainingItems.Jinchuangyao)
		gs.SetItemCount("霹雳丸", result.RemainingItems.Piliwan)
	}

	switch result.BattleType {
	case "npc":
		return r.foldNPCSpar(gs, result)
	case "event":
		return r.foldEventBattle(gs, result)
	}
	gs.ClampAll()
	return ""
}

func (r *Reconciler) foldNPCSpar(gs *gamestate.GameState, result *BattleResult) string {
	npc, ok := gamestate.NPCs[result.NPCID]
	if !ok {
		r.logger.Warn("unknown spar opponent", "npc_id", result.NPCID)
		return ""
	}

	// Win or lose, one spar per NPC per week.
	gs.NPCSparred[result.NPCID] = true

	message := fmt.Sprintf("{{user}}行动选择：武艺切磋\n切磋对手：%s\n", npc.Name)
	if result.Outcome == "victory" {
		message += "比试结果：胜利\n\n属性变化："
		if reward, ok := gamestate.SparRewards[result.NPCID]; ok {
			if hasKey(gs.PlayerTalents, reward.Stat) {
				gs.PlayerTalents[reward.Stat] += reward.Value
			} else if hasKey(gs.PlayerStats, reward.Stat) {
				gs.PlayerStats[reward.Stat] += reward.Value
			}
			message += fmt.Sprintf("\n%s: +%d", reward.Stat, reward.Value)
		}
	} else {
		message += "比试结果：失败\n\n属性变化：\n无"
	}

	gs.ClampAll()
	return message
}

func (r *Reconciler) foldEventBattle(gs *gamestate.GameState, result *BattleResult) string {
	event := PendingEvent(gs)
	gs.PendingEvent = nil
	gs.InputEnabled = true
	gs.BattleEventFlag = 0

	if event == nil || event.EnemyInfo == nil {
		gs.ClampAll()
		return ""
	}

	if result.Outcome == "victory" {
		rewardNote := ""
		if event.EnemyInfo.Reward != nil {
			r.ApplyBattleReward(gs, event.EnemyInfo.Reward)
			rewardNote = fmt.Sprintf("\n获得奖励：%s+%d", event.EnemyInfo.Reward.Kind, event.EnemyInfo.Reward.Value)
		}
		return fmt.Sprintf("%s\n\n你迎战%s并获得了胜利！%s", event.Description, event.EnemyInfo.Name, rewardNote)
	}
	return fmt.Sprintf("%s\n\n你迎战%s但是不幸败北。", event.Description, event.EnemyInfo.Name)
}

// BlackjackResult is the casino exit payload.
type BlackjackResult struct {
	Money int `json:"money"`
}

// FoldBlackjack syncs the currency total.
func (r *Reconciler) FoldBlackjack(gs *gamestate.GameState, result *BlackjackResult) string {
	gs.PlayerStats["金钱"] = result.Money
	gs.ClampAll()
	return fmt.Sprintf("赌场游戏结束\n当前金钱：%d", gs.PlayerStats["金钱"])
}

// SeedCounts are the farm's crop seeds.
type SeedCounts struct {
	Wheat     int `json:"wheat"`
	Eggplant  int `json:"eggplant"`
	Melon     int `json:"melon"`
	Sugarcane int `json:"sugarcane"`
}

// FarmResult is the farm exit payload.
type FarmResult struct {
	Money    int             `json:"money"`
	Seeds    *SeedCounts     `json:"seeds,omitempty"`
	FarmGrid json.RawMessage `json:"farmGrid,omitempty"`
}

// FoldFarm syncs money, seed counts and the plot state.
func (r *Reconciler) FoldFarm(gs *gamestate.GameState, result *FarmResult) {
	gs.PlayerStats["金钱"] = result.Money
	if result.Seeds != nil {
		gs.SetItemCount("小麦种子", result.Seeds.Wheat)
		gs.SetItemCount("茄子种子", result.Seeds.Eggplant)
		gs.SetItemCount("甜瓜种子", result.Seeds.Melon)
		gs.SetItemCount("甘蔗种子", result.Seeds.Sugarcane)
	}
	gs.LastFarmWeek = gs.CurrentWeek
	gs.FarmGrid = result.FarmGrid
	gs.ClampAll()
}

// HerbCounts are the alchemy ingredients.
type HerbCounts struct {
	Danshen   int `json:"danshen"`
	Danggui   int `json:"danggui"`
	Moyao     int `json:"moyao"`
	Chenxiang int `json:"chenxiang"`
}

// TalentValues mirror the alchemy minigame's absolute talent report.
type TalentValues struct {
	RootBone      *int `json:"rootBone,omitempty"`
	Comprehension *int `json:"comprehension,omitempty"`
	Nature        *int `json:"nature,omitempty"`
	Charm         *int `json:"charm,omitempty"`
}

// AlchemyResult is the alchemy exit payload.
type AlchemyResult struct {
	Money   int           `json:"money"`
	Herbs   *HerbCounts   `json:"herbs,omitempty"`
	Pills   *PillCounts   `json:"pills,omitempty"`
	Talents *TalentValues `json:"playerStats,omitempty"`
}

// FoldAlchemy syncs money, ingredient and pill counts, and absolute
// talent values.
func (r *Reconciler) FoldAlchemy(gs *gamestate.GameState, result *AlchemyResult) {
	gs.PlayerStats["金钱"] = result.Money
	if result.Herbs != nil {
		gs.SetItemCount("丹参", result.Herbs.Danshen)
		gs.SetItemCount("当归", result.Herbs.Danggui)
		gs.SetItemCount("没药", result.Herbs.Moyao)
		gs.SetItemCount("沉香", result.Herbs.Chenxiang)
	}
	if result.Pills != nil {
		gs.SetItemCount("大力丸", result.Pills.Daliwan)
		gs.SetItemCount("筋骨贴", result.Pills.Jingutie)
		gs.SetItemCount("金疮药", result.Pills.Jinchuangyao)
		gs.SetItemCount("霹雳丸", result.Pills.Piliwan)
	}
	if result.Talents != nil {
		if result.Talents.RootBone != nil {
			gs.PlayerTalents["根骨"] = *result.Talents.RootBone
		}
		if result.Talents.Comprehension != nil {
			gs.PlayerTalents["悟性"] = *result.Talents.Comprehension
		}
		if result.Talents.Nature != nil {
			gs.PlayerTalents["心性"] = *result.Talents.Nature
		}
		if result.Talents.Charm != nil {
			gs.PlayerTalents["魅力"] = *result.Talents.Charm
		}
	}
	gs.ClampAll()
}

// WorldMapResult is the excursion exit payload.
type WorldMapResult struct {
	MapLocation  string   `json:"mapLocation,omitempty"`
	CompanionNPC []string `json:"companionNPC,omitempty"`
	RandomEvent  *int     `json:"randomEvent,omitempty"`
	BattleEvent  *int     `json:"battleEvent,omitempty"`
}

// FoldWorldMap records the destination and companions and returns the
// excursion user-turn message. Companion entries may arrive as names or
// IDs; both normalize to display names.
func (r *Reconciler) FoldWorldMap(gs *gamestate.GameState, result *WorldMapResult) string {
	if result.MapLocation != "" {
		gs.MapLocation = result.MapLocation
	}
	if result.CompanionNPC != nil {
		gs.CompanionNPC = result.CompanionNPC
	}
	if result.RandomEvent != nil {
		gs.RandomEventFlag = *result.RandomEvent
	}
	if result.BattleEvent != nil {
		gs.BattleEventFlag = *result.BattleEvent
	}

	companions := "无"
	if len(gs.CompanionNPC) > 0 {
		names := make([]string, 0, len(gs.CompanionNPC))
		for _, entry := range gs.CompanionNPC {
			id := entry
			if mapped, ok := gamestate.NPCNameToID[entry]; ok {
				id = mapped
			}
			if npc, ok := gamestate.NPCs[id]; ok {
				names = append(names, npc.Name)
			} else {
				names = append(names, entry)
			}
		}
		companions = joinNames(names)
	}

	eventInfo := ""
	if gs.RandomEventFlag == 1 {
		eventInfo += "\n特殊事件：发现随机事件"
	}
	if gs.BattleEventFlag == 1 {
		eventInfo += "\n特殊事件：遭遇战斗"
	}

	// Excursions narrate in paged mode.
	gs.GameMode = gamestate.ModeSLG
	gs.ClampAll()

	return fmt.Sprintf("{{user}}行动选择：下山游历\n抵达目的地：%s\n随行NPC：%s%s",
		gs.MapLocation, companions, eventInfo)
}

func joinNames(names []string) string {
	out := ""
	for i, name := range names {
		if i > 0 {
			out += "、"
		}
		out += name
	}
	return out
}
