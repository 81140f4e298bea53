package gamestate

import (
	"fmt"
	"math/rand"
)

// Inventory and equipment operations. The inventory never persists a
// zero or negative count; equipping and unequipping apply an item's
// combat bonus symmetrically so combat stats always equal base plus the
// sum of currently worn bonuses.

// AddItem increases an item count. Non-positive totals are pruned.
func (gs *GameState) AddItem(name string, count int) {
	gs.Inventory[name] += count
	if gs.Inventory[name] <= 0 {
		delete(gs.Inventory, name)
	}
}

// SetItemCount overwrites an item count, pruning at zero. Used when a
// minigame reports back absolute remaining counts.
func (gs *GameState) SetItemCount(name string, count int) {
	if count <= 0 {
		delete(gs.Inventory, name)
		return
	}
	gs.Inventory[name] = count
}

// PruneInventory drops all zero and negative entries.
func (gs *GameState) PruneInventory() {
	for name, count := range gs.Inventory {
		if count <= 0 {
			delete(gs.Inventory, name)
		}
	}
}

// UseItem consumes one unit of a usable item and applies its effect.
// Consumables may push mood past the base cap up to 120; the clamp pass
// afterward restores the configured range.
func (gs *GameState) UseItem(name string) error {
	item, ok := ItemCatalog[name]
	if !ok {
		return fmt.Errorf("unknown item: %s", name)
	}
	if !item.Usable {
		return fmt.Errorf("item not usable: %s", name)
	}
	if gs.Inventory[name] <= 0 {
		return fmt.Errorf("item not in inventory: %s", name)
	}

	if item.UseStat == "playerMood" {
		gs.PlayerMood += item.UseValue
		if gs.PlayerMood > 120 {
			gs.PlayerMood = 120
		}
	}
	gs.AddItem(name, -1)
	gs.ClampAll()
	return nil
}

// EquipItem moves an item from the inventory into its slot, swapping out
// and re-shelving whatever was worn there, and applies the stat bonus.
func (gs *GameState) EquipItem(name string) error {
	item, ok := ItemCatalog[name]
	if !ok {
		return fmt.Errorf("unknown item: %s", name)
	}
	if !item.Equippable {
		return fmt.Errorf("item not equippable: %s", name)
	}
	if gs.Inventory[name] <= 0 {
		return fmt.Errorf("item not in inventory: %s", name)
	}

	var slot string
	switch item.EquipType {
	case "武器":
		slot = "武器"
	case "防具":
		slot = "防具"
	case "饰品":
		switch {
		case gs.Equipment["饰品1"] == "":
			slot = "饰品1"
		case gs.Equipment["饰品2"] == "":
			slot = "饰品2"
		default:
			slot = "饰品1"
		}
	default:
		return fmt.Errorf("unknown equip type for %s: %s", name, item.EquipType)
	}

	if old := gs.Equipment[slot]; old != "" {
		if oldItem, ok := ItemCatalog[old]; ok {
			gs.CombatStats[oldItem.EquipStat] -= oldItem.EquipValue
		}
		gs.AddItem(old, 1)
	}

	gs.Equipment[slot] = name
	gs.CombatStats[item.EquipStat] += item.EquipValue
	gs.AddItem(name, -1)
	gs.ClampAll()
	return nil
}

// UnequipItem removes a worn item back into the inventory and reverses
// its stat bonus.
func (gs *GameState) UnequipItem(name string) error {
	var slot string
	for s, worn := range gs.Equipment {
		if worn == name {
			slot = s
			break
		}
	}
	if slot == "" {
		return fmt.Errorf("item not equipped: %s", name)
	}

	if item, ok := ItemCatalog[name]; ok {
		gs.CombatStats[item.EquipStat] -= item.EquipValue
	}
	gs.Equipment[slot] = ""
	gs.AddItem(name, 1)
	gs.ClampAll()
	return nil
}

// equipmentBonus totals the worn bonuses for one combat stat.
func (gs *GameState) equipmentBonus(stat string) int {
	total := 0
	for _, worn := range gs.Equipment {
		if worn == "" {
			continue
		}
		if item, ok := ItemCatalog[worn]; ok && item.EquipStat == stat {
			total += item.EquipValue
		}
	}
	return total
}

// LevelFromWuxue converts accumulated martial-arts experience into level
// points. Reaching level n costs 4+n on top of the previous levels, up
// to level 20.
func LevelFromWuxue(wuxue int) int {
	total := 0
	level := 0
	for i := 1; i <= 20; i++ {
		required := 4 + i
		if total+required > wuxue {
			break
		}
		total += required
		level = i
	}
	return level
}

// WuxueForLevel is the total experience needed to reach a level.
func WuxueForLevel(level int) int {
	total := 0
	for i := 1; i <= level; i++ {
		total += 4 + i
	}
	return total
}

// RemainingPoints is how many earned level points are still unspent.
// Spent points are derived from base combat stats, net of equipment
// bonuses: +10 attack or +25 health per point.
func (gs *GameState) RemainingPoints() int {
	earned := LevelFromWuxue(gs.PlayerStats["武学"])

	baseAttack := gs.CombatStats["攻击力"] - gs.equipmentBonus("攻击力")
	baseHP := gs.CombatStats["生命值"] - gs.equipmentBonus("生命值")

	used := (baseAttack-20)/10 + (baseHP-50)/25
	if remaining := earned - used; remaining > 0 {
		return remaining
	}
	return 0
}

// RandomNPCLocation samples the NPC's placement distribution.
func RandomNPCLocation(npcID string, rng *rand.Rand) string {
	probabilities, ok := NPCLocationProbability[npcID]
	if !ok {
		return "none"
	}
	roll := rng.Float64()
	cumulative := 0.0
	for _, loc := range locationProbabilityOrder {
		p, present := probabilities[loc]
		if !present {
			continue
		}
		cumulative += p
		if roll <= cumulative {
			return loc
		}
	}
	return "none"
}

// locationProbabilityOrder fixes the sampling iteration order so the
// distribution is deterministic for a given seed.
var locationProbabilityOrder = []string{
	"yanwuchang", "cangjingge", "huofang", "houshan", "yishiting",
	"tiejiangpu", "nandizi", "nvdizi", "shanmen", "none",
}
