package gamestate

import (
	"math/rand"
	"testing"
)

func TestAddAndSetItemCount(t *testing.T) {
	gs := NewGameState()

	gs.AddItem("丹参", 3)
	if gs.Inventory["丹参"] != 3 {
		t.Errorf("丹参 = %d, want 3", gs.Inventory["丹参"])
	}

	gs.AddItem("丹参", -3)
	if _, ok := gs.Inventory["丹参"]; ok {
		t.Error("count reaching zero should prune the entry")
	}

	gs.SetItemCount("金疮药", 5)
	if gs.Inventory["金疮药"] != 5 {
		t.Errorf("金疮药 = %d, want 5", gs.Inventory["金疮药"])
	}
	gs.SetItemCount("金疮药", 0)
	if _, ok := gs.Inventory["金疮药"]; ok {
		t.Error("SetItemCount(0) should prune the entry")
	}
}

func TestUseItem(t *testing.T) {
	t.Run("mood consumable", func(t *testing.T) {
		gs := NewGameState()
		gs.PlayerMood = 50
		gs.AddItem("烤饼", 2)

		if err := gs.UseItem("烤饼"); err != nil {
			t.Fatalf("UseItem: %v", err)
		}
		if gs.PlayerMood != 60 {
			t.Errorf("mood = %d, want 60", gs.PlayerMood)
		}
		if gs.Inventory["烤饼"] != 1 {
			t.Errorf("烤饼 = %d, want 1", gs.Inventory["烤饼"])
		}
	})

	t.Run("mood overflow clamps back to cap", func(t *testing.T) {
		// The raw effect may reach 120 but the clamp pass settles at 100.
		gs := NewGameState()
		gs.PlayerMood = 95
		gs.AddItem("雪莲茶", 1)

		if err := gs.UseItem("雪莲茶"); err != nil {
			t.Fatalf("UseItem: %v", err)
		}
		if gs.PlayerMood != 100 {
			t.Errorf("mood = %d, want 100", gs.PlayerMood)
		}
	})

	t.Run("errors", func(t *testing.T) {
		gs := NewGameState()
		if err := gs.UseItem("不存在的东西"); err == nil {
			t.Error("unknown item accepted")
		}
		if err := gs.UseItem("铁剑"); err == nil {
			t.Error("non-usable item accepted")
		}
		if err := gs.UseItem("烤饼"); err == nil {
			t.Error("item not in inventory accepted")
		}
	})
}

func TestEquipUnequipSymmetry(t *testing.T) {
	gs := NewGameState()
	baseAttack := gs.CombatStats["攻击力"]
	gs.AddItem("铁剑", 1)

	if err := gs.EquipItem("铁剑"); err != nil {
		t.Fatalf("EquipItem: %v", err)
	}
	if gs.Equipment["武器"] != "铁剑" {
		t.Errorf("武器 slot = %q, want 铁剑", gs.Equipment["武器"])
	}
	if gs.CombatStats["攻击力"] != baseAttack+10 {
		t.Errorf("攻击力 = %d, want %d", gs.CombatStats["攻击力"], baseAttack+10)
	}
	if _, ok := gs.Inventory["铁剑"]; ok {
		t.Error("equipped item still in inventory")
	}

	if err := gs.UnequipItem("铁剑"); err != nil {
		t.Fatalf("UnequipItem: %v", err)
	}
	if gs.Equipment["武器"] != "" {
		t.Errorf("武器 slot = %q, want empty", gs.Equipment["武器"])
	}
	if gs.CombatStats["攻击力"] != baseAttack {
		t.Errorf("攻击力 = %d, want base %d restored", gs.CombatStats["攻击力"], baseAttack)
	}
	if gs.Inventory["铁剑"] != 1 {
		t.Errorf("铁剑 = %d, want back in inventory", gs.Inventory["铁剑"])
	}
}

func TestEquipSwapsWornItem(t *testing.T) {
	gs := NewGameState()
	baseAttack := gs.CombatStats["攻击力"]
	gs.AddItem("铁剑", 1)
	gs.AddItem("精钢剑", 1)

	if err := gs.EquipItem("铁剑"); err != nil {
		t.Fatalf("EquipItem(铁剑): %v", err)
	}
	if err := gs.EquipItem("精钢剑"); err != nil {
		t.Fatalf("EquipItem(精钢剑): %v", err)
	}

	if gs.Equipment["武器"] != "精钢剑" {
		t.Errorf("武器 slot = %q, want 精钢剑", gs.Equipment["武器"])
	}
	if gs.Inventory["铁剑"] != 1 {
		t.Error("swapped-out item not returned to inventory")
	}
	if gs.CombatStats["攻击力"] != baseAttack+25 {
		t.Errorf("攻击力 = %d, want %d", gs.CombatStats["攻击力"], baseAttack+25)
	}
}

func TestEquipAccessorySlotFallback(t *testing.T) {
	gs := NewGameState()
	gs.AddItem("平安符", 1)
	gs.AddItem("玉佩", 1)

	if err := gs.EquipItem("平安符"); err != nil {
		t.Fatalf("EquipItem(平安符): %v", err)
	}
	if err := gs.EquipItem("玉佩"); err != nil {
		t.Fatalf("EquipItem(玉佩): %v", err)
	}

	if gs.Equipment["饰品1"] != "平安符" || gs.Equipment["饰品2"] != "玉佩" {
		t.Errorf("accessory slots = %q/%q, want 平安符/玉佩",
			gs.Equipment["饰品1"], gs.Equipment["饰品2"])
	}
}

func TestLevelFromWuxue(t *testing.T) {
	tests := []struct {
		wuxue int
		level int
	}{
		{0, 0},
		{4, 0},
		{5, 1},  // level 1 costs 5
		{10, 1},
		{11, 2}, // level 2 costs another 6
		{18, 3},
		{20, 3},
	}

	for _, tt := range tests {
		if got := LevelFromWuxue(tt.wuxue); got != tt.level {
			t.Errorf("LevelFromWuxue(%d) = %d, want %d", tt.wuxue, got, tt.level)
		}
	}
}

func TestWuxueForLevelInverse(t *testing.T) {
	for level := 0; level <= 20; level++ {
		wuxue := WuxueForLevel(level)
		if got := LevelFromWuxue(wuxue); got != level {
			t.Errorf("LevelFromWuxue(WuxueForLevel(%d)) = %d", level, got)
		}
	}
}

func TestRemainingPoints(t *testing.T) {
	gs := NewGameState()
	gs.PlayerStats["武学"] = WuxueForLevel(3)

	if got := gs.RemainingPoints(); got != 3 {
		t.Fatalf("RemainingPoints() = %d, want 3 unspent", got)
	}

	// Spend two points on attack: +10 base attack each.
	gs.CombatStats["攻击力"] += 20
	if got := gs.RemainingPoints(); got != 1 {
		t.Errorf("RemainingPoints() = %d, want 1 after spending 2", got)
	}

	// Equipment bonuses must not count as spent points.
	gs.AddItem("铁剑", 1)
	if err := gs.EquipItem("铁剑"); err != nil {
		t.Fatalf("EquipItem: %v", err)
	}
	if got := gs.RemainingPoints(); got != 1 {
		t.Errorf("RemainingPoints() = %d after equipping, want 1", got)
	}
}

func TestRandomNPCLocation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		loc := RandomNPCLocation("C", rng)
		counts[loc]++
	}

	probs := NPCLocationProbability["C"]
	for loc := range counts {
		if loc == "none" {
			continue
		}
		if _, ok := probs[loc]; !ok {
			t.Errorf("sampled location %q has zero probability", loc)
		}
	}

	if loc := RandomNPCLocation("unknown", rng); loc != "none" {
		t.Errorf("unknown NPC placed at %q, want none", loc)
	}
}

func TestNPCLocationProbabilityRowsSumToOne(t *testing.T) {
	for id, row := range NPCLocationProbability {
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		if sum < 0.999 || sum > 1.001 {
			t.Errorf("NPC %s: probabilities sum to %v, want 1.0", id, sum)
		}
	}
}

func TestNPCNameIDIndex(t *testing.T) {
	for _, id := range NPCIDs() {
		npc, ok := NPCs[id]
		if !ok {
			t.Fatalf("NPCIDs lists %q but roster has no entry", id)
		}
		if back, ok := NPCNameToID[npc.Name]; !ok || back != id {
			t.Errorf("NPCNameToID[%q] = %q, want %q", npc.Name, back, id)
		}
	}
	if len(NPCIDs()) != len(NPCs) {
		t.Errorf("NPCIDs() has %d entries, roster has %d", len(NPCIDs()), len(NPCs))
	}
}

func TestAdvanceWeek(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	gs := NewGameState()
	gs.ActionPoints = 0
	gs.PlayerMood = 40
	gs.NPCSparred["C"] = true
	gs.NPCGiftGiven["E"] = true

	gs.AdvanceWeek(rng)

	if gs.CurrentWeek != 2 {
		t.Errorf("week = %d, want 2", gs.CurrentWeek)
	}
	if gs.ActionPoints != ActionPointsRange.Max {
		t.Errorf("AP = %d, want refill to %d", gs.ActionPoints, ActionPointsRange.Max)
	}
	if gs.PlayerMood != 50 {
		t.Errorf("mood = %d, want 50", gs.PlayerMood)
	}
	if gs.NPCSparred["C"] || gs.NPCGiftGiven["E"] {
		t.Error("weekly flags not reset")
	}
	for _, id := range NPCIDs() {
		if _, ok := gs.NPCLocations[id]; !ok {
			t.Errorf("NPC %s has no location after placement", id)
		}
	}
}

func TestSpendActionPoint(t *testing.T) {
	gs := NewGameState()
	gs.ActionPoints = 2

	spent, exhausted := gs.SpendActionPoint()
	if !spent || exhausted {
		t.Errorf("first spend = (%v, %v), want (true, false)", spent, exhausted)
	}
	spent, exhausted = gs.SpendActionPoint()
	if !spent || !exhausted {
		t.Errorf("last spend = (%v, %v), want (true, true)", spent, exhausted)
	}
	spent, exhausted = gs.SpendActionPoint()
	if spent || !exhausted {
		t.Errorf("empty spend = (%v, %v), want (false, true)", spent, exhausted)
	}
}
