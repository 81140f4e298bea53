package gamestate

// Clamp bounds v to [min, max].
func Clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampAll re-checks every bounded stat against its configured range.
// It runs after every mutation path, not only at batch end, so a bad
// intermediate value can never leak into a save.
func (gs *GameState) ClampAll() {
	for key, r := range TalentRanges {
		if v, ok := gs.PlayerTalents[key]; ok {
			gs.PlayerTalents[key] = Clamp(v, r.Min, r.Max)
		}
	}
	for key, r := range StatRanges {
		if v, ok := gs.PlayerStats[key]; ok {
			gs.PlayerStats[key] = Clamp(v, r.Min, r.Max)
		}
	}
	for key, r := range CombatRanges {
		if v, ok := gs.CombatStats[key]; ok {
			gs.CombatStats[key] = Clamp(v, r.Min, r.Max)
		}
	}
	gs.PlayerMood = Clamp(gs.PlayerMood, MoodRange.Min, MoodRange.Max)
	for id, v := range gs.NPCFavorability {
		gs.NPCFavorability[id] = Clamp(v, FavorabilityRange.Min, FavorabilityRange.Max)
	}
	gs.ActionPoints = Clamp(gs.ActionPoints, ActionPointsRange.Min, ActionPointsRange.Max)
	gs.CurrentWeek = Clamp(gs.CurrentWeek, WeekRange.Min, WeekRange.Max)

	gs.PruneInventory()
}
