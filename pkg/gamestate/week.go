package gamestate

import "math/rand"

// AdvanceWeek rolls the calendar forward one week: action points refill,
// the weekly spar and gift flags reset, mood recovers a little, and
// every NPC is re-placed by their location distribution.
func (gs *GameState) AdvanceWeek(rng *rand.Rand) {
	gs.CurrentWeek++
	gs.ActionPoints = ActionPointsRange.Max
	gs.PlayerMood += 10

	for id := range gs.NPCSparred {
		gs.NPCSparred[id] = false
	}
	for id := range gs.NPCGiftGiven {
		gs.NPCGiftGiven[id] = false
	}

	for _, id := range NPCIDs() {
		gs.NPCLocations[id] = RandomNPCLocation(id, rng)
	}

	gs.ClampAll()
}

// SpendActionPoint consumes one action point if available and reports
// whether the spend drained the week's last point.
func (gs *GameState) SpendActionPoint() (spent, exhausted bool) {
	if gs.ActionPoints <= 0 {
		return false, true
	}
	gs.ActionPoints--
	return true, gs.ActionPoints == 0
}
