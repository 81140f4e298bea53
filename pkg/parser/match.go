package parser

import (
	"regexp"
	"strings"

	"github.com/Ji-Haitang/char-card-1/pkg/fuzzy"
	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
)

// Sentinel for an absent display directive.
const None = "none"

var (
	specialCGPattern = regexp.MustCompile(`^特殊CG\d+$`)
	tokenCleaner     = regexp.MustCompile(`[^\p{Han}\p{Latin}0-9]`)
)

// NormalizeToken prepares a directive field for matching: fold widths,
// trim, strip everything that is not CJK, Latin or a digit, and map the
// empty result, "无" and any casing of "none" to the sentinel.
func NormalizeToken(raw string) string {
	token := fuzzy.Normalize(raw)
	token = tokenCleaner.ReplaceAllString(token, "")
	if token == "" || token == "无" || strings.EqualFold(token, None) {
		return None
	}
	return token
}

// MatchNPC resolves a token to an NPC display name. Exact name and exact
// ID hits come first, then containment over names, then edit distance.
// Companions travel outside the fixed roster but count as valid speakers
// while attached, so their names join the candidate set.
func MatchNPC(raw string, companions ...string) string {
	token := NormalizeToken(raw)
	if token == None {
		return None
	}

	if _, ok := gamestate.NPCNameToID[token]; ok {
		return token
	}
	if npc, ok := gamestate.NPCs[token]; ok {
		return npc.Name
	}

	names := make([]string, 0, len(gamestate.NPCs)+len(companions))
	for _, id := range gamestate.NPCIDs() {
		names = append(names, gamestate.NPCs[id].Name)
	}
	for _, c := range companions {
		if npc, ok := gamestate.NPCs[c]; ok {
			names = append(names, npc.Name)
			continue
		}
		names = append(names, c)
	}
	if match, ok := fuzzy.Match(token, names, nil, gamestate.NPCMatchThreshold); ok {
		return match
	}
	return None
}

// MatchScene resolves a token to a scene name, loosely.
func MatchScene(raw string) string {
	token := NormalizeToken(raw)
	if token == None {
		return None
	}
	if match, ok := fuzzy.Match(token, gamestate.SceneOptions, gamestate.SceneSynonyms, gamestate.SceneMatchThreshold); ok {
		return match
	}
	return None
}

// MatchEmotion resolves a token to an emotion name. Special CG markers
// (特殊CG followed by digits) pass through untouched.
func MatchEmotion(raw string) string {
	token := NormalizeToken(raw)
	if token == None {
		return None
	}
	if specialCGPattern.MatchString(token) {
		return token
	}
	if match, ok := fuzzy.Match(token, gamestate.EmotionOptions, gamestate.EmotionSynonyms, gamestate.EmotionMatchThreshold); ok {
		return match
	}
	return None
}

// MatchCG resolves a token to a CG name by exact then containment match.
// An unrecognized CG degrades to the sentinel rather than invalidating
// the line.
func MatchCG(raw string) string {
	token := NormalizeToken(raw)
	if token == None {
		return None
	}
	for _, option := range gamestate.CGOptions {
		if token == option {
			return option
		}
	}
	for _, option := range gamestate.CGOptions {
		if option == None {
			continue
		}
		if strings.Contains(token, option) || strings.Contains(option, token) {
			return option
		}
	}
	return None
}
