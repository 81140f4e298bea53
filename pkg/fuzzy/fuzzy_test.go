package fuzzy

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "树林", "树林", 0},
		{"both empty", "", "", 0},
		{"one empty", "", "沙漠", 2},
		{"single substitution", "雪山", "雪原", 1},
		{"counted in runes not bytes", "山谷", "峡谷", 1},
		{"ascii", "kitten", "sitting", 3},
		{"disjoint", "ab", "xyz", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Levenshtein(tt.a, tt.b); got != tt.want {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			// Distance is symmetric.
			if got := Levenshtein(tt.b, tt.a); got != tt.want {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "平静", "平静", 1},
		{"empty input", "", "平静", 0},
		{"half match", "雪山", "雪原", 0.5},
		{"no overlap", "ab", "cd", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.want {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", " 树林 ", "树林"},
		{"folds full-width ascii", "ＮＰＣ１", "NPC1"},
		{"cjk untouched", "峡谷", "峡谷"},
		{"empty", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	options := []string{"沙漠", "山道", "树林", "雪山"}
	synonyms := map[string]string{
		"戈壁":  "沙漠",
		"小路":  "山道",
		"荒地":  "废墟", // target not in options, must never match
	}

	tests := []struct {
		name      string
		input     string
		threshold float64
		want      string
		wantOK    bool
	}{
		{"exact", "树林", 0.4, "树林", true},
		{"exact with padding", " 树林 ", 0.4, "树林", true},
		{"synonym exact", "戈壁", 0.4, "沙漠", true},
		{"containment input contains option", "茂密树林深处", 0.4, "树林", true},
		{"containment option contains input", "雪", 0.4, "雪山", true},
		{"synonym containment", "戈壁滩", 0.4, "沙漠", true},
		{"edit distance above threshold", "雪峰", 0.5, "雪山", true},
		{"edit distance below threshold", "雪峰", 0.6, "", false},
		{"synonym with missing target ignored", "荒地", 0.9, "", false},
		{"empty input", "   ", 0.1, "", false},
		{"nothing close", "钱塘君", 0.6, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(tt.input, options, synonyms, tt.threshold)
			if ok != tt.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatchExactBeatsFuzzy(t *testing.T) {
	// "山道" is an exact member even though "山谷" is one edit away; the
	// precedence order must return the exact hit.
	options := []string{"山谷", "山道"}
	got, ok := Match("山道", options, nil, 0.4)
	if !ok || got != "山道" {
		t.Errorf("Match(山道) = %q, %v, want exact hit 山道", got, ok)
	}
}

func TestMatchSynonymKeyOrderStable(t *testing.T) {
	// Both synonym keys are contained in the input but map to different
	// options. The sorted-first key must win on every call so the result
	// never depends on map iteration order.
	options := []string{"山道", "废墟"}
	synonyms := map[string]string{
		"官道": "山道",
		"破庙": "废墟",
	}
	for i := 0; i < 200; i++ {
		got, ok := Match("官道破庙", options, synonyms, 0.4)
		if !ok || got != "山道" {
			t.Fatalf("call %d: Match(官道破庙) = %q, %v, want 山道 every time", i, got, ok)
		}
	}
}

func TestMatchContainmentOrderStable(t *testing.T) {
	// Both options are contained in the input; the first option in slice
	// order wins.
	options := []string{"树林", "河滩"}
	got, ok := Match("树林河滩交界", options, nil, 0.4)
	if !ok || got != "树林" {
		t.Errorf("Match = %q, %v, want first containment hit 树林", got, ok)
	}
}
