// Package parser turns one narrator turn's raw payload into a normalized
// ParsedTurn. It never fails on malformed input: fragments that break the
// line protocol degrade into plain narrative text attached to the nearest
// valid page instead of being dropped.
package parser

import (
	"regexp"
	"strings"
)

// Page is one unit of paged output: prose plus its display directives,
// each either a validated vocabulary member or the sentinel.
type Page struct {
	Text    string `json:"text"`
	NPC     string `json:"npc"`
	Scene   string `json:"scene"`
	Emotion string `json:"emotion"`
	CG      string `json:"cg"`
}

// ParsedTurn is the normalized result of one narrator response.
type ParsedTurn struct {
	// Pages is populated in paged mode; Prose in classic mode.
	Pages []Page `json:"pages,omitempty"`
	Prose string `json:"prose,omitempty"`

	Meta *TurnMeta `json:"meta,omitempty"`
}

var (
	slgBlockPattern   = regexp.MustCompile(`(?s)<SLG_MODE>\s*(.*?)\s*</SLG_MODE>`)
	mainTextPattern   = regexp.MustCompile(`(?s)<MAIN_TEXT>\s*(.*?)\s*</MAIN_TEXT>`)
	sideNotePattern   = regexp.MustCompile(`(?s)<SIDE_NOTE>\s*(.*?)\s*</SIDE_NOTE>`)
	summaryPattern    = regexp.MustCompile(`(?s)<SUMMARY>\s*(.*?)\s*</SUMMARY>`)
)

// Sections is a raw turn payload split into its tagged parts. Scripted
// special-event text uses the same envelope as live narrator output, so
// both replay through this splitter.
type Sections struct {
	MainText string
	SideNote string
	Summary  string
}

// SplitSections extracts the tagged sections from a raw blob. A blob
// without tags is treated as all main text.
func SplitSections(raw string) Sections {
	body := raw
	if m := slgBlockPattern.FindStringSubmatch(raw); m != nil {
		body = m[1]
	}

	s := Sections{}
	if m := mainTextPattern.FindStringSubmatch(body); m != nil {
		s.MainText = m[1]
	} else {
		stripped := sideNotePattern.ReplaceAllString(body, "")
		stripped = summaryPattern.ReplaceAllString(stripped, "")
		s.MainText = strings.TrimSpace(stripped)
	}
	if m := sideNotePattern.FindStringSubmatch(body); m != nil {
		s.SideNote = m[1]
	}
	if m := summaryPattern.FindStringSubmatch(body); m != nil {
		s.Summary = m[1]
	}
	return s
}

// ParseSLG applies the 5-field line protocol: every non-blank line splits
// on "|" into text|npc|scene|emotion|cg. Invalid lines are not discarded;
// their text buffers up and merges into the next valid line's text,
// joined by a blank line. Trailing orphan text becomes its own page
// reusing the last valid page's directives. Companion names extend the
// NPC vocabulary for the duration of the parse.
func ParseSLG(mainText string, companions ...string) []Page {
	var pages []Page
	var pending []string

	for _, line := range strings.Split(mainText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		page, ok := parseLine(line, companions)
		if !ok {
			pending = append(pending, orphanText(line))
			continue
		}

		if len(pending) > 0 {
			page.Text = strings.Join(append(pending, page.Text), "\n\n")
			pending = nil
		}
		pages = append(pages, page)
	}

	if len(pending) > 0 {
		trailing := Page{
			Text:    strings.Join(pending, "\n\n"),
			NPC:     None,
			Scene:   None,
			Emotion: None,
			CG:      None,
		}
		if len(pages) > 0 {
			last := pages[len(pages)-1]
			trailing.NPC = last.NPC
			trailing.Scene = last.Scene
			trailing.Emotion = last.Emotion
			trailing.CG = last.CG
		}
		pages = append(pages, trailing)
	}

	return pages
}

// ParseClassic treats the whole payload as one prose block.
func ParseClassic(mainText string) string {
	text := strings.ReplaceAll(mainText, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(regexp.MustCompile(`\n+`).ReplaceAllString(text, "\n"))
}

// parseLine validates one protocol line. A line is valid only when it
// has exactly 5 fields and every directive token resolves against its
// vocabulary (or is the sentinel). The CG field alone never invalidates:
// an unrecognized CG normalizes to the sentinel.
func parseLine(line string, companions []string) (Page, bool) {
	fields := strings.Split(line, "|")
	if len(fields) != 5 {
		return Page{}, false
	}

	npcToken := NormalizeToken(fields[1])
	sceneToken := NormalizeToken(fields[2])
	emotionToken := NormalizeToken(fields[3])

	npc := MatchNPC(fields[1], companions...)
	if npcToken != None && npc == None {
		return Page{}, false
	}
	scene := MatchScene(fields[2])
	if sceneToken != None && scene == None {
		return Page{}, false
	}
	emotion := MatchEmotion(fields[3])
	if emotionToken != None && emotion == None {
		return Page{}, false
	}

	return Page{
		Text:    strings.TrimSpace(fields[0]),
		NPC:     npc,
		Scene:   scene,
		Emotion: emotion,
		CG:      MatchCG(fields[4]),
	}, true
}

// orphanText salvages the prose portion of an invalid line: the first
// field when the pipe count is close to the protocol, otherwise the
// whole line.
func orphanText(line string) string {
	if fields := strings.Split(line, "|"); len(fields) == 5 {
		return strings.TrimSpace(fields[0])
	}
	return line
}
