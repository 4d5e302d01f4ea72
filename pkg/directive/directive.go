// Package directive parses the textual sub-protocol embedded in
// generated narrative: HP deltas, control markers, the scene/choices
// split, riddle shapes and morality verdicts. All of the fragile
// substring matching lives here so the tie-break rules are visible and
// testable instead of scattered through control flow.
package directive

import (
	"regexp"
	"strconv"
	"strings"
)

// HPToken introduces an HP delta directive of the form "HP_CHANGE: <int>".
const HPToken = "HP_CHANGE:"

// ChoicesDelimiter separates scene description from the choice menu.
const ChoicesDelimiter = "Your Choices:"

// Marker is a literal control token whose presence in generated text
// short-circuits normal stage progression.
type Marker string

const (
	MarkerCombat   Marker = "COMBAT_START"
	MarkerRiddle   Marker = "RIDDLE_START"
	MarkerComplete Marker = "QUEST_COMPLETE"
	MarkerFail     Marker = "QUEST_FAIL"
)

// markerPriority is the ordered rule list for marker detection. When a
// scene carries more than one marker, the earliest entry here wins.
var markerPriority = []Marker{MarkerCombat, MarkerRiddle, MarkerComplete, MarkerFail}

// FirstMarker returns the highest-priority marker present in the text.
func FirstMarker(text string) (Marker, bool) {
	for _, m := range markerPriority {
		if strings.Contains(text, string(m)) {
			return m, true
		}
	}
	return "", false
}

// NormalizeHPChange validates the first HP directive in the scene. A
// malformed directive (token present but the next token is not an
// integer) is rewritten to "HP_CHANGE: 0" so the delta reads as zero;
// malformed directives are normalized, never rejected. The second
// return reports whether a rewrite happened, for logging.
func NormalizeHPChange(scene string) (string, bool) {
	if !strings.Contains(scene, HPToken) {
		return scene, false
	}
	if _, ok := parseHPDelta(scene); ok {
		return scene, false
	}
	return strings.ReplaceAll(scene, HPToken, HPToken+" 0"), true
}

// HPDelta extracts the applied HP delta: the token immediately after
// the first HP directive, if it parses as an integer. Anything else
// yields zero.
func HPDelta(scene string) int {
	delta, _ := parseHPDelta(scene)
	return delta
}

func parseHPDelta(scene string) (int, bool) {
	_, rest, found := strings.Cut(scene, HPToken)
	if !found {
		return 0, false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, false
	}
	delta, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return delta, true
}

var hpDirectiveRe = regexp.MustCompile(`HP_CHANGE:\s*-?\d+`)

// SplitScene divides generated text into a description and discrete
// choice lines on the fixed delimiter. A missing delimiter yields no
// choices. HP directives and control markers are stripped from the
// description; the stored scene keeps them, the rendered one does not.
func SplitScene(scene string) (string, []string) {
	description := scene
	var choicesRaw string
	if before, after, found := strings.Cut(scene, ChoicesDelimiter); found {
		description = before
		choicesRaw = after
	}
	description = strings.TrimSpace(stripHPDirectives(stripMarkers(description)))

	var choices []string
	for _, line := range strings.Split(choicesRaw, "\n") {
		line = trimChoicePrefix(strings.TrimSpace(line))
		if line != "" {
			choices = append(choices, line)
		}
	}
	return description, choices
}

func stripMarkers(s string) string {
	for _, m := range markerPriority {
		s = strings.ReplaceAll(s, string(m), "")
	}
	return s
}

func stripHPDirectives(s string) string {
	s = hpDirectiveRe.ReplaceAllString(s, "")
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" && len(lines) > 0 && lines[len(lines)-1] == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	return strings.Join(lines, "\n")
}

// trimChoicePrefix drops list enumeration ("1.", "2)", "-", "*") so the
// messaging surface can render its own affordance. Text that merely
// begins with a number ("3 paths diverge") is left alone.
func trimChoicePrefix(line string) string {
	rest := strings.TrimLeft(line, "0123456789")
	if rest != line && (strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, ")")) {
		return strings.TrimSpace(rest[1:])
	}
	line = strings.TrimPrefix(line, "- ")
	line = strings.TrimPrefix(line, "* ")
	return strings.TrimSpace(line)
}

// ParseRiddle extracts a riddle from the expected
// "Question: ... Answer: ..." shape. ok is false when the shape is
// missing, so the caller can fall back to a built-in riddle.
func ParseRiddle(text string) (question, answer string, ok bool) {
	before, after, found := strings.Cut(text, "Answer:")
	if !found {
		return "", "", false
	}
	question = strings.TrimSpace(strings.ReplaceAll(before, "Question:", ""))
	answer = strings.TrimSpace(after)
	if question == "" || answer == "" {
		return "", "", false
	}
	return question, answer, true
}

// ParseVerdict interprets a morality judgment: a response beginning
// with "yes" (case-insensitive) marks the action immoral. The reason is
// the text after the first colon when present, else the whole response.
func ParseVerdict(response string) (immoral bool, reason string) {
	trimmed := strings.TrimSpace(response)
	immoral = strings.HasPrefix(strings.ToLower(trimmed), "yes")
	if _, after, found := strings.Cut(trimmed, ":"); found {
		reason = strings.TrimSpace(after)
	} else {
		reason = trimmed
	}
	return immoral, reason
}

// Consequence classifies the outcome of a severe-consequence narration.
type Consequence string

const (
	ConsequenceQuestFail  Consequence = "quest_fail"
	ConsequenceCombat     Consequence = "combat"
	ConsequenceAffliction Consequence = "affliction"
)

// consequenceRules is the ordered (keyword, outcome) list; the first
// matching keyword wins and the absence of any match is an affliction.
var consequenceRules = []struct {
	keyword string
	outcome Consequence
}{
	{"quest_fail", ConsequenceQuestFail},
	{"combat", ConsequenceCombat},
}

// ClassifyConsequence maps a generated consequence text onto one of the
// three fixed categories.
func ClassifyConsequence(text string) Consequence {
	lower := strings.ToLower(text)
	for _, rule := range consequenceRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.outcome
		}
	}
	return ConsequenceAffliction
}
