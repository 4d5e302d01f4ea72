// Package actionguard screens participant actions against the fixed
// denylists before any narrative work runs: impossible acts are
// rejected outright, story-ending acts fail the quest.
package actionguard

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Verdict classifies a proposed action.
type Verdict int

const (
	VerdictOK Verdict = iota

	// VerdictUnfeasible: the act is impossible in the quest realm;
	// reject with no state change.
	VerdictUnfeasible

	// VerdictForbidden: the act ends the quest immediately in defeat.
	VerdictForbidden
)

var unfeasibleActs = []string{
	"fly", "teleport", "time travel", "breathe underwater", "become invisible",
	"read minds", "shoot lasers", "transform", "resurrect", "conjure",
	"summon creatures", "control weather", "phase through walls",
}

var forbiddenActs = []string{
	"give up", "abandon quest", "betray", "destroy sacred artifact",
	"harm innocent", "break vow", "ignore warning",
	"consume poison", "jump off cliff", "attack ally", "steal from temple",
}

// Guard screens actions. Matching is case-folded substring containment,
// so "Teleport to the temple" trips on "teleport". Unfeasible phrases
// are checked before forbidden ones; an action containing both is
// merely rejected, not fatal.
type Guard struct {
	folder cases.Caser
}

// NewGuard creates a guard with an English case folder, so screening
// stays correct for inputs with non-ASCII casing.
func NewGuard() *Guard {
	return &Guard{folder: cases.Lower(language.English)}
}

// Check classifies the action and returns the denylist phrase that
// matched, if any.
func (g *Guard) Check(action string) (Verdict, string) {
	folded := g.folder.String(action)
	for _, phrase := range unfeasibleActs {
		if strings.Contains(folded, phrase) {
			return VerdictUnfeasible, phrase
		}
	}
	for _, phrase := range forbiddenActs {
		if strings.Contains(folded, phrase) {
			return VerdictForbidden, phrase
		}
	}
	return VerdictOK, ""
}
