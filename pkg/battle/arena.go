package battle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jwebster45206/zenquest/pkg/prompts"
	"github.com/jwebster45206/zenquest/pkg/quest"
)

// Arena tracks the live duels of this process. Battles are ephemeral:
// a restart forgets them, and the engine recovers by dropping the
// player back into the story.
type Arena struct {
	mu      sync.Mutex
	battles map[int]*duel

	gen    quest.Generator
	rng    quest.Rand
	logger *slog.Logger
}

type duel struct {
	mu     sync.Mutex
	player *combatant
	foe    *combatant
}

var _ quest.BattleSystem = (*Arena)(nil)

// NewArena creates an empty battle registry. gen narrates moves and
// picks the foe's answers; a nil gen falls back to plain narration and
// a deterministic foe.
func NewArena(gen quest.Generator, rng quest.Rand, logger *slog.Logger) *Arena {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = quest.NewRand()
	}
	return &Arena{
		battles: make(map[int]*duel),
		gen:     gen,
		rng:     rng,
		logger:  logger,
	}
}

// Start registers a fresh duel under battleID, replacing any previous
// duel with the same id.
func (a *Arena) Start(battleID int, playerName, foeName string) error {
	player, err := newCombatant(playerName)
	if err != nil {
		return err
	}
	foe, err := newCombatant(foeName)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.battles[battleID] = &duel{player: player, foe: foe}
	return nil
}

// Forfeit removes a duel without a winner.
func (a *Arena) Forfeit(battleID int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.battles, battleID)
}

// Move resolves one full round: the player's move and, if the duel
// still stands, the foe's answer. A finished duel is removed before
// the result returns.
func (a *Arena) Move(ctx context.Context, battleID int, input string) (quest.MoveResult, error) {
	mv, ok := ParseMove(input)
	if !ok {
		return quest.MoveResult{}, quest.ErrUnknownMove
	}

	a.mu.Lock()
	d, ok := a.battles[battleID]
	a.mu.Unlock()
	if !ok {
		return quest.MoveResult{}, quest.ErrNoBattle
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	rep, err := resolve(d.player, d.foe, mv, a.rng)
	if err != nil {
		return quest.MoveResult{}, err
	}
	if rep.refused {
		res := d.result("Not enough energy for this move.")
		return res, nil
	}
	lines := []string{a.narrate(ctx, d.player.name, rep)}

	if d.foe.defeated() || d.player.defeated() {
		a.Forfeit(battleID)
		res := d.result(strings.Join(lines, "\n\n"))
		res.Over = true
		res.PlayerWon = d.foe.defeated()
		return res, nil
	}

	foeMv := a.chooseFoeMove(ctx, d)
	frep, err := resolve(d.foe, d.player, foeMv, a.rng)
	if err != nil {
		return quest.MoveResult{}, err
	}
	if frep.refused {
		lines = append(lines, fmt.Sprintf("%s hesitates, lacking the energy to act.", d.foe.name))
	} else {
		lines = append(lines, a.narrate(ctx, d.foe.name, frep))
	}

	res := d.result(strings.Join(lines, "\n\n"))
	if d.player.defeated() || d.foe.defeated() {
		a.Forfeit(battleID)
		res.Over = true
		res.PlayerWon = !d.player.defeated()
	}
	return res, nil
}

func (d *duel) result(narration string) quest.MoveResult {
	return quest.MoveResult{
		Narration:    narration,
		PlayerHP:     d.player.hp(),
		PlayerEnergy: d.player.energy,
		FoeHP:        d.foe.hp(),
		FoeEnergy:    d.foe.energy,
	}
}

// narrate asks the generation service for flavor text and falls back
// to a plain summary when unavailable. Synergy notes are always
// appended verbatim.
func (a *Arena) narrate(ctx context.Context, name string, rep report) string {
	text := ""
	if a.gen != nil {
		prompt := prompts.BattleMove(rep.move.Label(), rep.damage, rep.heal, rep.energyCost, rep.energyGain)
		resp, err := a.gen.Generate(ctx, prompt, false)
		if err != nil {
			a.logger.Warn("battle narration failed", "error", err)
		} else {
			text = strings.TrimSpace(resp)
		}
	}
	if text == "" {
		text = plainNarration(name, rep)
	}
	if len(rep.synergy) > 0 {
		text += "\n\n" + strings.Join(rep.synergy, " ")
	}
	return text
}

func plainNarration(name string, rep report) string {
	switch rep.move {
	case MoveStrike, MoveZenStrike:
		return fmt.Sprintf("%s uses %s, dealing %d damage.", name, rep.move.Label(), rep.damage)
	case MoveDefend:
		return fmt.Sprintf("%s defends, restoring %d HP.", name, rep.heal)
	case MoveFocus:
		return fmt.Sprintf("%s focuses, recovering %d energy.", name, rep.energyGain)
	case MoveMindTrap:
		return fmt.Sprintf("%s sets a mind trap.", name)
	}
	return fmt.Sprintf("%s acts.", name)
}

// chooseFoeMove asks the generation service to play the foe and
// extracts a move from its answer, gated by what the foe can afford.
// "zen strike" is matched before "strike" because the latter is a
// substring of the former. On any failure a deterministic heuristic
// takes over.
func (a *Arena) chooseFoeMove(ctx context.Context, d *duel) Move {
	if a.gen != nil {
		prompt := prompts.FoeMind(prompts.FoeMindParams{
			HP:         d.foe.hp(),
			MaxHP:      d.foe.actor.MaxHP(),
			Energy:     d.foe.energy,
			OpponentHP: d.player.hp(),
			LastMove:   string(d.foe.previousMove),
		})
		resp, err := a.gen.Generate(ctx, prompt, false)
		if err == nil {
			return extractMove(resp, d.foe.energy)
		}
		a.logger.Warn("foe move selection failed", "error", err)
	}
	return fallbackMove(d.foe, d.player)
}

func extractMove(resp string, energy int) Move {
	s := strings.ToLower(resp)
	switch {
	case strings.Contains(s, "zen strike") && energy >= energyCosts[MoveZenStrike]:
		return MoveZenStrike
	case strings.Contains(s, "strike") && energy >= energyCosts[MoveStrike]:
		return MoveStrike
	case strings.Contains(s, "mind trap") && energy >= energyCosts[MoveMindTrap]:
		return MoveMindTrap
	case strings.Contains(s, "focus"):
		return MoveFocus
	}
	return MoveDefend
}

// fallbackMove plays the foe without the generation service: finish a
// weakened opponent, recover when drained or hurt, otherwise trade
// strikes.
func fallbackMove(self, enemy *combatant) Move {
	switch {
	case self.energy >= energyCosts[MoveZenStrike] && (enemy.hp() <= 30 || self.focusActive):
		return MoveZenStrike
	case self.energy < 20 && self.hp() <= 40:
		return MoveDefend
	case self.energy < 20:
		return MoveFocus
	case self.hp() <= 30:
		return MoveDefend
	case self.energy >= energyCosts[MoveStrike]:
		return MoveStrike
	}
	return MoveDefend
}
