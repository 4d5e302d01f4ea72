// Package battle resolves duels between the quest player and a single
// foe. Five moves trade hit points and an energy meter; consecutive
// moves form synergies, and a focused or mind-trapped combatant
// resolves the next move under modified odds. The package exposes the
// whole system to the engine through the Arena registry.
package battle

import (
	"fmt"
	"math"
	"strings"

	"github.com/jwebster45206/d20"

	"github.com/jwebster45206/zenquest/pkg/quest"
)

// Move is one of the five duel actions.
type Move string

const (
	MoveStrike    Move = "strike"
	MoveDefend    Move = "defend"
	MoveFocus     Move = "focus"
	MoveZenStrike Move = "zenstrike"
	MoveMindTrap  Move = "mindtrap"
)

const (
	// MaxHP is a combatant's full health.
	MaxHP = 100
	// MaxEnergy caps the energy meter.
	MaxEnergy = 100
	// StartingEnergy is the meter's value when a duel begins.
	StartingEnergy = 50
)

var energyCosts = map[Move]int{
	MoveStrike:    12,
	MoveZenStrike: 40,
	MoveMindTrap:  20,
	MoveDefend:    0,
	MoveFocus:     0,
}

// ParseMove maps player input to a move. It tolerates case and the
// spaced spellings used in menus ("Zen Strike", "Mind Trap").
func ParseMove(input string) (Move, bool) {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, " ", "")
	switch Move(s) {
	case MoveStrike, MoveDefend, MoveFocus, MoveZenStrike, MoveMindTrap:
		return Move(s), true
	}
	return "", false
}

// Label returns the display name of a move.
func (m Move) Label() string {
	switch m {
	case MoveStrike:
		return "Strike"
	case MoveDefend:
		return "Defend"
	case MoveFocus:
		return "Focus"
	case MoveZenStrike:
		return "Zen Strike"
	case MoveMindTrap:
		return "Mind Trap"
	}
	return string(m)
}

// combatant couples a d20 actor (hit point bookkeeping) with the duel
// meters and the synergy flags carried between turns.
type combatant struct {
	name  string
	actor *d20.Actor

	energy       int
	previousMove Move
	focusActive  bool

	// Set by the opponent's mind trap: the next move resolves at half
	// effect, and an attack loses energyDrain on top of its cost.
	mindTrapped bool
	energyDrain int

	// reflectPct sends part of the next incoming attack back at the
	// attacker, then clears.
	reflectPct float64
}

func newCombatant(name string) (*combatant, error) {
	a, err := d20.NewActor(name).
		WithHP(MaxHP).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build combatant %q: %w", name, err)
	}
	return &combatant{name: name, actor: a, energy: StartingEnergy}, nil
}

func (c *combatant) hp() int { return c.actor.HP() }

func (c *combatant) defeated() bool { return c.actor.HP() <= 0 }

func (c *combatant) takeDamage(n int) error {
	hp := c.actor.HP() - n
	if hp < 0 {
		hp = 0
	}
	return c.actor.SetHP(hp)
}

func (c *combatant) heal(n int) error {
	hp := c.actor.HP() + n
	if hp > c.actor.MaxHP() {
		hp = c.actor.MaxHP()
	}
	return c.actor.SetHP(hp)
}

// report records what a single resolved move did.
type report struct {
	move       Move
	refused    bool
	damage     int
	heal       int
	reflected  int
	energyCost int
	energyGain int
	crit       bool
	synergy    []string
}

func round(f float64) int { return int(math.Round(f)) }

// resolve applies one move by attacker against defender. A move the
// attacker cannot afford is refused and changes nothing. Synergy rules:
// an active focus boosts this move, otherwise the attacker's previous
// move may. A pending mind trap halves damage, healing or focus gain
// and then clears.
func resolve(attacker, defender *combatant, mv Move, rng quest.Rand) (report, error) {
	rep := report{move: mv, energyCost: energyCosts[mv]}
	if attacker.energy < rep.energyCost {
		rep.refused = true
		return rep, nil
	}

	mult := 1.0
	if attacker.mindTrapped {
		mult = 0.5
	}
	attacker.mindTrapped = false
	focused := attacker.focusActive

	switch mv {
	case MoveStrike:
		dmg := quest.RollRange(rng, 12, 18)
		critChance := 10
		switch {
		case focused:
			dmg = round(float64(dmg) * 1.2)
			critChance = 30
			rep.synergy = append(rep.synergy, "Focus boosts your Strike, adding extra power and critical chance.")
		case attacker.previousMove == MoveDefend:
			dmg = round(float64(dmg) * 1.1)
			critChance = 20
			rep.synergy = append(rep.synergy, "Your defensive stance empowers your Strike.")
			if rng.Intn(2) == 0 {
				rep.energyGain = 5
				rep.synergy = append(rep.synergy, "You regain 5 energy.")
			}
		case attacker.previousMove == MoveMindTrap:
			dmg = round(float64(dmg) * 1.15)
			rep.synergy = append(rep.synergy, "Your previous Mind Trap enhances your Strike, dealing bonus damage.")
		}
		if rng.Intn(100) < critChance {
			rep.crit = true
			dmg *= 2
			rep.synergy = append(rep.synergy, "Critical hit! You double the damage.")
			if focused {
				rep.energyGain += 10
			}
		}
		rep.damage = round(float64(dmg) * mult)
		if err := landAttack(attacker, defender, &rep); err != nil {
			return rep, err
		}

	case MoveZenStrike:
		dmg := quest.RollRange(rng, 20, 30)
		critChance := 20
		switch {
		case focused:
			dmg = round(float64(dmg) * 1.3)
			critChance = 50
			rep.synergy = append(rep.synergy, "Focus empowers your Zen Strike, greatly amplifying its impact and critical chance.")
		case attacker.previousMove == MoveStrike:
			dmg = round(float64(dmg) * 1.1)
			critChance = 35
			rep.synergy = append(rep.synergy, "Your previous Strike enhances Zen Strike's power.")
		}
		if rng.Intn(100) < critChance {
			rep.crit = true
			dmg *= 2
			rep.synergy = append(rep.synergy, "Critical hit! Your Zen Strike devastates the opponent.")
		}
		rep.damage = round(float64(dmg) * mult)
		if err := landAttack(attacker, defender, &rep); err != nil {
			return rep, err
		}

	case MoveDefend:
		rep.energyGain = 10
		heal := quest.RollRange(rng, 15, 25)
		if focused {
			heal = round(float64(heal) * 1.3)
			rep.synergy = append(rep.synergy, "Focus increases your healing power significantly.")
		}
		switch attacker.previousMove {
		case MoveZenStrike:
			heal += 10
			rep.synergy = append(rep.synergy, "Your previous Zen Strike enhances your Defend, providing additional healing.")
		case MoveMindTrap:
			attacker.reflectPct = 0.1
			rep.synergy = append(rep.synergy, "Your previous Mind Trap enhances Defend, preparing to reflect part of the opponent's next attack.")
		}
		rep.heal = round(float64(heal) * mult)
		if err := attacker.heal(rep.heal); err != nil {
			return rep, err
		}

	case MoveFocus:
		gain := round(float64(quest.RollRange(rng, 20, 30)) * mult)
		switch attacker.previousMove {
		case MoveZenStrike:
			gain *= 2
			rep.synergy = append(rep.synergy, "Zen Strike boosts Focus, doubling your energy gain.")
		case MoveStrike:
			gain += 10
			rep.synergy = append(rep.synergy, "Your previous Strike enhances Focus, providing additional energy recovery.")
		case MoveMindTrap:
			gain = round(float64(gain) * 1.5)
			rep.synergy = append(rep.synergy, "Your previous Mind Trap enhances Focus, boosting your energy gain.")
		}
		rep.energyGain = gain
		rep.synergy = append([]string{fmt.Sprintf("Focus prepares you for the next move, recovering %d energy and enhancing your next action.", gain)}, rep.synergy...)

	case MoveMindTrap:
		defender.mindTrapped = true
		defender.energyDrain = 10
		rep.synergy = append(rep.synergy, "Mind Trap set. Your opponent's next move will be weakened, and they'll lose energy if they attack.")
		switch attacker.previousMove {
		case MoveStrike:
			defender.energyDrain += 5
			rep.synergy = append(rep.synergy, "Your previous Strike enhances Mind Trap, causing additional energy loss.")
		case MoveDefend:
			attacker.reflectPct = 0.1
			rep.synergy = append(rep.synergy, "Your previous Defend enhances Mind Trap, preparing to reflect part of the opponent's next attack.")
		}

	default:
		return rep, fmt.Errorf("unknown move %q", mv)
	}

	attacker.energy = clampEnergy(attacker.energy - rep.energyCost + rep.energyGain)
	attacker.previousMove = mv
	attacker.focusActive = mv == MoveFocus

	// A mind-trapped attacker pays the trap's drain when striking.
	if mv == MoveStrike || mv == MoveZenStrike {
		attacker.energy = clampEnergy(attacker.energy - attacker.energyDrain)
		attacker.energyDrain = 0
	}
	return rep, nil
}

// landAttack applies damage and any reflected portion, then clears the
// defender's reflect charge.
func landAttack(attacker, defender *combatant, rep *report) error {
	if defender.reflectPct > 0 {
		rep.reflected = round(float64(rep.damage) * defender.reflectPct)
		defender.reflectPct = 0
	}
	if err := defender.takeDamage(rep.damage); err != nil {
		return err
	}
	if rep.reflected > 0 {
		rep.synergy = append(rep.synergy, fmt.Sprintf("The opponent's reflection deals %d damage back to you.", rep.reflected))
		if err := attacker.takeDamage(rep.reflected); err != nil {
			return err
		}
	}
	return nil
}

func clampEnergy(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxEnergy {
		return MaxEnergy
	}
	return n
}
