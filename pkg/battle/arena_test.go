package battle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/zenquest/pkg/quest"
)

// stubGen returns canned responses in order.
type stubGen struct {
	responses []string
	calls     int
	err       error
}

func (g *stubGen) Generate(ctx context.Context, prompt string, elaborate bool) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	if len(g.responses) == 0 {
		return "", nil
	}
	r := g.responses[0]
	g.responses = g.responses[1:]
	return r, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestArenaRoundTrip(t *testing.T) {
	rng := &scriptRand{vals: []int{
		2, 99, // player strike: roll 14, no crit
		3, 99, // foe strike: roll 15, no crit
	}}
	a := NewArena(nil, rng, testLogger())
	if err := a.Start(42, "Player", "Zen Opponent"); err != nil {
		t.Fatal(err)
	}

	res, err := a.Move(context.Background(), 42, "strike")
	if err != nil {
		t.Fatal(err)
	}
	if res.Over {
		t.Fatal("first exchange should not end the duel")
	}
	if res.FoeHP != 86 {
		t.Errorf("foe hp = %d, want 86", res.FoeHP)
	}
	if res.PlayerHP != 85 {
		t.Errorf("player hp = %d, want 85", res.PlayerHP)
	}
	if res.PlayerEnergy != 38 || res.FoeEnergy != 38 {
		t.Errorf("energies = %d/%d, want 38/38", res.PlayerEnergy, res.FoeEnergy)
	}
	if !strings.Contains(res.Narration, "Player uses Strike, dealing 14 damage.") {
		t.Errorf("narration missing player line:\n%s", res.Narration)
	}
	if !strings.Contains(res.Narration, "Zen Opponent uses Strike, dealing 15 damage.") {
		t.Errorf("narration missing foe line:\n%s", res.Narration)
	}
}

func TestArenaUnknownMove(t *testing.T) {
	a := NewArena(nil, &scriptRand{}, testLogger())
	if err := a.Start(1, "Player", "Foe"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Move(context.Background(), 1, "meditate"); !errors.Is(err, quest.ErrUnknownMove) {
		t.Errorf("err = %v, want ErrUnknownMove", err)
	}
}

func TestArenaNoBattle(t *testing.T) {
	a := NewArena(nil, &scriptRand{}, testLogger())
	if _, err := a.Move(context.Background(), 404, "strike"); !errors.Is(err, quest.ErrNoBattle) {
		t.Errorf("err = %v, want ErrNoBattle", err)
	}
}

func TestArenaForfeit(t *testing.T) {
	a := NewArena(nil, &scriptRand{}, testLogger())
	if err := a.Start(7, "Player", "Foe"); err != nil {
		t.Fatal(err)
	}
	a.Forfeit(7)
	if _, err := a.Move(context.Background(), 7, "strike"); !errors.Is(err, quest.ErrNoBattle) {
		t.Errorf("after forfeit err = %v, want ErrNoBattle", err)
	}
}

func TestArenaVictoryEndsAndRemoves(t *testing.T) {
	rng := &scriptRand{vals: []int{2, 99}} // player strike: 14, no crit
	a := NewArena(nil, rng, testLogger())
	if err := a.Start(9, "Player", "Foe"); err != nil {
		t.Fatal(err)
	}
	a.mu.Lock()
	if err := a.battles[9].foe.actor.SetHP(5); err != nil {
		a.mu.Unlock()
		t.Fatal(err)
	}
	a.mu.Unlock()

	res, err := a.Move(context.Background(), 9, "strike")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Over || !res.PlayerWon {
		t.Fatalf("expected a winning end, got over=%v won=%v", res.Over, res.PlayerWon)
	}
	if res.FoeHP != 0 {
		t.Errorf("foe hp = %d, want 0", res.FoeHP)
	}
	if _, err := a.Move(context.Background(), 9, "strike"); !errors.Is(err, quest.ErrNoBattle) {
		t.Error("a finished duel must be removed from the arena")
	}
}

func TestArenaRefusedMoveKeepsTurn(t *testing.T) {
	a := NewArena(nil, &scriptRand{}, testLogger())
	if err := a.Start(3, "Player", "Foe"); err != nil {
		t.Fatal(err)
	}
	a.mu.Lock()
	a.battles[3].player.energy = 5
	a.mu.Unlock()

	res, err := a.Move(context.Background(), 3, "zenstrike")
	if err != nil {
		t.Fatal(err)
	}
	if res.Over {
		t.Error("refused move must not end the duel")
	}
	if res.FoeHP != MaxHP || res.PlayerHP != MaxHP {
		t.Error("refused move must not change hit points")
	}
	if !strings.Contains(res.Narration, "Not enough energy") {
		t.Errorf("narration = %q, want an energy refusal", res.Narration)
	}
	if res.PlayerEnergy != 5 {
		t.Errorf("player energy = %d, want unchanged 5", res.PlayerEnergy)
	}
}

func TestArenaGeneratorDrivesFoe(t *testing.T) {
	gen := &stubGen{responses: []string{
		"You steady your breath behind a wall of calm.", // player defend narration
		"Zen Strike!", // foe mind
		"A storm of focused will crashes down.", // foe zenstrike narration
	}}
	rng := &scriptRand{vals: []int{
		0, // player defend: heal roll 15
		0, 99, // foe zenstrike: roll 20, no crit
	}}
	a := NewArena(gen, rng, testLogger())
	if err := a.Start(11, "Player", "Zen Opponent"); err != nil {
		t.Fatal(err)
	}

	res, err := a.Move(context.Background(), 11, "defend")
	if err != nil {
		t.Fatal(err)
	}
	if gen.calls != 3 {
		t.Errorf("generator calls = %d, want 3 (narrate, foe mind, narrate)", gen.calls)
	}
	if res.PlayerHP != 80 {
		t.Errorf("player hp = %d, want 80 after the foe's zenstrike", res.PlayerHP)
	}
	if res.FoeEnergy != 10 {
		t.Errorf("foe energy = %d, want 10", res.FoeEnergy)
	}
	if !strings.Contains(res.Narration, "wall of calm") || !strings.Contains(res.Narration, "storm of focused will") {
		t.Errorf("narration should carry generated text:\n%s", res.Narration)
	}
}

func TestArenaGeneratorFailureFallsBack(t *testing.T) {
	gen := &stubGen{err: errors.New("service down")}
	rng := &scriptRand{vals: []int{
		2, 99, // player strike
		3, 99, // foe strike via fallback
	}}
	a := NewArena(gen, rng, testLogger())
	if err := a.Start(12, "Player", "Foe"); err != nil {
		t.Fatal(err)
	}

	res, err := a.Move(context.Background(), 12, "strike")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Narration, "Player uses Strike") {
		t.Errorf("expected plain narration fallback:\n%s", res.Narration)
	}
	if res.PlayerHP != 85 {
		t.Errorf("player hp = %d, want 85", res.PlayerHP)
	}
}

func TestExtractMove(t *testing.T) {
	tests := []struct {
		resp   string
		energy int
		want   Move
	}{
		{"I choose Zen Strike to finish this.", 50, MoveZenStrike},
		{"I choose Zen Strike to finish this.", 30, MoveStrike},
		{"A measured strike.", 50, MoveStrike},
		{"A measured strike.", 5, MoveDefend},
		{"Set the Mind Trap.", 25, MoveMindTrap},
		{"Focus and breathe.", 0, MoveFocus},
		{"The reed bends in the wind.", 80, MoveDefend},
	}
	for _, tt := range tests {
		if got := extractMove(tt.resp, tt.energy); got != tt.want {
			t.Errorf("extractMove(%q, %d) = %q, want %q", tt.resp, tt.energy, got, tt.want)
		}
	}
}

func TestFallbackMove(t *testing.T) {
	fresh := func() (*combatant, *combatant) {
		self, _ := newCombatant("self")
		enemy, _ := newCombatant("enemy")
		return self, enemy
	}

	self, enemy := fresh()
	if got := fallbackMove(self, enemy); got != MoveStrike {
		t.Errorf("fresh duel: %q, want strike", got)
	}

	self, enemy = fresh()
	_ = enemy.actor.SetHP(25)
	self.energy = 45
	if got := fallbackMove(self, enemy); got != MoveZenStrike {
		t.Errorf("finishing blow: %q, want zenstrike", got)
	}

	self, enemy = fresh()
	self.energy = 10
	if got := fallbackMove(self, enemy); got != MoveFocus {
		t.Errorf("drained: %q, want focus", got)
	}

	self, enemy = fresh()
	self.energy = 10
	_ = self.actor.SetHP(35)
	if got := fallbackMove(self, enemy); got != MoveDefend {
		t.Errorf("drained and hurt: %q, want defend", got)
	}

	self, enemy = fresh()
	_ = self.actor.SetHP(25)
	if got := fallbackMove(self, enemy); got != MoveDefend {
		t.Errorf("hurt: %q, want defend", got)
	}

	self, enemy = fresh()
	self.focusActive = true
	self.energy = 60
	if got := fallbackMove(self, enemy); got != MoveZenStrike {
		t.Errorf("after focus: %q, want zenstrike", got)
	}
}
