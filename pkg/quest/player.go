package quest

// State is the macro phase of a quest, derived from stage progress.
type State string

const (
	StateBeginning      State = "beginning"
	StateMiddle         State = "middle"
	StateNearingEnd     State = "nearing_end"
	StateFinalChallenge State = "final_challenge"
)

const (
	MaxHP    = 100
	MaxKarma = 100

	// KarmaFloor ends the quest when karma drops below it.
	KarmaFloor = 10
)

// Stage targets are rolled once per session from this range.
const (
	MinTotalStages = 30
	MaxTotalStages = 50
)

// Riddle is an open riddle challenge. While Active, the next input from
// the participant is treated as an answer attempt, not an action.
type Riddle struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Active   bool   `json:"active"`
}

// Player is the complete session record for one participant's quest.
// Records exist only while a quest is in flight; terminal transitions
// remove them from the store rather than flagging them finished.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HP          int    `json:"hp"`
	Karma       int    `json:"karma"`
	Stage       int    `json:"stage"`
	TotalStages int    `json:"total_stages"`
	State       State  `json:"state"`
	InCombat    bool   `json:"in_combat"`
	BattleID    int    `json:"battle_id,omitempty"`
	Scene       string `json:"current_scene,omitempty"`
	Goal        string `json:"quest_goal,omitempty"`
	Riddle      Riddle `json:"riddle"`
	Active      bool   `json:"active"`
}

// NewPlayer creates the session record for a fresh quest. The stage
// target is rolled from the provided source so tests can pin it.
func NewPlayer(id, name string, r Rand) *Player {
	return &Player{
		ID:          id,
		Name:        name,
		HP:          MaxHP,
		Karma:       MaxKarma,
		TotalStages: RollRange(r, MinTotalStages, MaxTotalStages),
		State:       StateBeginning,
		Active:      true,
	}
}

// Progress is the ratio of completed stages to the session target.
func (p *Player) Progress() float64 {
	if p.TotalStages == 0 {
		return 0
	}
	return float64(p.Stage) / float64(p.TotalStages)
}

// StateFor maps a progress ratio to the macro quest state. The 0.3
// boundary is inclusive: 12/40 is already "middle".
func StateFor(progress float64) State {
	switch {
	case progress >= 0.9:
		return StateFinalChallenge
	case progress >= 0.7:
		return StateNearingEnd
	case progress >= 0.3:
		return StateMiddle
	default:
		return StateBeginning
	}
}

// AdvanceStage moves the quest forward one stage and recomputes the
// macro state. State is never stored ahead of stage.
func (p *Player) AdvanceStage() {
	p.Stage++
	p.State = StateFor(p.Progress())
}

// ApplyHP adds a signed delta to HP, clamped to [0,MaxHP].
func (p *Player) ApplyHP(delta int) {
	p.HP = clamp(p.HP+delta, 0, MaxHP)
}

// ApplyKarma adds a signed delta to karma, clamped to [0,MaxKarma].
func (p *Player) ApplyKarma(delta int) {
	p.Karma = clamp(p.Karma+delta, 0, MaxKarma)
}

// Defeated reports whether a vital stat has crossed a terminal bound.
func (p *Player) Defeated() bool {
	return p.HP <= 0 || p.Karma < KarmaFloor
}

// EnterCombat flags the session as mid-battle. Combat and riddle modes
// are mutually exclusive, so any open riddle is dropped.
func (p *Player) EnterCombat(battleID int) {
	p.InCombat = true
	p.BattleID = battleID
	p.Riddle = Riddle{}
}

// LeaveCombat clears the combat flags.
func (p *Player) LeaveCombat() {
	p.InCombat = false
	p.BattleID = 0
}

// PoseRiddle opens a riddle challenge for the next input.
func (p *Player) PoseRiddle(question, answer string) {
	p.Riddle = Riddle{Question: question, Answer: answer, Active: true}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
