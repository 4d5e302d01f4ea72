package quest

import "context"

// MoveResult reports one exchanged combat round: the player's move and
// the foe's answer, already applied.
type MoveResult struct {
	Narration    string
	PlayerHP     int
	PlayerEnergy int
	FoeHP        int
	FoeEnergy    int
	Over         bool
	PlayerWon    bool
}

// BattleSystem resolves combat encounters. The engine owns only entry,
// exit and surrender bookkeeping; move resolution lives behind this
// interface. Move returns ErrUnknownMove for text that is not a move
// and ErrNoBattle when the id no longer resolves (for example after a
// restart); a refused move for lack of energy is a normal result, not
// an error.
type BattleSystem interface {
	Start(battleID int, playerName, foeName string) error
	Move(ctx context.Context, battleID int, move string) (MoveResult, error)
	Forfeit(battleID int)
}
