package quest

import "errors"

// Sentinel errors mapped to transport responses by the API layer.
var (
	// ErrNoQuest means no active session exists for the id. The engine
	// never mutates or narrates for stale sessions.
	ErrNoQuest = errors.New("no active quest")

	// ErrQuestBusy means another action for the same session is still
	// being processed.
	ErrQuestBusy = errors.New("quest is busy")

	// ErrUnknownMove is returned by a BattleSystem when the submitted
	// text is not one of the fixed combat moves.
	ErrUnknownMove = errors.New("unknown combat move")

	// ErrNoBattle is returned by a BattleSystem when the battle id does
	// not resolve to a live encounter.
	ErrNoBattle = errors.New("no such battle")
)
