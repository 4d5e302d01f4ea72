package quest

import "context"

// Store owns Player session records keyed by session id. At most one
// record exists per id. Load returns (nil, nil) when no record exists.
type Store interface {
	Load(ctx context.Context, id string) (*Player, error)
	Save(ctx context.Context, p *Player) error
	Delete(ctx context.Context, id string) error
}

// Locker serializes action processing per session: one in-flight action
// per participant. Acquire returns ok=false when the session is already
// held; the token releases only the matching acquisition, so an expired
// hold cannot release a newer one.
type Locker interface {
	Acquire(ctx context.Context, id string) (token string, ok bool, err error)
	Release(ctx context.Context, id, token string) error
}

// Ledger records zen point awards across quests. Balances are floored
// at zero. AddPoints returns the new balance.
type Ledger interface {
	AddPoints(ctx context.Context, id string, delta int) (int, error)
	Points(ctx context.Context, id string) (int, error)
}

// Journal keeps a capped trail of delivered scenes per session, replayed
// on status requests and reconnects. Best effort: callers log and
// continue on error.
type Journal interface {
	Append(ctx context.Context, id, scene string) error
	Recent(ctx context.Context, id string, n int) ([]string, error)
	Clear(ctx context.Context, id string) error
}

// Event is a session lifecycle notification for observers.
type Event struct {
	Type      string         `json:"type"`
	SessionID string         `json:"session_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// Publisher broadcasts lifecycle events. Fire and forget from the
// engine's perspective; implementations must not block the quest loop.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Event type values published by the engine.
const (
	EventQuestStarted     = "quest.started"
	EventSceneDelivered   = "quest.scene"
	EventBattleStarted    = "quest.battle_started"
	EventBattleEnded      = "quest.battle_ended"
	EventRiddlePosed      = "quest.riddle_posed"
	EventMeditated        = "quest.meditation"
	EventQuestCompleted   = "quest.completed"
	EventQuestFailed      = "quest.failed"
	EventQuestInterrupted = "quest.interrupted"
)
