package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/zenquest/pkg/quest"
)

// MemoryStore is the single-process session backend used when no Redis
// URL is configured. Sessions do not survive a restart; the quest
// model accepts that (an interrupted session simply starts over).
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]quest.Player
}

var _ quest.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]quest.Player),
	}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*quest.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (m *MemoryStore) Save(ctx context.Context, p *quest.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[p.ID] = *p
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// MemoryLocker serializes sessions within one process the same way the
// Redis locker does across processes: token-matched holds.
type MemoryLocker struct {
	mu    sync.Mutex
	holds map[string]string
}

var _ quest.Locker = (*MemoryLocker)(nil)

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		holds: make(map[string]string),
	}
}

func (m *MemoryLocker) Acquire(ctx context.Context, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, held := m.holds[id]; held {
		return "", false, nil
	}

	token := uuid.NewString()
	m.holds[id] = token
	return token, true, nil
}

func (m *MemoryLocker) Release(ctx context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.holds[id] == token {
		delete(m.holds, id)
	}
	return nil
}

// MemoryJournal keeps scene trails in process, newest first, capped
// like the Redis journal.
type MemoryJournal struct {
	mu     sync.RWMutex
	scenes map[string][]string
}

var _ quest.Journal = (*MemoryJournal)(nil)

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		scenes: make(map[string][]string),
	}
}

func (m *MemoryJournal) Append(ctx context.Context, id, scene string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	trail := append([]string{scene}, m.scenes[id]...)
	if len(trail) > journalCap {
		trail = trail[:journalCap]
	}
	m.scenes[id] = trail
	return nil
}

func (m *MemoryJournal) Recent(ctx context.Context, id string, n int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trail := m.scenes[id]
	if n > len(trail) {
		n = len(trail)
	}
	if n <= 0 {
		return nil, nil
	}

	out := make([]string, n)
	copy(out, trail[:n])
	return out, nil
}

func (m *MemoryJournal) Clear(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.scenes, id)
	return nil
}

// MemoryLedger tracks zen points in process, floored at zero. Used in
// tests and when running without a database file.
type MemoryLedger struct {
	mu     sync.Mutex
	points map[string]int
}

var _ quest.Ledger = (*MemoryLedger)(nil)

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		points: make(map[string]int),
	}
}

func (m *MemoryLedger) AddPoints(ctx context.Context, id string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	balance := m.points[id] + delta
	if balance < 0 {
		balance = 0
	}
	m.points[id] = balance
	return balance, nil
}

func (m *MemoryLedger) Points(ctx context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.points[id], nil
}
