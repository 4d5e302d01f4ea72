package quest

import (
	"context"
	"errors"
	"sync"
)

// GenerateCall records one request to a MockGenerator.
type GenerateCall struct {
	Prompt    string
	Elaborate bool
}

// MockGenerator is a mock implementation of Generator for testing.
// Responses are consumed front-first; when the queue is empty the
// mock returns "Mock response" unless GenerateFunc overrides it.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, elaborate bool) (string, error)
	Responses    []string

	// Track calls for testing
	Calls []GenerateCall

	mu sync.Mutex
}

var _ Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a mock generator that replies with the
// given responses in order.
func NewMockGenerator(responses ...string) *MockGenerator {
	return &MockGenerator{Responses: responses}
}

// Generate mocks narrative generation.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, elaborate bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, GenerateCall{Prompt: prompt, Elaborate: elaborate})

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, elaborate)
	}
	if len(m.Responses) > 0 {
		resp := m.Responses[0]
		m.Responses = m.Responses[1:]
		return resp, nil
	}
	return "Mock response", nil
}

// Enqueue appends responses to the reply queue.
func (m *MockGenerator) Enqueue(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses = append(m.Responses, responses...)
}

// SetError sets up the mock to fail every generation with err.
func (m *MockGenerator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = func(ctx context.Context, prompt string, elaborate bool) (string, error) {
		return "", err
	}
}

// CallCount returns how many generations were requested.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// GetCalls returns a copy of the recorded calls.
func (m *MockGenerator) GetCalls() []GenerateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]GenerateCall, len(m.Calls))
	copy(calls, m.Calls)
	return calls
}

// MockStore is a mock implementation of Store for testing. Sessions
// live in an in-memory map.
type MockStore struct {
	mu       sync.RWMutex
	sessions map[string]*Player

	loadErr   error
	saveErr   error
	deleteErr error
}

var _ Store = (*MockStore)(nil)

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{sessions: make(map[string]*Player)}
}

// Load mocks loading a session.
func (m *MockStore) Load(ctx context.Context, id string) (*Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	p, exists := m.sessions[id]
	if !exists {
		return nil, nil // not found
	}
	cp := *p
	return &cp, nil
}

// Save mocks saving a session.
func (m *MockStore) Save(ctx context.Context, p *Player) error {
	if p == nil {
		return errors.New("player cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *p
	m.sessions[p.ID] = &cp
	return nil
}

// Delete mocks deleting a session.
func (m *MockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.sessions, id)
	return nil
}

// Get returns the stored session without the Store error plumbing,
// for assertions.
func (m *MockStore) Get(id string) *Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Put seeds a session directly.
func (m *MockStore) Put(p *Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.sessions[p.ID] = &cp
}

// Len reports how many sessions are stored.
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SetLoadError sets up the mock to fail loads with err.
func (m *MockStore) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetSaveError sets up the mock to fail saves with err.
func (m *MockStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// SetDeleteError sets up the mock to fail deletes with err.
func (m *MockStore) SetDeleteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteErr = err
}

// MockLocker is a mock implementation of Locker for testing. By
// default every acquire succeeds.
type MockLocker struct {
	mu       sync.Mutex
	busy     bool
	acquires []string
	releases []string
}

var _ Locker = (*MockLocker)(nil)

// NewMockLocker creates a mock locker.
func NewMockLocker() *MockLocker {
	return &MockLocker{}
}

// Acquire mocks taking the session lock.
func (m *MockLocker) Acquire(ctx context.Context, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acquires = append(m.acquires, id)
	if m.busy {
		return "", false, nil
	}
	return "mock-token", true, nil
}

// Release mocks releasing the session lock.
func (m *MockLocker) Release(ctx context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases = append(m.releases, id)
	return nil
}

// SetBusy makes subsequent acquires report the session as held.
func (m *MockLocker) SetBusy(busy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = busy
}

// AcquireCount reports how many acquires were attempted.
func (m *MockLocker) AcquireCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.acquires)
}

// ReleaseCount reports how many releases happened.
func (m *MockLocker) ReleaseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.releases)
}

// MockLedger is a mock implementation of Ledger for testing. Balances
// floor at zero like the real thing.
type MockLedger struct {
	mu     sync.Mutex
	points map[string]int
	err    error
}

var _ Ledger = (*MockLedger)(nil)

// NewMockLedger creates an empty mock ledger.
func NewMockLedger() *MockLedger {
	return &MockLedger{points: make(map[string]int)}
}

// AddPoints mocks adjusting a balance.
func (m *MockLedger) AddPoints(ctx context.Context, id string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	total := m.points[id] + delta
	if total < 0 {
		total = 0
	}
	m.points[id] = total
	return total, nil
}

// Points mocks reading a balance.
func (m *MockLedger) Points(ctx context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.points[id], nil
}

// SetError sets up the mock to fail all ledger calls with err.
func (m *MockLedger) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetPoints seeds a balance directly.
func (m *MockLedger) SetPoints(id string, points int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[id] = points
}

// MockJournal is a mock implementation of Journal for testing.
type MockJournal struct {
	mu     sync.Mutex
	scenes map[string][]string
}

var _ Journal = (*MockJournal)(nil)

// NewMockJournal creates an empty mock journal.
func NewMockJournal() *MockJournal {
	return &MockJournal{scenes: make(map[string][]string)}
}

// Append mocks recording a scene.
func (m *MockJournal) Append(ctx context.Context, id, scene string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenes[id] = append(m.scenes[id], scene)
	return nil
}

// Recent mocks reading the newest scenes, newest first.
func (m *MockJournal) Recent(ctx context.Context, id string, n int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.scenes[id]
	out := make([]string, 0, n)
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

// Clear mocks dropping a session's journal.
func (m *MockJournal) Clear(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scenes, id)
	return nil
}

// SceneCount reports how many scenes are journaled for a session.
func (m *MockJournal) SceneCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scenes[id])
}

// MockPublisher is a mock implementation of Publisher for testing.
type MockPublisher struct {
	mu     sync.Mutex
	events []Event
}

var _ Publisher = (*MockPublisher)(nil)

// NewMockPublisher creates a mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish mocks emitting an event.
func (m *MockPublisher) Publish(ctx context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

// Events returns a copy of everything published.
func (m *MockPublisher) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]Event, len(m.events))
	copy(events, m.events)
	return events
}

// Types returns just the published event types, in order.
func (m *MockPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, ev := range m.events {
		types[i] = ev.Type
	}
	return types
}

// MoveCall records one request to MockBattles.Move.
type MoveCall struct {
	BattleID int
	Move     string
}

// MockBattles is a mock implementation of BattleSystem for testing.
// By default every move lands and the battle stays open.
type MockBattles struct {
	StartFunc   func(battleID int, playerName, foeName string) error
	MoveFunc    func(ctx context.Context, battleID int, move string) (MoveResult, error)
	ForfeitFunc func(battleID int)

	// Track calls for testing
	StartCalls   []int
	MoveCalls    []MoveCall
	ForfeitCalls []int

	mu sync.Mutex
}

var _ BattleSystem = (*MockBattles)(nil)

// NewMockBattles creates a mock battle system.
func NewMockBattles() *MockBattles {
	return &MockBattles{}
}

// Start mocks opening a battle.
func (m *MockBattles) Start(battleID int, playerName, foeName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalls = append(m.StartCalls, battleID)
	if m.StartFunc != nil {
		return m.StartFunc(battleID, playerName, foeName)
	}
	return nil
}

// Move mocks one battle round.
func (m *MockBattles) Move(ctx context.Context, battleID int, move string) (MoveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MoveCalls = append(m.MoveCalls, MoveCall{BattleID: battleID, Move: move})
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, battleID, move)
	}
	return MoveResult{
		Narration:    "Mock battle round",
		PlayerHP:     90,
		PlayerEnergy: 50,
		FoeHP:        85,
		FoeEnergy:    45,
	}, nil
}

// Forfeit mocks abandoning a battle.
func (m *MockBattles) Forfeit(battleID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ForfeitCalls = append(m.ForfeitCalls, battleID)
	if m.ForfeitFunc != nil {
		m.ForfeitFunc(battleID)
	}
}

// SetOutcome makes every move end the battle with the given result.
func (m *MockBattles) SetOutcome(playerWon bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MoveFunc = func(ctx context.Context, battleID int, move string) (MoveResult, error) {
		return MoveResult{
			Narration: "Mock final round",
			Over:      true,
			PlayerWon: playerWon,
		}, nil
	}
}
