package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jwebster45206/zenquest/pkg/quest"
)

const zenPointsSchema = `
CREATE TABLE IF NOT EXISTS zen_points (
	player_id  TEXT PRIMARY KEY,
	balance    INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL
);`

// SQLiteLedger is the durable zen-points ledger. Sessions come and go
// with the quest store; the point balance is the one thing that
// outlives them.
type SQLiteLedger struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ quest.Ledger = (*SQLiteLedger)(nil)

// OpenLedger opens (creating if needed) the ledger database at path
// and applies the schema.
func OpenLedger(path string, logger *slog.Logger) (*SQLiteLedger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.Exec(zenPointsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}

	return &SQLiteLedger{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (l *SQLiteLedger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// AddPoints applies a signed delta to the player's balance, floored at
// zero, and returns the new balance.
func (l *SQLiteLedger) AddPoints(ctx context.Context, id string, delta int) (int, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var balance int
	err = tx.QueryRowContext(ctx, `SELECT balance FROM zen_points WHERE player_id = ?`, id).Scan(&balance)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("read ledger balance: %w", err)
	}

	balance += delta
	if balance < 0 {
		balance = 0
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO zen_points (player_id, balance, updated_at) VALUES (?, ?, ?)
ON CONFLICT(player_id) DO UPDATE SET balance = excluded.balance, updated_at = excluded.updated_at`,
		id, balance, time.Now().UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("write ledger balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit ledger tx: %w", err)
	}

	l.logger.Debug("Ledger updated", "player_id", id, "delta", delta, "balance", balance)
	return balance, nil
}

// Points returns the player's balance, zero for unknown players.
func (l *SQLiteLedger) Points(ctx context.Context, id string) (int, error) {
	var balance int
	err := l.db.QueryRowContext(ctx, `SELECT balance FROM zen_points WHERE player_id = ?`, id).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read ledger balance: %w", err)
	}
	return balance, nil
}
