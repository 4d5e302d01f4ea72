package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func openTestLedger(t *testing.T, path string) *SQLiteLedger {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ledger, err := OpenLedger(path, logger)
	if err != nil {
		t.Fatalf("OpenLedger failed: %v", err)
	}
	return ledger
}

func TestOpenLedgerRequiresPath(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := OpenLedger("  ", logger); err == nil {
		t.Fatal("Expected error for empty path")
	}
}

func TestSQLiteLedger_AddAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ledger := openTestLedger(t, path)
	defer func() { _ = ledger.Close() }()

	ctx := context.Background()

	balance, err := ledger.AddPoints(ctx, "p1", 30)
	if err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}
	if balance != 30 {
		t.Errorf("Expected balance 30, got %d", balance)
	}

	balance, err = ledger.AddPoints(ctx, "p1", 15)
	if err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}
	if balance != 45 {
		t.Errorf("Expected balance 45, got %d", balance)
	}

	// Losses floor at zero rather than going negative
	balance, err = ledger.AddPoints(ctx, "p1", -100)
	if err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}
	if balance != 0 {
		t.Errorf("Expected floor at 0, got %d", balance)
	}

	points, err := ledger.Points(ctx, "p1")
	if err != nil {
		t.Fatalf("Points failed: %v", err)
	}
	if points != 0 {
		t.Errorf("Expected 0 points, got %d", points)
	}
}

func TestSQLiteLedger_PlayersAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ledger := openTestLedger(t, path)
	defer func() { _ = ledger.Close() }()

	ctx := context.Background()

	if _, err := ledger.AddPoints(ctx, "p1", 40); err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}
	if _, err := ledger.AddPoints(ctx, "p2", 10); err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}

	p1, err := ledger.Points(ctx, "p1")
	if err != nil {
		t.Fatalf("Points failed: %v", err)
	}
	p2, err := ledger.Points(ctx, "p2")
	if err != nil {
		t.Fatalf("Points failed: %v", err)
	}

	if p1 != 40 || p2 != 10 {
		t.Errorf("Expected 40/10, got %d/%d", p1, p2)
	}

	missing, err := ledger.Points(ctx, "p3")
	if err != nil {
		t.Fatalf("Points for unknown player failed: %v", err)
	}
	if missing != 0 {
		t.Errorf("Expected 0 for unknown player, got %d", missing)
	}
}

func TestSQLiteLedger_BalanceSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	ledger := openTestLedger(t, path)
	if _, err := ledger.AddPoints(ctx, "p1", 35); err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}
	if err := ledger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := openTestLedger(t, path)
	defer func() { _ = reopened.Close() }()

	points, err := reopened.Points(ctx, "p1")
	if err != nil {
		t.Fatalf("Points failed: %v", err)
	}
	if points != 35 {
		t.Errorf("Expected balance to survive reopen, got %d", points)
	}
}
