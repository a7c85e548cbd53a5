package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rsheldon/robotaxi-economics/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir() + "/advisory.db")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func testRecord(t *testing.T, sessionID, question string) *AdvisoryRecord {
	t.Helper()
	snapshot, err := json.Marshal(models.DefaultInputs())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	return &AdvisoryRecord{
		SessionID:  sessionID,
		Question:   question,
		Snapshot:   snapshot,
		Commentary: "Raise utilization.",
		Model:      "claude-test-model",
		LatencyMs:  412,
	}
}

func TestInsertAndRecentBySession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i, q := range []string{"first", "second", "third"} {
		rec := testRecord(t, "session-a", q)
		rec.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		if err := s.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := s.Insert(ctx, testRecord(t, "session-b", "other session")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	records, err := s.RecentBySession(ctx, "session-a", 2)
	if err != nil {
		t.Fatalf("RecentBySession failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Question != "third" {
		t.Errorf("Expected newest record first, got %q", records[0].Question)
	}
	for _, rec := range records {
		if rec.SessionID != "session-a" {
			t.Errorf("Leaked record from session %q", rec.SessionID)
		}
	}
}

func TestRecentBySessionEmpty(t *testing.T) {
	s := openTestStore(t)

	records, err := s.RecentBySession(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("RecentBySession failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestCountSince(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	old := testRecord(t, "session-a", "old")
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	if err := s.Insert(ctx, old); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.Insert(ctx, testRecord(t, "session-a", "fresh")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	count, err := s.CountSince(ctx, "session-a", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountSince failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 recent record, got %d", count)
	}
}

func TestSnapshotRoundTrips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, testRecord(t, "session-a", "snapshot check")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	records, err := s.RecentBySession(ctx, "session-a", 1)
	if err != nil {
		t.Fatalf("RecentBySession failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	var snap models.SimulationInputs
	if err := json.Unmarshal(records[0].Snapshot, &snap); err != nil {
		t.Fatalf("Snapshot unmarshal failed: %v", err)
	}
	if snap != models.DefaultInputs() {
		t.Errorf("Snapshot changed in storage: %+v", snap)
	}
}
