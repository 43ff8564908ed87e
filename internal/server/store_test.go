package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playperu/picmatch/internal/database"
	"github.com/playperu/picmatch/internal/picmatch"
)

func newTestStore(t *testing.T) *ScoreDocStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Memory)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewScoreStore(ctx, db)
	if err != nil {
		t.Fatalf("init score store: %v", err)
	}
	return store
}

func testResult(sessionID string, completedAt time.Time, score int) picmatch.SessionResult {
	return picmatch.SessionResult{
		SessionID:      sessionID,
		TotalTime:      12500 * time.Millisecond,
		TotalCorrect:   2,
		TotalIncorrect: 2,
		Score:          score,
		Rounds:         1,
		CompletedAt:    completedAt,
	}
}

func TestScoreStoreSaveAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := store.SaveResult(ctx, testResult("s1", at, 10)); err != nil {
		t.Fatalf("save: %v", err)
	}

	records, err := store.ListScores(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.SessionID != "s1" || rec.Correct != 2 || rec.Incorrect != 2 || rec.Score != 10 || rec.Rounds != 1 {
		t.Errorf("record = %+v", rec)
	}
	if rec.TimeSeconds != 12.5 {
		t.Errorf("time = %v, want 12.5", rec.TimeSeconds)
	}
	if !rec.CreatedAt.Equal(at) {
		t.Errorf("created at = %v, want %v", rec.CreatedAt, at)
	}
	if rec.ID == "" {
		t.Error("record has no id")
	}

	got, err := store.GetScore(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SessionID != "s1" {
		t.Errorf("get session = %q, want s1", got.SessionID)
	}
}

func TestScoreStoreSavesSessionOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if err := store.SaveResult(ctx, testResult("s1", at, 10)); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	records, err := store.ListScores(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

func TestScoreStoreListsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "newest", "middle"} {
		at := base.Add([]time.Duration{0, 2 * time.Hour, time.Hour}[i])
		if err := store.SaveResult(ctx, testResult(id, at, i)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	records, err := store.ListScores(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].SessionID != "newest" || records[1].SessionID != "middle" {
		t.Errorf("order = %s, %s; want newest, middle", records[0].SessionID, records[1].SessionID)
	}
}

func TestScoreStoreEmptyAndMissing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	records, err := store.ListScores(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("records = %#v, want empty non-nil slice", records)
	}

	if _, err := store.GetScore(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}
