package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type fakeRun struct {
	secs, level int
	seed        uint32
}

func (f fakeRun) Seconds() int { return f.secs }
func (f fakeRun) Level() int   { return f.level }
func (f fakeRun) Seed() uint32 { return f.seed }

func TestTopRunsOrdering(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()
	for _, r := range []Run{
		{Session: "a", Score: 300, Seconds: 40, Level: 2, Seed: 1, EndedAt: now},
		{Session: "b", Score: 900, Seconds: 95, Level: 4, Seed: 2, EndedAt: now},
		{Session: "c", Score: 300, Seconds: 70, Level: 3, Seed: 3, EndedAt: now},
	} {
		if _, err := db.RecordRun(r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	runs, err := db.TopRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	want := []string{"b", "c", "a"}
	for i, r := range runs {
		if r.Session != want[i] {
			t.Errorf("rank %d: expected %s, got %s", i, want[i], r.Session)
		}
	}
	if runs[0].Seed != 2 || runs[0].Level != 4 {
		t.Errorf("run fields not preserved: %+v", runs[0])
	}

	top, _ := db.TopRuns(1)
	if len(top) != 1 {
		t.Errorf("limit not applied, got %d", len(top))
	}
}

func TestRecorderFlushesOnStop(t *testing.T) {
	db := openTestDB(t)
	rec := NewRecorder(db, time.Hour)
	l := rec.Watch("sess-1", fakeRun{secs: 64, level: 3, seed: 77})

	l.Publish(game.Event{Kind: game.EventScore, Value: 100})
	l.Publish(game.Event{Kind: game.EventShot})
	l.Publish(game.Event{Kind: game.EventLevelUp, Value: 2, Tick: 1800})
	l.Publish(game.Event{Kind: game.EventLevelUp, Value: 3, Tick: 3600})
	l.Publish(game.Event{Kind: game.EventGameOver, Value: 1250, Tick: 3900})
	rec.Stop()
	rec.Stop()

	runs, err := db.TopRuns(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	r := runs[0]
	if r.Session != "sess-1" || r.Score != 1250 || r.Seconds != 64 || r.Level != 3 || r.Seed != 77 {
		t.Errorf("unexpected run %+v", r)
	}

	counts, err := db.EventCounts("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if counts["level_up"] != 2 || counts["game_over"] != 1 {
		t.Errorf("unexpected event counts %v", counts)
	}
	if _, ok := counts["score"]; ok {
		t.Error("score events should not be recorded")
	}
	if rec.Dropped() != 0 {
		t.Errorf("nothing should be dropped, got %d", rec.Dropped())
	}

	all, _ := db.EventCounts("")
	if all["level_up"] != 2 {
		t.Errorf("expected totals across sessions, got %v", all)
	}
	other, _ := db.EventCounts("sess-2")
	if len(other) != 0 {
		t.Errorf("other session should have no events, got %v", other)
	}
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)
	if v := db.GetSetting("jwt_secret"); v != "" {
		t.Errorf("expected empty setting, got %q", v)
	}
	if err := db.SetSetting("jwt_secret", "abc"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetSetting("jwt_secret", "def"); err != nil {
		t.Fatal(err)
	}
	if v := db.GetSetting("jwt_secret"); v != "def" {
		t.Errorf("expected upserted value, got %q", v)
	}
}
