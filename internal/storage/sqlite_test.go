package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-whack/internal/games/whack"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.Set("wam_high_score_v1", "12"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	v, ok, err := store.Get("wam_high_score_v1")
	if err != nil || !ok || v != "12" {
		t.Errorf("Get() = %q, %v, %v; want 12, true, nil", v, ok, err)
	}
}

func TestStoreKV(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.Get("missing"); ok || err != nil {
		t.Errorf("Get(missing) = ok %v, err %v; want absent without error", ok, err)
	}

	if err := store.Set("k", "1"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set("k", "2"); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}
	if v, ok, _ := store.Get("k"); !ok || v != "2" {
		t.Errorf("Get(k) = %q, %v; want 2, true", v, ok)
	}

	if err := store.Remove("k"); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if _, ok, _ := store.Get("k"); ok {
		t.Error("key still present after Remove")
	}
	if err := store.Remove("k"); err != nil {
		t.Errorf("Remove() of absent key failed: %v", err)
	}
}

func TestStoreBacksBestScore(t *testing.T) {
	store := openTestStore(t)
	key := "wam_high_score_v1:alice"

	best := whack.LoadBestScore(store, key, nil)
	best.Reconcile(9)

	reloaded := whack.LoadBestScore(store, key, nil)
	if reloaded.Value() != 9 {
		t.Errorf("reloaded best = %d, want 9", reloaded.Value())
	}

	other := whack.LoadBestScore(store, "wam_high_score_v1:bob", nil)
	if other.Value() != 0 {
		t.Errorf("other user's best = %d, want 0", other.Value())
	}

	reloaded.Clear()
	if _, ok, _ := store.Get(key); ok {
		t.Error("best score entry still present after Clear")
	}
}

func TestStoreSaveSessionAndTop(t *testing.T) {
	store := openTestStore(t)

	scores := map[string][]int{
		"local": {12, 5, 20},
		"alice": {31},
	}
	for owner, list := range scores {
		for _, score := range list {
			if _, err := store.SaveSession(SessionRecord{Owner: owner, Score: score, Reason: "timeout"}); err != nil {
				t.Fatalf("SaveSession() failed: %v", err)
			}
		}
	}

	local, err := store.TopSessions("local", 10)
	if err != nil {
		t.Fatalf("TopSessions() failed: %v", err)
	}
	if len(local) != 3 {
		t.Fatalf("Expected 3 local sessions, got %d", len(local))
	}
	if local[0].Score != 20 || local[1].Score != 12 || local[2].Score != 5 {
		t.Errorf("Sessions not in descending order: %v", local)
	}

	all, err := store.TopSessions("", 2)
	if err != nil {
		t.Fatalf("TopSessions(all) failed: %v", err)
	}
	if len(all) != 2 || all[0].Owner != "alice" || all[0].Score != 31 {
		t.Errorf("Unexpected top sessions across owners: %v", all)
	}
}

func TestStoreSaveSessionFillsIDAndTime(t *testing.T) {
	store := openTestStore(t)
	fixed := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	id, err := store.SaveSession(SessionRecord{Owner: "local", Score: 3, Best: 7, Reason: "stopped", DurationSecs: 12})
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveSession() returned an empty ID")
	}

	recs, err := store.TopSessions("local", 1)
	if err != nil || len(recs) != 1 {
		t.Fatalf("TopSessions() = %v, %v", recs, err)
	}
	rec := recs[0]
	if rec.ID != id || rec.Best != 7 || rec.Reason != "stopped" || rec.DurationSecs != 12 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if !rec.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", rec.CreatedAt, fixed)
	}

	// IDs are unique per session
	second, _ := store.SaveSession(SessionRecord{Owner: "local", Reason: "reset"})
	if second == id {
		t.Error("two sessions share an ID")
	}
}

func TestStoreSaveResult(t *testing.T) {
	store := openTestStore(t)

	_, err := store.SaveResult("bob", whack.Result{
		Score:  8,
		Best:   8,
		Reason: whack.EndTimeout,
		Played: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}

	recs, _ := store.TopSessions("bob", 10)
	if len(recs) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(recs))
	}
	if recs[0].Reason != "timeout" || recs[0].DurationSecs != 30 {
		t.Errorf("unexpected record: %+v", recs[0])
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Stats("local")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if empty.Sessions != 0 || empty.HighScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Stats on empty history = %+v", empty)
	}

	day := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, score := range []int{10, 20, 30} {
		rec := SessionRecord{Owner: "local", Score: score, Reason: "timeout", CreatedAt: day.Add(time.Duration(i) * time.Hour)}
		if _, err := store.SaveSession(rec); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}
	store.SaveSession(SessionRecord{Owner: "alice", Score: 99, Reason: "timeout"})

	stats, err := store.Stats("local")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Sessions != 3 {
		t.Errorf("Sessions = %d, want 3", stats.Sessions)
	}
	if stats.HighScore != 30 {
		t.Errorf("HighScore = %d, want 30", stats.HighScore)
	}
	if stats.AvgScore != 20 {
		t.Errorf("AvgScore = %f, want 20", stats.AvgScore)
	}
	if stats.TotalScore != 60 {
		t.Errorf("TotalScore = %d, want 60", stats.TotalScore)
	}
	if want := day.Add(2 * time.Hour); !stats.LastPlayed.Equal(want) {
		t.Errorf("LastPlayed = %v, want %v", stats.LastPlayed, want)
	}

	all, _ := store.Stats("")
	if all.Sessions != 4 || all.HighScore != 99 {
		t.Errorf("Stats(all) = %+v", all)
	}
}

func TestStoreOwners(t *testing.T) {
	store := openTestStore(t)

	owners, err := store.Owners()
	if err != nil {
		t.Fatalf("Owners() failed: %v", err)
	}
	if len(owners) != 0 {
		t.Errorf("Owners() on empty history = %v", owners)
	}

	day := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	store.SaveSession(SessionRecord{Owner: "local", Reason: "timeout", CreatedAt: day})
	store.SaveSession(SessionRecord{Owner: "alice", Reason: "timeout", CreatedAt: day.Add(time.Hour)})
	store.SaveSession(SessionRecord{Owner: "local", Reason: "stopped", CreatedAt: day.Add(-time.Hour)})

	owners, err = store.Owners()
	if err != nil {
		t.Fatalf("Owners() failed: %v", err)
	}
	if len(owners) != 2 || owners[0] != "alice" || owners[1] != "local" {
		t.Errorf("Owners() = %v, want [alice local]", owners)
	}
}
