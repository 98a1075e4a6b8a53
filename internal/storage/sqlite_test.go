package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
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
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file and its parent directory were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []RunRecord{
		{Variant: "platformer", Score: 100, Level: 1},
		{Variant: "platformer", Score: 50, Level: 1},
		{Variant: "platformer", Score: 200, Level: 2},
		{Variant: "freeroam", Score: 500, Level: 1},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("platformer", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}

	want := []int{200, 100, 50}
	for i, r := range top {
		if r.Score != want[i] {
			t.Errorf("TopRuns()[%d].Score = %d, expected %d", i, r.Score, want[i])
		}
		if r.Variant != "platformer" {
			t.Errorf("TopRuns()[%d].Variant = %q, expected platformer", i, r.Variant)
		}
	}

	freeroam, err := store.TopRuns("freeroam", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(freeroam) != 1 || freeroam[0].Score != 500 {
		t.Errorf("TopRuns(freeroam) = %+v, expected one run of 500", freeroam)
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 20; i++ {
		if _, err := store.SaveRun(RunRecord{Variant: "platformer", Score: i * 10}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("platformer", 5)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 5 {
		t.Errorf("Expected 5 runs, got %d", len(top))
	}
	if top[0].Score != 190 {
		t.Errorf("Expected highest score 190, got %d", top[0].Score)
	}

	// Non-positive limits fall back to 10
	top, err = store.TopRuns("platformer", 0)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 10 {
		t.Errorf("Expected 10 runs for default limit, got %d", len(top))
	}
}

func TestStoreSaveRunAssignsIDs(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.SaveRun(RunRecord{
		Variant:  "platformer",
		Score:    350,
		Level:    2,
		Duration: 42 * time.Second,
	})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if saved.ID == 0 || saved.RunID == "" {
		t.Fatalf("SaveRun() = %+v, expected row and run IDs", saved)
	}
	if saved.Reason != ReasonGameOver {
		t.Errorf("Reason = %q, expected %q", saved.Reason, ReasonGameOver)
	}

	got, err := store.RunByID(saved.RunID)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RunByID() returned nil for a saved run")
	}
	if got.Score != 350 || got.Level != 2 || got.Duration != 42*time.Second {
		t.Errorf("RunByID() = %+v, expected score 350 level 2 duration 42s", got)
	}

	missing, err := store.RunByID("does-not-exist")
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if missing != nil {
		t.Errorf("RunByID() = %+v for a missing run, expected nil", missing)
	}

	if _, err := store.SaveRun(RunRecord{Variant: "platformer", RunID: saved.RunID}); err == nil {
		t.Error("SaveRun() with a duplicate run ID should fail")
	}
	if _, err := store.SaveRun(RunRecord{Score: 1}); err == nil {
		t.Error("SaveRun() without a variant should fail")
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	// No runs yet
	high, err := store.HighScore("platformer")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for no runs, got %d", high)
	}

	for _, score := range []int{100, 500, 200} {
		if _, err := store.SaveRun(RunRecord{Variant: "platformer", Score: score}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	high, err = store.HighScore("platformer")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 500 {
		t.Errorf("Expected high score 500, got %d", high)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Variant: "platformer", Score: 100})
	store.SaveRun(RunRecord{Variant: "platformer", Score: 200})
	store.SaveRun(RunRecord{Variant: "freeroam", Score: 300})

	if err := store.ClearRuns("platformer"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	top, _ := store.TopRuns("platformer", 10)
	if len(top) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(top))
	}

	// Other variants are untouched
	top, _ = store.TopRuns("freeroam", 10)
	if len(top) != 1 {
		t.Errorf("Expected freeroam runs to survive, got %d", len(top))
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Variant: "platformer", Score: 100, Level: 1})
	store.SaveRun(RunRecord{Variant: "platformer", Score: 300, Level: 3})
	store.SaveRun(RunRecord{Variant: "freeroam", Score: 50, Level: 1, Reason: ReasonQuit})

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected stats for 2 variants, got %d", len(stats))
	}

	p := stats["platformer"]
	if p == nil {
		t.Fatal("missing platformer stats")
	}
	if p.Runs != 2 || p.HighScore != 300 || p.BestLevel != 3 || p.AvgScore != 200 {
		t.Errorf("platformer stats = %+v, expected 2 runs, high 300, level 3, avg 200", p)
	}
}

func TestStorePersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	saved, err := store1.SaveRun(RunRecord{Variant: "platformer", Score: 999})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	store1.Close()

	store2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store2.Close()

	got, err := store2.RunByID(saved.RunID)
	if err != nil || got == nil {
		t.Fatalf("RunByID() = %v, %v after reopen", got, err)
	}
	if got.Score != 999 {
		t.Errorf("Expected persisted score 999, got %d", got.Score)
	}
}

func TestStoreRunsByReason(t *testing.T) {
	store := openTestStore(t)

	runs := []RunRecord{
		{Variant: "platformer", Score: 400, Level: 1, Reason: ReasonGameOver},
		{Variant: "platformer", Score: 900, Level: 1, Reason: ReasonQuit},
		{Variant: "platformer", Score: 100, Level: 1, Reason: ReasonGameOver},
		{Variant: "freeroam", Score: 700, Level: 1, Reason: ReasonGameOver},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	tests := []struct {
		filter RunFilter
		want   []int
	}{
		{RunFilter{Variant: "platformer"}, []int{900, 400, 100}},
		{RunFilter{Variant: "platformer", Reason: ReasonGameOver}, []int{400, 100}},
		{RunFilter{Variant: "platformer", Reason: ReasonQuit}, []int{900}},
		{RunFilter{Variant: "platformer", Reason: ReasonGameOver, Limit: 1}, []int{400}},
		{RunFilter{Variant: "freeroam", Reason: ReasonQuit}, nil},
	}

	for _, tt := range tests {
		got, err := store.Runs(tt.filter)
		if err != nil {
			t.Fatalf("Runs(%+v) failed: %v", tt.filter, err)
		}
		if len(got) != len(tt.want) {
			t.Errorf("Runs(%+v) returned %d runs, expected %d", tt.filter, len(got), len(tt.want))
			continue
		}
		for i, r := range got {
			if r.Score != tt.want[i] {
				t.Errorf("Runs(%+v)[%d].Score = %d, expected %d", tt.filter, i, r.Score, tt.want[i])
			}
		}
	}
}
