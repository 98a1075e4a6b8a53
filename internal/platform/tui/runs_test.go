package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/career-runner/internal/storage"
)

func seededRunsStore(t *testing.T) (*storage.Store, map[int]string) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ids := make(map[int]string)
	for _, r := range []storage.RunRecord{
		{Variant: "platformer", Score: 500, Level: 2, Reason: storage.ReasonGameOver, Duration: 90 * time.Second},
		{Variant: "platformer", Score: 300, Level: 1, Reason: storage.ReasonQuit, Duration: 40 * time.Second},
		{Variant: "platformer", Score: 100, Level: 1, Reason: storage.ReasonGameOver, Duration: 15 * time.Second},
		{Variant: "freeroam", Score: 200, Level: 1, Reason: storage.ReasonGameOver, Duration: 30 * time.Second},
	} {
		rec, err := store.SaveRun(r)
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
		ids[r.Score] = rec.RunID
	}
	return store, ids
}

func press(v RunsView, keys ...tea.KeyMsg) RunsView {
	for _, k := range keys {
		m, _ := v.Update(k)
		v = m.(RunsView)
	}
	return v
}

var (
	keyTab    = tea.KeyMsg{Type: tea.KeyTab}
	keyDown   = tea.KeyMsg{Type: tea.KeyDown}
	keyFilter = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")}
)

func scores(v RunsView) []int {
	out := make([]int, len(v.runs))
	for i, r := range v.runs {
		out[i] = r.Score
	}
	return out
}

func TestRunsViewReasonFilter(t *testing.T) {
	store, _ := seededRunsStore(t)
	v := NewRunsView(store, []string{"platformer", "freeroam"}, 100, 30)

	tests := []struct {
		filter string
		want   []int
	}{
		{"all runs", []int{500, 300, 100}},
		{"game over", []int{500, 100}},
		{"quit", []int{300}},
		{"all runs", []int{500, 300, 100}},
	}

	for i, tt := range tests {
		if i > 0 {
			v = press(v, keyFilter)
		}
		if got := reasonLabel(reasonFilters[v.filter]); got != tt.filter {
			t.Errorf("step %d: filter = %q, expected %q", i, got, tt.filter)
		}
		got := scores(v)
		if len(got) != len(tt.want) {
			t.Fatalf("step %d: scores = %v, expected %v", i, got, tt.want)
		}
		for j := range got {
			if got[j] != tt.want[j] {
				t.Errorf("step %d: scores = %v, expected %v", i, got, tt.want)
				break
			}
		}
		if rows := len(v.table.Rows()); rows != len(tt.want) {
			t.Errorf("step %d: table rows = %d, expected %d", i, rows, len(tt.want))
		}
	}
}

func TestRunsViewSummaryFollowsVariant(t *testing.T) {
	store, _ := seededRunsStore(t)
	v := NewRunsView(store, []string{"platformer", "freeroam"}, 100, 30)

	if v.stats == nil || v.stats.Runs != 3 || v.stats.HighScore != 500 || v.stats.BestLevel != 2 {
		t.Fatalf("platformer stats = %+v, expected 3 runs, best 500, level 2", v.stats)
	}
	if view := v.View(); !strings.Contains(view, "Best score  500") {
		t.Errorf("View() should show the platformer best score, got:\n%s", view)
	}

	v = press(v, keyTab)
	if v.currentVariant() != "freeroam" {
		t.Fatalf("variant = %q, expected freeroam", v.currentVariant())
	}
	if v.stats == nil || v.stats.Runs != 1 || v.stats.HighScore != 200 {
		t.Errorf("freeroam stats = %+v, expected 1 run, best 200", v.stats)
	}
	if got := scores(v); len(got) != 1 || got[0] != 200 {
		t.Errorf("freeroam scores = %v, expected [200]", got)
	}

	v = press(v, keyTab)
	if v.currentVariant() != "platformer" {
		t.Errorf("variant = %q, expected platformer after wrapping", v.currentVariant())
	}
}

func TestRunsViewDetailTracksSelection(t *testing.T) {
	store, ids := seededRunsStore(t)
	v := NewRunsView(store, []string{"platformer"}, 100, 30)

	if v.detail == nil || v.detail.RunID != ids[500] {
		t.Fatalf("detail = %+v, expected run %s", v.detail, ids[500])
	}

	v = press(v, keyDown)
	if v.detail == nil || v.detail.RunID != ids[300] {
		t.Fatalf("detail after down = %+v, expected run %s", v.detail, ids[300])
	}
	line := v.detailLine()
	for _, want := range []string{ids[300], "score 300", "quit after 40s"} {
		if !strings.Contains(line, want) {
			t.Errorf("detailLine() = %q, expected it to contain %q", line, want)
		}
	}
}

func TestRunsViewEmptyHistory(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	v := NewRunsView(store, []string{"platformer"}, 80, 24)
	if v.detail != nil {
		t.Errorf("detail = %+v, expected none", v.detail)
	}
	view := v.View()
	for _, want := range []string{"No runs match", "no runs yet"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() should contain %q, got:\n%s", want, view)
		}
	}
}
