package state

import (
	"sync"
	"testing"

	"github.com/vovakirdan/career-runner/internal/core"
)

func TestPushMergesFields(t *testing.T) {
	s := NewStore(DefaultState())

	s.PushState(core.StatePatch{Health: core.IntPtr(80), Score: core.IntPtr(150)})
	s.PushState(core.StatePatch{GameOver: core.BoolPtr(true), Health: core.IntPtr(0)})

	got := s.Snapshot()
	want := core.GameState{Score: 150, Level: 1, Health: 0, GameOver: true}
	if got != want {
		t.Errorf("Snapshot() = %+v, expected %+v", got, want)
	}
	if s.Pushes() != 2 {
		t.Errorf("Pushes() = %d, expected 2", s.Pushes())
	}
}

func TestEmptyPushIgnored(t *testing.T) {
	s := NewStore(DefaultState())
	called := false
	s.Subscribe(func(core.GameState) { called = true })

	s.PushState(core.StatePatch{})

	if called || s.Pushes() != 0 {
		t.Error("empty patch should not notify or count")
	}
}

func TestSubscribeReceivesMergedState(t *testing.T) {
	s := NewStore(DefaultState())
	var seen []core.GameState
	s.Subscribe(func(st core.GameState) { seen = append(seen, st) })

	s.PushState(core.StatePatch{Score: core.IntPtr(100)})
	s.PushState(core.StatePatch{Level: core.IntPtr(2)})

	if len(seen) != 2 {
		t.Fatalf("listener called %d times, expected 2", len(seen))
	}
	if seen[1].Score != 100 || seen[1].Level != 2 || seen[1].Health != 100 {
		t.Errorf("second notification = %+v", seen[1])
	}
}

func TestReset(t *testing.T) {
	s := NewStore(DefaultState())
	s.PushState(core.StatePatch{Score: core.IntPtr(999), GameOver: core.BoolPtr(true)})

	s.Reset()

	if got := s.Snapshot(); got != DefaultState() {
		t.Errorf("Snapshot() after Reset = %+v, expected %+v", got, DefaultState())
	}
}

func TestConcurrentPushes(t *testing.T) {
	s := NewStore(DefaultState())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.PushState(core.StatePatch{Score: core.IntPtr(i*100 + j)})
				_ = s.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	if s.Pushes() != 800 {
		t.Errorf("Pushes() = %d, expected 800", s.Pushes())
	}
}
