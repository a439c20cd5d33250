package whack

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/tui-whack/internal/config"
	"github.com/vovakirdan/tui-whack/internal/sched"
)

const relocateEvery = 700 * time.Millisecond

// memKV is an in-memory KV with injectable failures.
type memKV struct {
	data      map[string]string
	getErr    error
	setErr    error
	removeErr error
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Remove(key string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.data, key)
	return nil
}

const bestKey = "wam_high_score_v1"

func newTestController(t *testing.T, kv KV, seed int64) (*Controller, *sched.Manual) {
	t.Helper()
	cfg := config.DefaultWhackConfig()
	m := sched.NewManual()
	c := NewController(cfg, Deps{
		Scheduler: m,
		Best:      LoadBestScore(kv, cfg.Storage.BestScoreKey, nil),
		Rand:      rand.New(rand.NewSource(seed)),
	})
	return c, m
}

// hitNext waits for the next relocation and taps the active cell.
func hitNext(t *testing.T, c *Controller, m *sched.Manual) {
	t.Helper()
	m.Advance(relocateEvery)
	cell := c.Snapshot().Active
	if cell == NoCell {
		t.Fatal("no active cell after relocation tick")
	}
	if got := c.Tap(cell); got != TapHit {
		t.Fatalf("Tap(active=%d) = %v, want hit", cell, got)
	}
}

// wrongCell returns a cell that is not active.
func wrongCell(c *Controller) int {
	return (c.Snapshot().Active + 1 + c.Config().Grid.Size) % c.Config().Grid.Size
}

func assertTimers(t *testing.T, c *Controller, m *sched.Manual, armed bool) {
	t.Helper()
	clock, relocator := c.TimersArmed()
	if clock != armed || relocator != armed {
		t.Errorf("timers armed = (%v, %v), want both %v", clock, relocator, armed)
	}
	want := 0
	if armed {
		want = 2
	}
	if m.Active() != want {
		t.Errorf("scheduler has %d live tasks, want %d", m.Active(), want)
	}
}

func TestNewControllerIsIdle(t *testing.T) {
	c, m := newTestController(t, nil, 1)

	want := Snapshot{Phase: PhaseIdle, TimeRemaining: 30, Active: NoCell, Cells: 9}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Errorf("initial snapshot mismatch (-want +got):\n%s", diff)
	}
	assertTimers(t, c, m, false)
}

func TestStartResetsAndArms(t *testing.T) {
	c, m := newTestController(t, nil, 1)

	// Dirty the state with a finished session first
	c.Start()
	hitNext(t, c, m)
	m.Advance(5 * time.Second)
	c.Stop()

	c.Start()

	want := Snapshot{Phase: PhaseRunning, TimeRemaining: 30, Score: 0, Active: NoCell, Best: 1, Cells: 9}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Errorf("snapshot after Start mismatch (-want +got):\n%s", diff)
	}
	assertTimers(t, c, m, true)
}

func TestStartWhileRunningKeepsSingleStreams(t *testing.T) {
	c, m := newTestController(t, nil, 1)

	c.Start()
	m.Advance(2500 * time.Millisecond)
	c.Start()
	c.Start()

	assertTimers(t, c, m, true)

	m.Advance(time.Second)
	if got := c.Snapshot().TimeRemaining; got != 29 {
		t.Errorf("TimeRemaining after one tick = %d, want 29", got)
	}
}

func TestSessionEndsAfterLengthTicks(t *testing.T) {
	c, m := newTestController(t, nil, 1)

	var results []Result
	c.OnEnd(func(r Result) { results = append(results, r) })

	c.Start()
	m.Advance(29 * time.Second)

	s := c.Snapshot()
	if s.Phase != PhaseRunning || s.TimeRemaining != 1 {
		t.Fatalf("after 29 ticks: phase=%v time=%d, want running with 1s", s.Phase, s.TimeRemaining)
	}

	m.Advance(time.Second)

	s = c.Snapshot()
	if s.Phase != PhaseEnded {
		t.Errorf("Phase = %v, want ended", s.Phase)
	}
	if s.TimeRemaining != 0 {
		t.Errorf("TimeRemaining = %d, want 0", s.TimeRemaining)
	}
	if s.Active != NoCell {
		t.Errorf("Active = %d, want none", s.Active)
	}
	assertTimers(t, c, m, false)

	// Nothing else fires
	m.Advance(time.Minute)
	if c.Snapshot().TimeRemaining != 0 {
		t.Error("clock kept ticking after the end")
	}

	if len(results) != 1 {
		t.Fatalf("OnEnd called %d times, want 1", len(results))
	}
	if results[0].Reason != EndTimeout || results[0].Played != 30*time.Second {
		t.Errorf("result = %+v, want timeout after 30s", results[0])
	}
}

func TestTimeDecreasesByOnePerTick(t *testing.T) {
	c, m := newTestController(t, nil, 1)
	c.Start()

	for want := 29; want > 0; want-- {
		m.Advance(time.Second)
		if got := c.Snapshot().TimeRemaining; got != want {
			t.Fatalf("TimeRemaining = %d, want %d", got, want)
		}
	}
}

func TestTapHitScoresAndClearsActive(t *testing.T) {
	c, m := newTestController(t, nil, 7)
	c.Start()

	m.Advance(relocateEvery)
	cell := c.Snapshot().Active

	if got := c.Tap(cell); got != TapHit {
		t.Fatalf("Tap(active) = %v, want hit", got)
	}
	s := c.Snapshot()
	if s.Score != 1 || s.Active != NoCell {
		t.Errorf("after hit: score=%d active=%d, want 1 and none", s.Score, s.Active)
	}

	// The same cell is stale now
	if got := c.Tap(cell); got != TapMiss {
		t.Errorf("second tap on stale cell = %v, want miss", got)
	}
	if c.Snapshot().Score != 0 {
		t.Errorf("score after stale tap = %d, want 0", c.Snapshot().Score)
	}
}

func TestTapBeforeFirstRelocationIsMiss(t *testing.T) {
	c, _ := newTestController(t, nil, 1)
	c.Start()

	if got := c.Tap(4); got != TapMiss {
		t.Errorf("Tap with no active cell = %v, want miss", got)
	}
}

func TestWrongTapsFloorAtZero(t *testing.T) {
	c, m := newTestController(t, nil, 3)
	c.Start()
	m.Advance(relocateEvery)

	for i := 0; i < 3; i++ {
		if got := c.Tap(wrongCell(c)); got != TapMiss {
			t.Fatalf("wrong tap %d = %v, want miss", i, got)
		}
	}
	if got := c.Snapshot().Score; got != 0 {
		t.Errorf("score = %d, want 0", got)
	}
}

func TestMissPenaltyApplied(t *testing.T) {
	c, m := newTestController(t, nil, 3)
	c.Start()
	hitNext(t, c, m)
	hitNext(t, c, m)
	hitNext(t, c, m)

	c.Tap(wrongCell(c))
	if got := c.Snapshot().Score; got != 2 {
		t.Errorf("score = %d, want 2", got)
	}
}

func TestTapIgnoredOutsideRunning(t *testing.T) {
	c, m := newTestController(t, nil, 1)

	before := c.Snapshot()
	if got := c.Tap(0); got != TapIgnored {
		t.Errorf("Tap while idle = %v, want ignored", got)
	}
	if diff := cmp.Diff(before, c.Snapshot()); diff != "" {
		t.Errorf("idle tap changed state (-before +after):\n%s", diff)
	}

	c.Start()
	hitNext(t, c, m)
	c.Stop()

	before = c.Snapshot()
	for cell := 0; cell < 9; cell++ {
		if got := c.Tap(cell); got != TapIgnored {
			t.Errorf("Tap(%d) while ended = %v, want ignored", cell, got)
		}
	}
	if diff := cmp.Diff(before, c.Snapshot()); diff != "" {
		t.Errorf("ended tap changed state (-before +after):\n%s", diff)
	}
}

func TestTapOutOfRangeIsInvalid(t *testing.T) {
	c, m := newTestController(t, nil, 1)
	c.Start()
	hitNext(t, c, m)

	for _, cell := range []int{-1, 9, 100} {
		if got := c.Tap(cell); got != TapInvalid {
			t.Errorf("Tap(%d) = %v, want invalid", cell, got)
		}
	}
	if got := c.Snapshot().Score; got != 1 {
		t.Errorf("invalid taps changed score to %d", got)
	}
}

func TestFiveHitsPersistBest(t *testing.T) {
	kv := newMemKV()
	kv.data[bestKey] = "2"
	c, m := newTestController(t, kv, 11)

	c.Start()
	for i := 0; i < 5; i++ {
		hitNext(t, c, m)
	}

	s := c.Snapshot()
	if s.Score != 5 {
		t.Errorf("score = %d, want 5", s.Score)
	}
	if s.Best != 5 {
		t.Errorf("best = %d, want 5", s.Best)
	}
	if kv.data[bestKey] != "5" {
		t.Errorf("persisted best = %q, want \"5\"", kv.data[bestKey])
	}
}

func TestBestNeverBelowScoreAfterUpdate(t *testing.T) {
	c, m := newTestController(t, newMemKV(), 5)
	rng := rand.New(rand.NewSource(99))

	c.Start()
	for i := 0; i < 200 && c.Phase() == PhaseRunning; i++ {
		m.Advance(time.Duration(rng.Intn(400)) * time.Millisecond)
		cell := rng.Intn(9)
		if rng.Intn(2) == 0 && c.Snapshot().Active != NoCell {
			cell = c.Snapshot().Active
		}
		c.Tap(cell)

		s := c.Snapshot()
		if s.Score < 0 {
			t.Fatalf("score went negative: %d", s.Score)
		}
		if s.Best < s.Score {
			t.Fatalf("best %d below score %d after tap", s.Best, s.Score)
		}
	}
}

func TestActiveOnlyWhileRunning(t *testing.T) {
	c, m := newTestController(t, nil, 8)

	check := func() {
		t.Helper()
		s := c.Snapshot()
		if s.Phase != PhaseRunning && s.Active != NoCell {
			t.Fatalf("active cell %d in phase %v", s.Active, s.Phase)
		}
	}

	check()
	c.Start()
	for i := 0; i < 40; i++ {
		m.Advance(time.Second)
		check()
	}
	c.Reset()
	check()
}

func TestStopMidSession(t *testing.T) {
	kv := newMemKV()
	kv.data[bestKey] = "4"
	c, m := newTestController(t, kv, 21)

	var results []Result
	c.OnEnd(func(r Result) { results = append(results, r) })

	c.Start()
	for i := 0; i < 7; i++ {
		hitNext(t, c, m)
	}
	m.Advance(20*time.Second - 7*relocateEvery)

	s := c.Snapshot()
	if s.TimeRemaining != 10 || s.Score != 7 {
		t.Fatalf("before stop: time=%d score=%d, want 10 and 7", s.TimeRemaining, s.Score)
	}

	c.Stop()

	s = c.Snapshot()
	if s.Phase != PhaseEnded {
		t.Errorf("Phase = %v, want ended", s.Phase)
	}
	if s.Best != 7 || kv.data[bestKey] != "7" {
		t.Errorf("best = %d (stored %q), want 7", s.Best, kv.data[bestKey])
	}
	assertTimers(t, c, m, false)

	if got := c.Tap(0); got != TapIgnored {
		t.Errorf("tap after stop = %v, want ignored", got)
	}
	if c.Snapshot().Score != 7 {
		t.Error("tap after stop changed score")
	}

	want := []Result{{Score: 7, Best: 7, NewBest: true, Reason: EndStopped, Played: 20 * time.Second}}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}

	// Stopping again does nothing
	c.Stop()
	if len(results) != 1 {
		t.Errorf("second Stop fired OnEnd again")
	}
}

func TestStopKeepsHigherPreviousBest(t *testing.T) {
	kv := newMemKV()
	kv.data[bestKey] = "40"
	c, m := newTestController(t, kv, 2)

	c.Start()
	hitNext(t, c, m)
	c.Stop()

	if got := c.Snapshot().Best; got != 40 {
		t.Errorf("best = %d, want 40", got)
	}
	if kv.data[bestKey] != "40" {
		t.Errorf("stored best = %q, want 40", kv.data[bestKey])
	}
}

func TestResetFromRunning(t *testing.T) {
	c, m := newTestController(t, newMemKV(), 4)

	var reasons []EndReason
	c.OnEnd(func(r Result) { reasons = append(reasons, r.Reason) })

	c.Start()
	hitNext(t, c, m)
	hitNext(t, c, m)
	m.Advance(3 * time.Second)

	c.Reset()

	want := Snapshot{Phase: PhaseIdle, TimeRemaining: 30, Active: NoCell, Best: 2, Cells: 9}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Errorf("snapshot after Reset mismatch (-want +got):\n%s", diff)
	}
	assertTimers(t, c, m, false)
	if diff := cmp.Diff([]EndReason{EndReset}, reasons); diff != "" {
		t.Errorf("end reasons mismatch (-want +got):\n%s", diff)
	}

	// Reset from idle or ended reports nothing
	c.Reset()
	if len(reasons) != 1 {
		t.Errorf("Reset while idle fired OnEnd")
	}
}

func TestClearBestScoreThenReload(t *testing.T) {
	kv := newMemKV()
	kv.data[bestKey] = "12"
	c, m := newTestController(t, kv, 6)

	c.Start()
	hitNext(t, c, m)
	c.ClearBestScore()

	if got := c.Snapshot().Best; got != 0 {
		t.Errorf("best after clear = %d, want 0", got)
	}
	if _, ok := kv.data[bestKey]; ok {
		t.Error("persisted entry should be removed")
	}
	if c.Phase() != PhaseRunning {
		t.Error("clearing the best score must not change the phase")
	}

	reloaded := LoadBestScore(kv, bestKey, nil)
	if reloaded.Value() != 0 {
		t.Errorf("reloaded best = %d, want 0", reloaded.Value())
	}
}

func TestCloseDisarmsTimers(t *testing.T) {
	c, m := newTestController(t, nil, 1)

	var results []Result
	c.OnEnd(func(r Result) { results = append(results, r) })

	c.Close()
	if len(results) != 0 {
		t.Error("Close while idle should not report a result")
	}

	c.Start()
	m.Advance(4 * time.Second)
	c.Close()

	assertTimers(t, c, m, false)
	if len(results) != 1 || results[0].Reason != EndClosed {
		t.Errorf("results = %+v, want one closed result", results)
	}

	m.Advance(time.Minute)
	if c.Snapshot().TimeRemaining != 26 {
		t.Errorf("clock ticked after Close: %d", c.Snapshot().TimeRemaining)
	}
}

func TestDeterminism(t *testing.T) {
	// Two controllers with the same seed place targets identically
	c1, m1 := newTestController(t, nil, 12345)
	c2, m2 := newTestController(t, nil, 12345)

	c1.Start()
	c2.Start()
	for i := 0; i < 40; i++ {
		m1.Advance(relocateEvery)
		m2.Advance(relocateEvery)
		if a, b := c1.Snapshot().Active, c2.Snapshot().Active; a != b {
			t.Fatalf("tick %d: active %d vs %d", i, a, b)
		}
	}
}

func TestStoreFailuresNeverReachGame(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("disk gone")
	kv.setErr = errors.New("disk gone")
	kv.removeErr = errors.New("disk gone")

	c, m := newTestController(t, kv, 9)
	if got := c.Snapshot().Best; got != 0 {
		t.Errorf("best with unreadable store = %d, want 0", got)
	}

	c.Start()
	hitNext(t, c, m)
	hitNext(t, c, m)
	c.Stop()

	if got := c.Snapshot().Best; got != 2 {
		t.Errorf("in-memory best = %d, want 2", got)
	}
	c.ClearBestScore()
	if got := c.Snapshot().Best; got != 0 {
		t.Errorf("best after failed clear = %d, want 0", got)
	}
}
