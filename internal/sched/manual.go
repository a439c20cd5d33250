package sched

import "time"

// Manual is a virtual-time scheduler. Nothing fires until Advance is called,
// which makes timer-driven logic fully deterministic in tests.
type Manual struct {
	now   time.Duration
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	m         *Manual
	seq       uint64
	interval  time.Duration
	next      time.Duration
	fn        func()
	cancelled bool
}

// NewManual creates a scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Every implements Scheduler.
func (m *Manual) Every(interval time.Duration, fn func()) Task {
	if interval <= 0 {
		interval = time.Millisecond
	}
	m.seq++
	t := &manualTask{
		m:        m,
		seq:      m.seq,
		interval: interval,
		next:     m.now + interval,
		fn:       fn,
	}
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTask) Cancel() {
	t.cancelled = true
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Advance moves virtual time forward by d, firing every due callback in
// deadline order. Ties fire in registration order.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.now = t.next
		t.next += t.interval
		t.fn()
	}
	m.now = target
	m.prune()
}

// Active returns the number of tasks that have not been cancelled.
func (m *Manual) Active() int {
	n := 0
	for _, t := range m.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(limit time.Duration) *manualTask {
	var due *manualTask
	for _, t := range m.tasks {
		if t.cancelled || t.next > limit {
			continue
		}
		if due == nil || t.next < due.next || (t.next == due.next && t.seq < due.seq) {
			due = t
		}
	}
	return due
}

func (m *Manual) prune() {
	kept := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.cancelled {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(m.tasks); i++ {
		m.tasks[i] = nil
	}
	m.tasks = kept
}
