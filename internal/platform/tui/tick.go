// Package tui provides the Bubble Tea integration for the game.
// It handles the terminal UI loop, input mapping, the SSH server and
// drives the game timers from Bubble Tea tick commands.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-whack/internal/sched"
)

// taskTickMsg is delivered when a scheduled task's interval elapses.
type taskTickMsg struct {
	id uint64
}

// teaScheduler implements sched.Scheduler on top of tea.Tick. Every method
// must be called from Update, which makes Update the control thread.
//
// Each task gets a fresh id. Ticks carrying an id that is no longer
// registered are dropped, so a cancelled task never fires again even though
// its last tea.Tick is still in flight.
type teaScheduler struct {
	nextID  uint64
	tasks   map[uint64]*teaTask
	pending []tea.Cmd
}

type teaTask struct {
	s        *teaScheduler
	id       uint64
	interval time.Duration
	fn       func()
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{tasks: make(map[uint64]*teaTask)}
}

// Every registers fn. The first tick command is queued until flush.
func (s *teaScheduler) Every(interval time.Duration, fn func()) sched.Task {
	if interval <= 0 {
		interval = time.Millisecond
	}
	s.nextID++
	t := &teaTask{s: s, id: s.nextID, interval: interval, fn: fn}
	s.tasks[t.id] = t
	s.pending = append(s.pending, t.tick())
	return t
}

// handle runs the task a tick belongs to and queues its next tick.
func (s *teaScheduler) handle(msg taskTickMsg) {
	t, ok := s.tasks[msg.id]
	if !ok {
		return
	}
	// Queue first: fn may cancel the task, and then the queued tick is dropped.
	s.pending = append(s.pending, t.tick())
	t.fn()
}

// flush returns the tick commands queued since the last flush.
func (s *teaScheduler) flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// active returns the number of live tasks.
func (s *teaScheduler) active() int {
	return len(s.tasks)
}

func (t *teaTask) tick() tea.Cmd {
	id := t.id
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return taskTickMsg{id: id}
	})
}

// Cancel unregisters the task.
func (t *teaTask) Cancel() {
	delete(t.s.tasks, t.id)
}
