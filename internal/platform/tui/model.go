package tui

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-whack/internal/config"
	"github.com/vovakirdan/tui-whack/internal/core"
	"github.com/vovakirdan/tui-whack/internal/games/whack"
	"github.com/vovakirdan/tui-whack/internal/storage"
)

const confirmClearPrompt = "Clear best score? (y/n)"

// GameOptions configures a game model.
type GameOptions struct {
	Game    config.WhackConfig
	Runtime core.RuntimeConfig
	Store   *storage.Store // nil keeps the best score in memory only
	Logger  *log.Logger

	// Renderer styles the output. nil uses the local terminal.
	Renderer *lipgloss.Renderer
}

// Model is the Bubble Tea model for one player's game.
type Model struct {
	game    *whack.Controller
	sched   *teaScheduler
	screen  *core.Screen
	palette Palette
	keys    KeyMap
	help    help.Model
	config  core.RuntimeConfig
	cols    int
	length  int

	feedback  whack.Feedback
	fbActive  int // Active cell when the feedback was recorded
	prompting bool
	quitting  bool
}

// NewModel creates an idle game. The best score is loaded from the store
// under the owner's key, and every finished session is appended to the
// store's history.
func NewModel(opts GameOptions) Model {
	cfg := opts.Runtime
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Owner == "" {
		cfg.Owner = core.LocalOwner
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("owner", cfg.Owner)

	var kv whack.KV
	if opts.Store != nil {
		kv = opts.Store
	}
	best := whack.LoadBestScore(kv, whack.OwnerKey(opts.Game.Storage.BestScoreKey, cfg.Owner), logger)

	s := newTeaScheduler()
	game := whack.NewController(opts.Game, whack.Deps{
		Scheduler: s,
		Best:      best,
		Rand:      rand.New(rand.NewSource(cfg.Seed)),
		Logger:    logger,
	})
	if store := opts.Store; store != nil {
		owner := cfg.Owner
		game.OnEnd(func(r whack.Result) {
			if _, err := store.SaveResult(owner, r); err != nil {
				logger.Warn("session not recorded", "err", err)
			}
		})
	}

	m := Model{
		game:     game,
		sched:    s,
		palette:  NewPalette(opts.Renderer),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		config:   cfg,
		cols:     opts.Game.Grid.Columns,
		length:   opts.Game.Session.LengthSeconds,
		feedback: whack.NoFeedback,
		fbActive: whack.NoCell,
	}
	m.screen = core.NewScreen(cfg.ScreenW, m.boardHeight())
	m.help.Width = cfg.ScreenW
	return m
}

// Init sets the window title. Nothing ticks until a session starts.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("whack")
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m = m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.screen.Resize(msg.Width, m.boardHeight())

	case taskTickMsg:
		m.sched.handle(msg)
		m = m.expireFeedback()
	}

	// Timers armed or re-armed above need their first tick scheduled.
	return m, tea.Batch(cmd, m.sched.flush())
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	in := m.keys.Map(msg, m.prompting)

	switch in.Action {
	case core.ActionQuit:
		m.game.Close()
		m.quitting = true
		return m, tea.Quit

	case core.ActionToggle:
		if m.game.Phase() == whack.PhaseRunning {
			m.game.Stop()
		} else {
			m.game.Start()
		}
		m.feedback = whack.NoFeedback

	case core.ActionReset:
		m.game.Reset()
		m.feedback = whack.NoFeedback

	case core.ActionTap:
		m = m.tap(in.Cell)

	case core.ActionClearBest:
		m.prompting = true

	case core.ActionConfirm:
		m.game.ClearBestScore()
		m.prompting = false

	case core.ActionCancel:
		m.prompting = false

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.screen.Resize(m.config.ScreenW, m.boardHeight())
	}

	return m, nil
}

// handleMouse maps a left click on the board to a tap.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.prompting || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m
	}
	snap := m.game.Snapshot()
	layout := whack.BoardLayout(snap.Cells, m.cols, m.screen.Width(), m.screen.Height())
	if !layout.Fits() {
		return m
	}
	if cell := layout.CellAt(msg.X, msg.Y); cell >= 0 {
		m = m.tap(cell)
	}
	return m
}

func (m Model) tap(cell int) Model {
	outcome := m.game.Tap(cell)
	if outcome == whack.TapHit || outcome == whack.TapMiss {
		m.feedback = whack.Feedback{Outcome: outcome, Cell: cell}
		m.fbActive = m.game.Snapshot().Active
	}
	return m
}

// expireFeedback drops the tap highlight once the target has moved or the
// session is over.
func (m Model) expireFeedback() Model {
	if m.feedback == whack.NoFeedback {
		return m
	}
	snap := m.game.Snapshot()
	if snap.Phase != whack.PhaseRunning || snap.Active != m.fbActive {
		m.feedback = whack.NoFeedback
	}
	return m
}

// boardHeight is the screen height left after the help footer.
func (m Model) boardHeight() int {
	h := m.config.ScreenH - lipgloss.Height(m.help.View(m.keys))
	return core.Max(h, 0)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	whack.Render(m.screen, m.game.Snapshot(), m.cols, m.length, m.feedback)
	if m.prompting {
		y := m.screen.Height() - 1
		m.screen.DrawRect(core.NewRect(0, y, m.screen.Width(), 1), ' ', core.ColorDefault)
		m.screen.DrawTextCentered(y, confirmClearPrompt, core.ColorBrightYellow)
	}

	return RenderScreen(m.screen, m.palette) + "\n" + m.palette.help.Render(m.help.View(m.keys))
}

// Run starts the Bubble Tea program for a local game.
func Run(opts GameOptions) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks tap cells
	)

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.game.Close()
	}
	return err
}
