package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/loadtimer/internal/errors"
	"github.com/agbru/loadtimer/internal/metrics"
	"github.com/agbru/loadtimer/internal/orchestration"
	"github.com/agbru/loadtimer/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	headerHeight      = 1
	footerHeight      = 1
	minBodyHeight     = 4
	SystemPanelHeight = 8
	HostRefreshRate   = time.Second
)

// Options holds the dependencies of a dashboard run.
type Options struct {
	Sampler  orchestration.Sampler
	Run      orchestration.RunOptions
	Observer orchestration.MetricsObserver
	PIDs     []int
	Version  string
}

// ExecutionState groups the session lifecycle fields.
type ExecutionState struct {
	ctx      context.Context
	cancel   context.CancelFunc
	done     bool
	err      error
	exitCode int
}

// LayoutManager holds the terminal dimensions.
type LayoutManager struct {
	width  int
	height int
}

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) entitiesHeight() int {
	return max(l.bodyHeight()-SystemPanelHeight, minBodyHeight)
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	ExecutionState
	LayoutManager

	header   HeaderModel
	entities EntitiesModel
	system   SystemModel
	footer   FooterModel
	keymap   KeyMap

	parentCtx context.Context
	session   *orchestration.Session
	reporter  *TUIProgressReporter
	presenter *TUIResultPresenter
	memory    *metrics.MemoryCollector
	ref       *programRef
	paused    bool
}

// NewModel creates the dashboard model. The session starts with Init.
func NewModel(parentCtx context.Context, opts Options) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	ref := &programRef{}
	km := DefaultKeyMap()
	return Model{
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		header:    NewHeaderModel(opts.Version, opts.PIDs, opts.Run.Interval),
		entities:  NewEntitiesModel(),
		system:    NewSystemModel(),
		footer:    NewFooterModel(km),
		keymap:    km,
		parentCtx: parentCtx,
		session:   orchestration.NewSession(opts.Sampler, opts.Run, opts.Observer),
		reporter:  &TUIProgressReporter{ref: ref},
		presenter: &TUIResultPresenter{ref: ref, sampler: opts.Sampler},
		memory:    metrics.NewMemoryCollector(),
		ref:       ref,
	}
}

// Init starts the session, the host refresh ticker and the signal watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		sampleSysStatsCmd(),
		sampleSelfUsageCmd(m.memory),
		startSessionCmd(m.ctx, m.session, m.reporter, m.presenter),
		watchContextCmd(m.parentCtx),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case WarmupMsg:
		m.footer.SetWarmup(msg.Update.Cycle, msg.Update.Total)
		m.header.SetCycles(msg.Update.Cycle)
		return m, nil

	case SampleMsg:
		m.footer.SetState(stateRunning)
		if m.paused {
			return m, nil
		}
		m.header.SetCycles(msg.Cycles)
		m.entities.Update(msg.Metrics)
		m.system.SetRetired(msg.Retired)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleSysStatsCmd(), sampleSelfUsageCmd(m.memory), tickCmd())

	case SysStatsMsg:
		m.system.UpdateHost(msg.Stats)
		return m, nil

	case SelfUsageMsg:
		m.system.UpdateSelf(msg.Usage)
		return m, nil

	case SessionDoneMsg:
		m.done = true
		m.header.SetDone()
		if msg.Err == nil || apperrors.IsContextError(msg.Err) {
			m.footer.SetState(stateDone)
			return m, nil
		}
		m.err = msg.Err
		m.exitCode = apperrors.ExitCode(msg.Err)
		m.system.SetError(msg.Err)
		m.footer.SetState(stateError)
		return m, nil

	case ContextCancelledMsg:
		m.done = true
		m.exitCode = apperrors.ExitErrorCanceled
		m.header.SetDone()
		m.footer.SetState(stateDone)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Interrupt):
		if m.cancel != nil {
			m.cancel()
		}
		m.exitCode = apperrors.ExitErrorCanceled
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)

	case key.Matches(msg, m.keymap.Threads):
		m.entities.ToggleThreads()

	case key.Matches(msg, m.keymap.Up):
		m.entities.Scroll(-1)

	case key.Matches(msg, m.keymap.Down):
		m.entities.Scroll(1)

	case key.Matches(msg, m.keymap.PageUp):
		m.entities.Scroll(-m.entities.PageSize())

	case key.Matches(msg, m.keymap.PageDown):
		m.entities.Scroll(m.entities.PageSize())
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.entities.View(),
		m.system.View(),
		m.footer.View(),
	)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.entities.SetSize(m.width, m.entitiesHeight())
	m.system.SetSize(m.width, SystemPanelHeight)
}

// Run shows the dashboard until the user quits, the parent context is done
// or the program fails. A sampling failure is reported to errOut after the
// dashboard closes. It returns the exit code.
func Run(ctx context.Context, opts Options, errOut io.Writer) int {
	// Rebuild styles from the theme selected by the application.
	initTUIStyles()

	model := NewModel(ctx, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	m, ok := finalModel.(Model)
	if !ok {
		return apperrors.ExitSuccess
	}
	m.cancel()
	if m.err != nil {
		return apperrors.HandleSamplingError(m.err, errOut)
	}
	return m.exitCode
}

// startSessionCmd runs the live session on the command goroutine. It only
// returns when the session fails or ctx is done.
func startSessionCmd(ctx context.Context, s *orchestration.Session, reporter orchestration.ProgressReporter, presenter orchestration.ResultPresenter) tea.Cmd {
	return func() tea.Msg {
		return SessionDoneMsg{Err: s.RunLive(ctx, reporter, presenter, io.Discard)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(HostRefreshRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg{Stats: sysmon.Sample()}
	}
}

func sampleSelfUsageCmd(mc *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		return SelfUsageMsg{Usage: mc.Snapshot()}
	}
}

// watchContextCmd waits for the parent context, cancelled on SIGINT/SIGTERM.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
