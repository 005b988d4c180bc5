package tui

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/loadtimer/internal/errors"
	"github.com/agbru/loadtimer/internal/orchestration"
	"github.com/agbru/loadtimer/internal/procfs"
	"github.com/agbru/loadtimer/internal/stats"
	"github.com/agbru/loadtimer/internal/sysmon"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(context.Background(), Options{
		Sampler: &counterSampler{},
		Run:     orchestration.RunOptions{NumSamples: 2, TickRate: 100},
		PIDs:    []int{42},
		Version: "v1.0.0",
	})
	t.Cleanup(m.cancel)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func sampleMetrics() []stats.ProcMetrics {
	return []stats.ProcMetrics{
		{Name: "worker (42)", PID: 42, Samples: 2, CPUUsage: stats.MeanWithStdDev{Mean: 55, StdDev: 5}},
		{Name: "  ↳ 43", PID: 42, TID: 43, Samples: 2, CPUUsage: stats.MeanWithStdDev{Mean: 10, StdDev: 1}},
	}
}

func procfsID(pid, tid int) procfs.ID {
	return procfs.ID{PID: pid, TID: tid}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := NewModel(context.Background(), Options{Sampler: &counterSampler{}})
	defer m.cancel()
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q, want Initializing...", got)
	}
}

func TestModel_SampleMsgUpdatesPanels(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(SampleMsg{Metrics: sampleMetrics(), Cycles: 3, Retired: 1})
	m = updated.(Model)

	view := m.View()
	for _, want := range []string{"loadtimer v1.0.0", "PIDs 42", "cycle 3", "worker (42)", "↳ 43", "55.00", "retired threads: 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if m.entities.trends[procfsID(42, 0)].Len() != 1 {
		t.Error("expected one trend point for the process")
	}
}

func TestModel_PauseFreezesEntities(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(Model)
	if !m.paused {
		t.Fatal("expected paused after space")
	}

	updated, _ = m.Update(SampleMsg{Metrics: sampleMetrics(), Cycles: 1})
	m = updated.(Model)
	if len(m.entities.rows) != 0 {
		t.Error("paused dashboard should ignore samples")
	}

	updated, _ = m.Update(runeKey('p'))
	m = updated.(Model)
	if m.paused {
		t.Error("expected resumed after p")
	}
}

func TestModel_ToggleThreads(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SampleMsg{Metrics: sampleMetrics()})
	m = updated.(Model)

	updated, _ = m.Update(runeKey('t'))
	m = updated.(Model)
	if got := len(m.entities.visible()); got != 1 {
		t.Errorf("visible rows = %d, want 1 with threads hidden", got)
	}
	if strings.Contains(m.View(), "↳ 43") {
		t.Error("thread row should be hidden")
	}
}

func TestModel_QuitCancelsSession(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.ctx.Err() == nil {
		t.Error("expected session context to be cancelled")
	}
	if m.exitCode != apperrors.ExitSuccess {
		t.Errorf("exitCode = %d, want %d", m.exitCode, apperrors.ExitSuccess)
	}
}

func TestModel_SessionDone(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  bool
	}{
		{"cancelled", context.Canceled, apperrors.ExitSuccess, false},
		{"target gone", apperrors.TargetError{PID: 42, Cause: apperrors.ErrSourceUnavailable}, apperrors.ExitErrorTarget, true},
		{"generic", errors.New("boom"), apperrors.ExitErrorGeneric, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			updated, cmd := m.Update(SessionDoneMsg{Err: tt.err})
			m = updated.(Model)
			if cmd != nil {
				t.Error("session end should keep the dashboard open")
			}
			if !m.done {
				t.Error("expected done")
			}
			if m.exitCode != tt.wantCode {
				t.Errorf("exitCode = %d, want %d", m.exitCode, tt.wantCode)
			}
			if (m.err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", m.err, tt.wantErr)
			}
		})
	}
}

func TestModel_CtrlCExitsCanceled(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.ctx.Err() == nil {
		t.Error("expected session context to be cancelled")
	}
	if m.exitCode != apperrors.ExitErrorCanceled {
		t.Errorf("exitCode = %d, want %d", m.exitCode, apperrors.ExitErrorCanceled)
	}
}

func TestModel_ParentCancelled(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(ContextCancelledMsg{Err: context.Canceled})
	m = updated.(Model)
	if m.exitCode != apperrors.ExitErrorCanceled {
		t.Errorf("exitCode = %d, want %d", m.exitCode, apperrors.ExitErrorCanceled)
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_HostStats(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SysStatsMsg{Stats: sysmon.Stats{CPUPercent: 37.5, MemPercent: 60, Load1: 1.25, NumCPU: 8}})
	m = updated.(Model)
	view := m.View()
	for _, want := range []string{"37.50%", "60.00%", "1.25", "cores 8"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_TickStopsWhenDone(t *testing.T) {
	m := newTestModel(t)
	m.done = true
	if _, cmd := m.Update(TickMsg{}); cmd != nil {
		t.Error("expected no command once done")
	}
}

func TestEntitiesModel_TrendsFollowEntities(t *testing.T) {
	e := NewEntitiesModel()
	e.SetSize(100, 10)
	e.Update(sampleMetrics())
	e.Update(sampleMetrics()[:1])
	if _, ok := e.trends[procfsID(42, 43)]; ok {
		t.Error("trend of a retired thread should be dropped")
	}
	if got := e.trends[procfsID(42, 0)].Len(); got != 2 {
		t.Errorf("process trend length = %d, want 2", got)
	}
}

func TestEntitiesModel_NaNRendersDash(t *testing.T) {
	e := NewEntitiesModel()
	e.SetSize(100, 10)
	e.Update([]stats.ProcMetrics{{Name: "idle (9)", PID: 9, CPUUsage: stats.MeanWithStdDev{Mean: math.NaN(), StdDev: math.NaN()}}})
	if !strings.Contains(e.View(), "-") {
		t.Error("expected NaN rendered as -")
	}
}

func TestEntitiesModel_Scroll(t *testing.T) {
	e := NewEntitiesModel()
	e.SetSize(100, 5) // two visible rows
	var rows []stats.ProcMetrics
	for i := 1; i <= 5; i++ {
		rows = append(rows, stats.ProcMetrics{Name: "p", PID: i})
	}
	e.Update(rows)

	e.Scroll(10)
	if e.offset != 3 {
		t.Errorf("offset = %d, want 3", e.offset)
	}
	e.Scroll(-10)
	if e.offset != 0 {
		t.Errorf("offset = %d, want 0", e.offset)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"much-too-long", 5, "much…"},
		{"ab", 1, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
