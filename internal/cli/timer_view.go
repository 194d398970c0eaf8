package cli

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type timerKeyMap struct {
	Pause  key.Binding
	Resume key.Binding
	Stop   key.Binding
	Quit   key.Binding
}

func defaultTimerKeys() timerKeyMap {
	return timerKeyMap{
		Pause:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Resume: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Stop:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// timerTickMsg refreshes the elapsed display.
type timerTickMsg time.Time

// timerModel is the live view behind "timer watch". The tick is scheduled
// only while the timer runs, and at most one tick chain is pending.
type timerModel struct {
	ctx         context.Context
	timer       service.TimerService
	title       func(string) string
	interval    time.Duration
	showSeconds bool
	keys        timerKeyMap

	state    domain.TimerState
	elapsed  time.Duration
	ticking  bool
	message  string
	err      error
	quitting bool
}

func newTimerModel(ctx context.Context, t service.TimerService, title func(string) string, interval time.Duration, showSeconds bool) *timerModel {
	if interval <= 0 {
		interval = time.Second
	}
	m := &timerModel{
		ctx:         ctx,
		timer:       t,
		title:       title,
		interval:    interval,
		showSeconds: showSeconds,
		keys:        defaultTimerKeys(),
	}
	m.refresh()
	return m
}

func (m *timerModel) Init() tea.Cmd {
	return m.scheduleTick()
}

func (m *timerModel) refresh() {
	m.state = m.timer.State()
	m.elapsed = m.timer.CurrentElapsed()
}

func (m *timerModel) scheduleTick() tea.Cmd {
	if m.ticking || !m.state.IsRunning {
		return nil
	}
	m.ticking = true
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return timerTickMsg(t) })
}

func (m *timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.ticking = false
		m.refresh()
		return m, m.scheduleTick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.transition("pause", m.timer.Pause)
		case key.Matches(msg, m.keys.Resume):
			m.transition("resume", m.timer.Resume)
		case key.Matches(msg, m.keys.Stop):
			m.transition("stop", m.timer.Stop)
			if m.err == nil && m.state.Status() == domain.TimerIdle {
				m.quitting = true
				return m, tea.Quit
			}
		}
		return m, m.scheduleTick()
	}
	return m, nil
}

func (m *timerModel) transition(verb string, fn func(context.Context) (service.TimerResult, error)) {
	res, err := fn(m.ctx)
	m.err = err
	m.refresh()
	m.message = formatter.FormatTransition(verb, res.Changed, res.State, res.Entry)
}

func (m *timerModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.FormatTimerStatus(formatter.TimerView{
		State:       m.state,
		Elapsed:     m.elapsed,
		TaskTitle:   m.title(m.state.TaskID),
		ShowSeconds: m.showSeconds,
	}))
	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(m.message + "\n")
	}
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	}
	if m.quitting {
		return b.String()
	}

	var hints []string
	for _, k := range m.activeKeys() {
		hints = append(hints, formatter.Dim(k.Help().Key+": "+k.Help().Desc))
	}
	b.WriteString(strings.Join(hints, "  ") + "\n")
	return b.String()
}

func (m *timerModel) activeKeys() []key.Binding {
	switch m.state.Status() {
	case domain.TimerRunning:
		return []key.Binding{m.keys.Pause, m.keys.Stop, m.keys.Quit}
	case domain.TimerPaused:
		return []key.Binding{m.keys.Resume, m.keys.Stop, m.keys.Quit}
	default:
		return []key.Binding{m.keys.Quit}
	}
}
