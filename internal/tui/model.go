package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/clock"
	"github.com/lululau/rangecal/internal/config"
	"github.com/lululau/rangecal/internal/datetext"
	"github.com/lululau/rangecal/internal/drag"
	"github.com/lululau/rangecal/internal/field"
	"github.com/lululau/rangecal/internal/logger"
	"github.com/lululau/rangecal/internal/picker"
	"github.com/lululau/rangecal/internal/registry"
	"github.com/lululau/rangecal/internal/render"
	"github.com/lululau/rangecal/internal/window"
)

// Options configures the interactive picker.
type Options struct {
	Config config.Config
	// ConfigPath is watched for live reloads when set.
	ConfigPath string
	Service    *calendar.Service
	NoColor    bool
	Selectable func(calendar.Date) bool
	// Clock defaults to a wall clock whose timers are delivered as
	// messages.
	Clock  clock.Clock
	Logger *slog.Logger
	// Notice is shown under the picker until the first status message.
	Notice string
}

// Result is what the user submitted.
type Result struct {
	Submitted bool
	Start     calendar.Date
	End       calendar.Date
}

type timerMsg struct{ run func() }

type frameMsg struct{}

type configMsg struct {
	cfg config.Config
	err error
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(opts)
	defer m.Close()
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if opts.ConfigPath != "" {
		err := config.Watch(ctx, opts.ConfigPath, m.logger, func(cfg config.Config, err error) {
			prog.Send(configMsg{cfg: cfg, err: err})
		})
		if err != nil {
			m.logger.Warn("config reload disabled", "error", err)
		}
	}

	if _, err := prog.Run(); err != nil {
		return Result{}, fmt.Errorf("failed to run picker: %w", err)
	}
	return m.Result(), nil
}

// Model is the Bubble Tea model wrapping a picker.Coordinator.
type Model struct {
	loop     *clock.Loop
	coord    *picker.Coordinator
	renderer *render.Renderer
	keys     keyMap
	help     help.Model
	inputs   [2]textinput.Model
	logger   *slog.Logger

	focus   field.Which
	focused bool

	layout    render.Layout
	frame     string
	status    string
	notice    string
	capturing bool
	animating bool
	pending   []tea.Cmd
	result    Result
	quitting  bool
}

// New mounts a picker for opts.
func New(opts Options) *Model {
	lg := logger.Or(opts.Logger)
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewLoop()
	}
	svc := opts.Service
	if svc == nil {
		svc = calendar.NewService(calendar.WithNow(clk.Now), calendar.WithLayer(opts.Config.Layer))
	}

	m := &Model{
		renderer: render.New(svc, render.WithNoColor(opts.NoColor), render.WithSelectable(opts.Selectable)),
		keys:     defaultKeyMap(),
		help:     help.New(),
		logger:   lg,
		notice:   opts.Notice,
	}
	m.loop, _ = clk.(*clock.Loop)
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = datetext.Layout
		ti.CharLimit = 32
		ti.Width = render.FieldWidth - 1
		m.inputs[i] = ti
	}

	m.coord = picker.New(picker.Options{
		Clock:      clk,
		Config:     opts.Config,
		Selectable: opts.Selectable,
		Registry:   registry.New(),
		Guard:      drag.GuardFunc(m.capture),
		Logger:     lg,
		OnSubmit:   m.submitted,
		OnClear:    func() { m.status = "" },
		OnClose:    m.blur,
	})
	m.refresh()
	return m
}

// Coordinator exposes the selection core.
func (m *Model) Coordinator() *picker.Coordinator { return m.coord }

// Result returns the last submitted selection.
func (m *Model) Result() Result { return m.result }

// Close unmounts the coordinator, cancelling every timer.
func (m *Model) Close() { m.coord.Unmount() }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitTimer()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case timerMsg:
		msg.run()
		cmds = append(cmds, m.waitTimer())
	case frameMsg:
		m.animating = false
	case configMsg:
		m.reconfigure(msg.cfg, msg.err)
	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	m.syncInputs()
	m.refresh()

	cmds = append(cmds, m.pending...)
	m.pending = nil
	if m.coord.Frame().Animating() && !m.animating {
		m.animating = true
		cmds = append(cmds, tea.Tick(window.FrameInterval, func(time.Time) tea.Msg { return frameMsg{} }))
	}
	if m.quitting {
		cmds = append(cmds, tea.Quit)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return m.frame
}

func (m *Model) waitTimer() tea.Cmd {
	if m.loop == nil {
		return nil
	}
	loop := m.loop
	return func() tea.Msg {
		return timerMsg{run: loop.Next()}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" || (!m.focused && key.Matches(msg, m.keys.Quit)) {
		m.quitting = true
		return nil
	}
	if m.focused {
		return m.handleFieldKey(msg)
	}

	m.status = ""
	if key.Matches(msg, m.keys.Open) {
		m.coord.Open()
		return nil
	}
	if !m.coord.IsOpen() {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.coord.Paginate(window.Prev)
	case key.Matches(msg, m.keys.Next):
		m.coord.Paginate(window.Next)
	case key.Matches(msg, m.keys.Today):
		m.coord.JumpToday()
	case key.Matches(msg, m.keys.Layer):
		svc := m.renderer.Service()
		svc.SetLayer(svc.Layer().Next())
		m.logger.Debug("layer changed", "layer", svc.Layer())
	case key.Matches(msg, m.keys.Clear):
		m.coord.Clear()
	case key.Matches(msg, m.keys.Submit):
		m.submit()
	case key.Matches(msg, m.keys.Fields):
		if msg.String() == "shift+tab" && m.coord.Config().Mode == drag.ModeRange {
			return m.focusField(field.End)
		}
		return m.focusField(field.Start)
	case key.Matches(msg, m.keys.Cancel):
		if m.coord.Dragging() {
			m.coord.CancelDrag()
		} else {
			m.coord.Close()
		}
	}
	return nil
}

func (m *Model) handleFieldKey(msg tea.KeyMsg) tea.Cmd {
	w := m.focus
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.coord.DiscardField(w)
		m.blur()
		return nil
	case key.Matches(msg, m.keys.FieldDone):
		if err := m.coord.CommitField(w); err != nil {
			return nil
		}
		if msg.String() == "enter" || m.coord.Config().Mode == drag.ModeSingle {
			m.blur()
			return nil
		}
		return m.focusField(1 - w)
	}

	var cmd tea.Cmd
	m.inputs[w], cmd = m.inputs[w].Update(msg)
	if v := m.inputs[w].Value(); v != m.coord.Field(w).Text() {
		m.coord.TypeField(w, v)
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.coord.Paginate(window.Prev)
			return nil
		case tea.MouseButtonWheelDown:
			m.coord.Paginate(window.Next)
			return nil
		case tea.MouseButtonLeft:
		default:
			return nil
		}
		t := m.layout.Hit(msg.X, msg.Y)
		switch t.Kind {
		case render.TargetDay:
			m.commitFocused()
			m.coord.PointerDown(t.Date)
		case render.TargetPrev:
			m.coord.Paginate(window.Prev)
		case render.TargetNext:
			m.coord.Paginate(window.Next)
		case render.TargetStartField:
			return m.focusField(field.Start)
		case render.TargetEndField:
			if m.coord.Config().Mode == drag.ModeRange {
				return m.focusField(field.End)
			}
		case render.TargetClear:
			m.blur()
			m.coord.Clear()
		case render.TargetSubmit:
			m.submit()
		}
	case tea.MouseActionMotion:
		m.coord.PointerMove(msg.X, msg.Y)
		if m.coord.Dragging() {
			if d, ok := m.layout.DayAt(msg.X, msg.Y); ok {
				m.coord.PointerEnter(d)
			}
		}
	case tea.MouseActionRelease:
		m.coord.PointerUp()
	}
	return nil
}

func (m *Model) focusField(w field.Which) tea.Cmd {
	if m.focused && m.focus != w {
		if err := m.coord.CommitField(m.focus); err != nil {
			return nil
		}
	}
	m.focused = true
	m.focus = w
	m.inputs[1-w].Blur()
	m.inputs[w].SetValue(m.coord.Field(w).Text())
	m.inputs[w].CursorEnd()
	return m.inputs[w].Focus()
}

func (m *Model) commitFocused() {
	if !m.focused {
		return
	}
	_ = m.coord.CommitField(m.focus)
	m.blur()
}

func (m *Model) blur() {
	m.focused = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) submit() {
	if err := m.coord.CommitAndClose(); err != nil {
		m.status = "fix the highlighted field before submitting"
		m.logger.Debug("submit blocked", "error", err)
		return
	}
	m.blur()
}

func (m *Model) submitted(start, end calendar.Date) {
	m.result = Result{Submitted: true, Start: start, End: end}
	if m.coord.Config().Display == config.DisplayEmbedded {
		m.quitting = true
	}
}

// capture switches the terminal to all-motion reporting for the life of a
// drag so the pointer is tracked past the grid edges.
func (m *Model) capture() func() {
	m.capturing = true
	m.pending = append(m.pending, tea.EnableMouseAllMotion)
	return func() {
		m.capturing = false
		m.pending = append(m.pending, tea.EnableMouseCellMotion)
	}
}

func (m *Model) reconfigure(cfg config.Config, err error) {
	if err != nil {
		m.status = "config reload failed: " + err.Error()
		m.logger.Warn("config reload failed", "error", err)
		return
	}
	m.coord.Reconfigure(cfg)
	m.renderer.Service().SetLayer(cfg.Layer)
	m.logger.Info("config reloaded", "months", cfg.Months, "mode", cfg.Mode)
}

// syncInputs mirrors committed field text into inputs the user is not
// currently typing in.
func (m *Model) syncInputs() {
	for i := range m.inputs {
		w := field.Which(i)
		f := m.coord.Field(w)
		if m.focused && m.focus == w && f.State() == field.Editing {
			continue
		}
		if m.inputs[i].Value() != f.Text() {
			m.inputs[i].SetValue(f.Text())
		}
	}
}

func (m *Model) refresh() {
	sc := render.Scene{
		Snapshot: m.coord.Snapshot(),
		Config:   m.coord.Config(),
		Status:   m.status,
	}
	if sc.Status == "" {
		sc.Status = m.notice
	}
	if m.focused {
		sc.Help = m.help.ShortHelpView(m.keys.fieldHelp())
		sc.Fields[m.focus] = m.inputs[m.focus].View()
	} else {
		sc.Help = m.help.ShortHelpView(m.keys.ShortHelp())
	}

	out, layout, err := m.renderer.Render(sc)
	if err != nil {
		m.logger.Error("render failed", "error", err)
		m.frame = "error: " + err.Error()
		return
	}
	m.frame = out
	m.layout = layout
	m.coord.SetBounds(layout.Bounds)
}
