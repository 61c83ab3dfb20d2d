package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/clock"
	"github.com/lululau/rangecal/internal/config"
	"github.com/lululau/rangecal/internal/drag"
	"github.com/lululau/rangecal/internal/field"
	"github.com/lululau/rangecal/internal/render"
	"github.com/lululau/rangecal/internal/window"
)

func jan(d int) calendar.Date {
	return calendar.Date{Year: 2024, Month: time.January, Day: d}
}

func newModel(t *testing.T, mutate func(*Options)) (*Model, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local))
	opts := Options{Config: config.Default(), Clock: clk, NoColor: true}
	if mutate != nil {
		mutate(&opts)
	}
	m := New(opts)
	t.Cleanup(m.Close)
	return m, clk
}

func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func mouse(m *Model, action tea.MouseAction, x, y int) {
	send(m, tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

func locate(t *testing.T, m *Model, d calendar.Date) (int, int) {
	t.Helper()
	x, y, ok := m.layout.Locate(d)
	require.True(t, ok, "%s not visible", d)
	return x + 1, y
}

func TestMouseDragSelectsRange(t *testing.T) {
	m, _ := newModel(t, nil)

	x, y := locate(t, m, jan(10))
	mouse(m, tea.MouseActionPress, x, y)
	assert.True(t, m.capturing)

	x, y = locate(t, m, jan(15))
	mouse(m, tea.MouseActionMotion, x, y)
	assert.Equal(t, calendar.Range{Start: jan(10), End: jan(15)}, m.Coordinator().Range())

	x, y = locate(t, m, jan(5))
	mouse(m, tea.MouseActionMotion, x, y)
	mouse(m, tea.MouseActionRelease, x, y)
	assert.Equal(t, calendar.Range{Start: jan(5), End: jan(10)}, m.Coordinator().Range())
	assert.False(t, m.capturing)
	assert.Contains(t, m.View(), "[ 5]")
}

func TestDragPastRightEdgeAutoAdvances(t *testing.T) {
	m, clk := newModel(t, nil)
	x, y := locate(t, m, jan(10))
	mouse(m, tea.MouseActionPress, x, y)
	mouse(m, tea.MouseActionMotion, render.StripWidth(3)+5, y)

	clk.Advance(time.Second + window.SlideDuration)
	send(m, frameMsg{})
	assert.Equal(t, calendar.Month{Year: 2024, Month: time.February}, m.Coordinator().Months()[1])

	x, y = locate(t, m, calendar.Date{Year: 2024, Month: time.March, Day: 3})
	mouse(m, tea.MouseActionMotion, x, y)
	mouse(m, tea.MouseActionRelease, x, y)
	assert.Equal(t, calendar.Range{Start: jan(10), End: calendar.Date{Year: 2024, Month: time.March, Day: 3}}, m.Coordinator().Range())
}

func TestTypingDatesThroughFields(t *testing.T) {
	m, _ := newModel(t, nil)

	send(m, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.focused)
	typeText(m, "January 3, 2024")
	send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, field.End, m.focus)
	assert.Equal(t, jan(3), m.Coordinator().Range().Start)

	typeText(m, "January 9, 2024")
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.focused)
	assert.Equal(t, calendar.Range{Start: jan(3), End: jan(9)}, m.Coordinator().Range())
}

func TestInvalidFieldKeepsFocusAndBlocksSubmit(t *testing.T) {
	m, clk := newModel(t, nil)
	send(m, tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "Smarch 40, 2024")
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.focused)
	assert.Equal(t, field.ShowingError, m.Coordinator().Field(field.Start).State())
	assert.Contains(t, m.View(), "start: use the format")

	x, y := buttonAt(t, m, "[ Submit ]")
	mouse(m, tea.MouseActionPress, x, y)
	mouse(m, tea.MouseActionRelease, x, y)
	assert.False(t, m.Result().Submitted)
	assert.False(t, m.quitting)
	assert.True(t, m.focused)
	assert.Contains(t, m.View(), "fix the highlighted field before submitting")

	clk.Advance(field.IndicatorDuration)
	send(m, frameMsg{})
	assert.Equal(t, "", m.inputs[field.Start].Value(), "input reverts with the field")

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.focused)
}

func TestSubmitQuitsEmbeddedPicker(t *testing.T) {
	m, _ := newModel(t, nil)
	m.Coordinator().SelectStart(jan(4))
	m.Coordinator().SelectEnd(jan(2))

	cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, Result{Submitted: true, Start: jan(2), End: jan(4)}, m.Result())
	assert.True(t, m.quitting)
}

func TestPopupOpensAndClosesOnSubmit(t *testing.T) {
	m, _ := newModel(t, func(o *Options) { o.Config.Display = config.DisplayPopup })
	assert.Contains(t, m.View(), "press o to open")

	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	require.True(t, m.Coordinator().IsOpen())
	x, y := locate(t, m, jan(10))
	mouse(m, tea.MouseActionPress, x, y)
	mouse(m, tea.MouseActionRelease, x, y)

	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	assert.False(t, m.Coordinator().IsOpen())
	assert.False(t, m.quitting)
	assert.Equal(t, jan(10), m.Result().Start)
}

func TestKeysPaginateAndCycleLayer(t *testing.T) {
	m, clk := newModel(t, nil)
	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	assert.True(t, m.animating)
	clk.Advance(window.SlideDuration)
	send(m, frameMsg{})
	assert.Equal(t, calendar.Month{Year: 2024, Month: time.February}, m.Coordinator().Months()[1])

	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'.'}})
	assert.Equal(t, calendar.Month{Year: 2024, Month: time.January}, m.Coordinator().Months()[1])

	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	assert.Equal(t, calendar.LayerLunar, m.renderer.Service().Layer())
	assert.Contains(t, m.View(), "layer: lunar")
}

func TestClearButton(t *testing.T) {
	m, _ := newModel(t, nil)
	m.Coordinator().SelectStart(jan(4))
	send(m, frameMsg{})

	var y int
	for i, line := range splitLines(m.View()) {
		if len(line) >= 9 && line[:9] == "[ Clear ]" {
			y = i
		}
	}
	require.NotZero(t, y)
	mouse(m, tea.MouseActionPress, 1, y)
	assert.True(t, m.Coordinator().Range().IsEmpty())
}

func TestConfigReload(t *testing.T) {
	m, _ := newModel(t, nil)
	cfg := config.Default()
	cfg.Months = 2
	cfg.Mode = drag.ModeSingle
	cfg.Layer = calendar.LayerLunar
	send(m, configMsg{cfg: cfg})
	assert.Len(t, m.Coordinator().Months(), 2)
	assert.Equal(t, calendar.LayerLunar, m.renderer.Service().Layer())

	send(m, configMsg{err: assert.AnError})
	assert.Contains(t, m.View(), "config reload failed")
	assert.Len(t, m.Coordinator().Months(), 2)
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, nil)
	cmd := send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Equal(t, "", m.View())
	assert.False(t, m.Result().Submitted)
}

func buttonAt(t *testing.T, m *Model, label string) (int, int) {
	t.Helper()
	for y, line := range splitLines(m.View()) {
		if i := strings.Index(line, label); i >= 0 {
			return i + 1, y
		}
	}
	t.Fatalf("%s not rendered", label)
	return 0, 0
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
