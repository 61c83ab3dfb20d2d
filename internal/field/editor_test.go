package field

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/clock"
	"github.com/lululau/rangecal/internal/datetext"
)

func date(m time.Month, d int) calendar.Date {
	return calendar.Date{Year: 2024, Month: m, Day: d}
}

func newEditor(t *testing.T, which Which) (*Editor, *clock.Fake) {
	t.Helper()
	c := clock.NewFake(time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local))
	return New(which, c, nil), c
}

func TestCommitValidDate(t *testing.T) {
	e, c := newEditor(t, Start)
	e.Type("January 10, 2024")
	assert.Equal(t, Editing, e.State())

	d, changed, err := e.Commit(calendar.Date{})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, date(time.January, 10), d)
	assert.Equal(t, Idle, e.State())
	assert.Equal(t, IndicatorSuccess, e.Indicator().Kind)

	c.Advance(IndicatorDuration)
	assert.Equal(t, IndicatorNone, e.Indicator().Kind)
	assert.Equal(t, Idle, e.State())
}

func TestCommitUnchangedTextIsNoop(t *testing.T) {
	e, _ := newEditor(t, Start)
	e.Sync(date(time.January, 10))
	e.Type("January 10, 2024")

	_, changed, err := e.Commit(calendar.Date{})
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, IndicatorNone, e.Indicator().Kind)
}

func TestCommitWhileIdleIsNoop(t *testing.T) {
	e, _ := newEditor(t, End)
	_, changed, err := e.Commit(calendar.Date{})
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestInvalidCalendarDateShowsError(t *testing.T) {
	e, c := newEditor(t, Start)
	e.Type("February 30, 2024")

	_, changed, err := e.Commit(calendar.Date{})
	assert.ErrorIs(t, err, datetext.ErrInvalidDate)
	assert.False(t, changed)
	assert.Equal(t, ShowingError, e.State())
	assert.Equal(t, IndicatorError, e.Indicator().Kind)
	assert.Equal(t, "invalid date", e.Indicator().Message)
	assert.True(t, e.Committed().IsZero())

	c.Advance(IndicatorDuration - time.Millisecond)
	assert.Equal(t, ShowingError, e.State())
	c.Advance(time.Millisecond)
	assert.Equal(t, Idle, e.State())
	assert.NoError(t, e.Err())
	assert.Equal(t, "", e.Text(), "text reverts to the committed value")
}

func TestFormatCheckedBeforeCalendarValidity(t *testing.T) {
	e, _ := newEditor(t, Start)
	e.Type("30/02/2024")
	_, _, err := e.Commit(calendar.Date{})
	assert.ErrorIs(t, err, datetext.ErrFormat)
}

func TestEndBeforeStartIsRangeOrderError(t *testing.T) {
	e, _ := newEditor(t, End)
	e.Sync(date(time.January, 25))
	e.Type("January 10, 2024")

	_, _, err := e.Commit(date(time.January, 20))
	assert.ErrorIs(t, err, ErrRangeOrder)
	assert.Equal(t, date(time.January, 25), e.Committed(), "prior value retained")
}

func TestStartAfterEndIsRangeOrderError(t *testing.T) {
	e, _ := newEditor(t, Start)
	e.Type("March 1, 2024")
	_, _, err := e.Commit(date(time.February, 1))
	assert.ErrorIs(t, err, ErrRangeOrder)
}

func TestRangeOrderSkippedWithoutSibling(t *testing.T) {
	e, _ := newEditor(t, End)
	e.Type("January 10, 2024")
	_, changed, err := e.Commit(calendar.Date{})
	assert.NoError(t, err)
	assert.True(t, changed)
}

func TestTypingDismissesErrorWithoutValidating(t *testing.T) {
	e, c := newEditor(t, Start)
	e.Type("nonsense")
	_, _, err := e.Commit(calendar.Date{})
	require.Error(t, err)

	e.Type("nonsense!")
	assert.Equal(t, Editing, e.State())
	assert.NoError(t, e.Err())
	assert.Equal(t, IndicatorNone, e.Indicator().Kind)

	// The expiry timer was cancelled: the buffer survives the interval.
	c.Advance(2 * IndicatorDuration)
	assert.Equal(t, "nonsense!", e.Text())
	assert.Equal(t, 0, c.Pending())
}

func TestSyncIgnoredWhileEditing(t *testing.T) {
	e, _ := newEditor(t, Start)
	e.Type("Janu")
	e.Sync(date(time.January, 5))
	assert.Equal(t, "Janu", e.Text())
	assert.True(t, e.Committed().IsZero())
}

func TestSyncClearsError(t *testing.T) {
	e, c := newEditor(t, Start)
	e.Type("bad")
	_, _, _ = e.Commit(calendar.Date{})

	e.Sync(date(time.January, 5))
	assert.Equal(t, Idle, e.State())
	assert.NoError(t, e.Err())
	assert.Equal(t, "January 5, 2024", e.Text())
	assert.Equal(t, 0, c.Pending())
}

func TestCommitEmptyClearsValue(t *testing.T) {
	e, _ := newEditor(t, End)
	e.Sync(date(time.January, 5))
	e.Type("  ")
	d, changed, err := e.Commit(calendar.Date{})
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, d.IsZero())
}

func TestResetAndClose(t *testing.T) {
	e, c := newEditor(t, Start)
	e.Type("bad")
	_, _, _ = e.Commit(calendar.Date{})
	e.Reset()
	assert.Equal(t, Idle, e.State())
	assert.Equal(t, "", e.Text())
	assert.Equal(t, 0, c.Pending())
	assert.Equal(t, Start, e.Which())

	e.Type("January 1, 2024")
	_, _, _ = e.Commit(calendar.Date{})
	e.Close()
	assert.Equal(t, 0, c.Pending())
}

func TestDismissRestoresCommittedText(t *testing.T) {
	e, c := newEditor(t, Start)
	e.Sync(date(time.January, 5))
	e.Type("garbage")
	_, _, _ = e.Commit(calendar.Date{})
	e.Dismiss()
	assert.Equal(t, Idle, e.State())
	assert.Equal(t, "January 5, 2024", e.Text())
	assert.NoError(t, e.Err())
	assert.Equal(t, 0, c.Pending())
}
