package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthAddRollsYears(t *testing.T) {
	tests := []struct {
		name string
		in   Month
		n    int
		want Month
	}{
		{"forward", Month{2024, time.November}, 2, Month{2025, time.January}},
		{"backward", Month{2024, time.January}, -1, Month{2023, time.December}},
		{"many", Month{2024, time.March}, -27, Month{2021, time.December}},
		{"zero", Month{2024, time.June}, 0, Month{2024, time.June}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Add(tt.n))
		})
	}
}

func TestDateCompareAndValid(t *testing.T) {
	a := Date{2024, time.January, 10}
	b := Date{2024, time.January, 15}
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(a))

	assert.True(t, Date{2024, time.February, 29}.Valid())
	assert.False(t, Date{2023, time.February, 29}.Valid())
	assert.False(t, Date{2024, time.April, 31}.Valid())
	assert.False(t, Date{}.Valid())
	assert.True(t, Date{MaxYear, time.December, 31}.Valid())
	assert.False(t, Date{MaxYear + 1, time.January, 1}.Valid())
	assert.False(t, Date{-1, time.January, 1}.Valid())
}

func TestDateAddDaysCrossesMonths(t *testing.T) {
	d := Date{2024, time.January, 31}
	assert.Equal(t, Date{2024, time.February, 1}, d.AddDays(1))
	assert.Equal(t, Date{2023, time.December, 31}, Date{2024, time.January, 1}.AddDays(-1))
}

func TestRangeOrdered(t *testing.T) {
	jan5 := Date{2024, time.January, 5}
	jan10 := Date{2024, time.January, 10}

	lo, hi := Range{Start: jan10, End: jan5}.Ordered()
	assert.Equal(t, jan5, lo)
	assert.Equal(t, jan10, hi)

	lo, hi = Range{Start: jan10}.Ordered()
	assert.Equal(t, jan10, lo)
	assert.Equal(t, jan10, hi)

	assert.True(t, Range{Start: jan10, End: jan5}.Contains(Date{2024, time.January, 7}))
	assert.False(t, Range{}.Contains(jan5))
}

func TestClassifyMarksEndpoints(t *testing.T) {
	svc := NewService()
	view, err := svc.Month(Month{2024, time.January}, time.Sunday)
	assert.NoError(t, err)

	jan10 := Date{2024, time.January, 10}
	jan15 := Date{2024, time.January, 15}
	out := Classify(view, Range{Start: jan15, End: jan10})

	var inRange int
	for _, week := range out.Weeks {
		for _, day := range week {
			if day.InRange {
				inRange++
			}
			switch day.Date {
			case jan10:
				assert.True(t, day.IsStart, "jan 10 should be the start")
				assert.False(t, day.IsEnd)
			case jan15:
				assert.True(t, day.IsEnd, "jan 15 should be the end")
			}
		}
	}
	assert.Equal(t, 6, inRange)

	for _, week := range view.Weeks {
		for _, day := range week {
			assert.False(t, day.InRange, "Classify must not mutate its input")
		}
	}
}

func TestClassifySingleDay(t *testing.T) {
	svc := NewService()
	view, _ := svc.Month(Month{2024, time.January}, time.Sunday)
	jan10 := Date{2024, time.January, 10}
	out := Classify(view, Range{Start: jan10})
	for _, week := range out.Weeks {
		for _, day := range week {
			if day.Date == jan10 {
				assert.True(t, day.IsStart && day.IsEnd && day.InRange)
			} else {
				assert.False(t, day.InRange)
			}
		}
	}
}

func TestDaysUntil(t *testing.T) {
	a := Date{Year: 2024, Month: time.March, Day: 1}
	assert.Equal(t, 0, a.DaysUntil(a))
	assert.Equal(t, 31, a.DaysUntil(Date{Year: 2024, Month: time.April, Day: 1}))
	assert.Equal(t, -1, a.DaysUntil(Date{Year: 2024, Month: time.February, Day: 29}))
}
