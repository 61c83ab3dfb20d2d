package calendar

// Classify returns a copy of view with every cell's selection flags set
// against r. It never mutates view. Cells outside the month are classified
// too so a range spilling into adjacent months stays visually continuous.
func Classify(view MonthView, r Range) MonthView {
	out := view
	out.Weeks = make([][]Day, len(view.Weeks))
	lo, hi := r.Ordered()
	for i, week := range view.Weeks {
		row := make([]Day, len(week))
		for j, day := range week {
			day.InRange = r.Contains(day.Date)
			day.IsStart = !lo.IsZero() && day.Date == lo
			day.IsEnd = !hi.IsZero() && day.Date == hi
			row[j] = day
		}
		out.Weeks[i] = row
	}
	return out
}

// ClassifyAll applies Classify to each view.
func ClassifyAll(views []MonthView, r Range) []MonthView {
	out := make([]MonthView, len(views))
	for i, v := range views {
		out[i] = Classify(v, r)
	}
	return out
}
