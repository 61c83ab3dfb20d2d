package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/config"
	"github.com/lululau/rangecal/internal/picker"
)

// PlainOptions controls the non-interactive renderer.
type PlainOptions struct {
	Writer   io.Writer
	Renderer *Renderer
	Snapshot picker.Snapshot
	Config   config.Config
	// Width is the terminal width. Zero means detect it.
	Width  int
	Notice string
}

// RunPlain prints the month window and the current selection once. Months
// are laid out side by side when they fit and stacked otherwise.
func RunPlain(opts PlainOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Renderer == nil {
		opts.Renderer = New(nil)
	}
	r := opts.Renderer
	width := opts.Width
	if width == 0 {
		width = DetectWidth()
	}

	views, err := r.Views(opts.Snapshot.Months, opts.Config.WeekStart, opts.Snapshot.Range)
	if err != nil {
		return err
	}

	var out []string
	if StripWidth(len(views)) <= width {
		out = r.strip(views, false)
	} else {
		for i, v := range views {
			if i > 0 {
				out = append(out, "")
			}
			out = append(out, r.strip([]calendar.MonthView{v}, false)...)
		}
	}
	out = append(out, "", r.summary(opts.Snapshot))
	if r.svc.Layer() == calendar.LayerHolidays && r.svc.HasHolidayData() {
		out = append(out, "", r.Legend())
	}
	if opts.Notice != "" {
		out = append(out, "", opts.Notice)
	}

	for i := range out {
		out[i] = strings.TrimRight(out[i], " ")
	}
	_, err = fmt.Fprintln(opts.Writer, strings.Join(out, "\n"))
	return err
}

// DetectWidth returns the stdout terminal width, or 100 when stdout is
// not a terminal.
func DetectWidth() int {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) {
		if w, _, err := term.GetSize(int(fd)); err == nil {
			return w
		}
	}
	return 100
}
