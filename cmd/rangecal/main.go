package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/clock"
	"github.com/lululau/rangecal/internal/config"
	"github.com/lululau/rangecal/internal/datetext"
	"github.com/lululau/rangecal/internal/drag"
	"github.com/lululau/rangecal/internal/holidays"
	"github.com/lululau/rangecal/internal/logger"
	"github.com/lululau/rangecal/internal/picker"
	"github.com/lululau/rangecal/internal/render"
	"github.com/lululau/rangecal/internal/tui"
)

type rootFlags struct {
	configPath   string
	plain        bool
	noColor      bool
	holidaysFile string
	start        string
	end          string
	months       int
	single       bool
	layer        string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:   "rangecal",
		Short: "Pick a date range by dragging across a calendar",
		Long: `rangecal shows a window of consecutive months. Press on a day and drag
to another to select a range, or type dates in the start and end fields.
The submitted range is printed on exit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPicker(cmd, out, f)
		},
	}
	cmd.SetOut(out)

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "config file (default ~/.config/rangecal/config.yaml)")
	fl.BoolVarP(&f.plain, "plain", "n", false, "render once and exit (non-interactive)")
	fl.BoolVarP(&f.noColor, "no-color", "N", false, "disable all color output")
	fl.StringVar(&f.holidaysFile, "holidays-file", "", "holiday data file (default: cached download)")
	fl.StringVar(&f.start, "start", "", "initial start date, e.g. \"January 2, 2006\"")
	fl.StringVar(&f.end, "end", "", "initial end date")
	fl.IntVar(&f.months, "months", 0, "number of months shown (1-12)")
	fl.BoolVar(&f.single, "single", false, "select a single date instead of a range")
	fl.StringVar(&f.layer, "layer", "", "secondary label layer: none, lunar or holidays")

	cmd.AddCommand(newHolidaysCmd(out))
	return cmd
}

func runPicker(cmd *cobra.Command, out io.Writer, f rootFlags) error {
	configPath := f.configPath
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg, err = applyFlags(cmd, cfg, f); err != nil {
		return err
	}

	lg, closeLog, err := logger.Setup(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		TUIMode: !f.plain,
	}.FromEnv())
	if err != nil {
		return err
	}
	defer closeLog()

	holidaysPath := f.holidaysFile
	if holidaysPath == "" {
		holidaysPath = cfg.HolidaysFile
	}
	data, notice := loadHolidays(holidaysPath, lg)

	svc := calendar.NewService(calendar.WithHolidays(data), calendar.WithLayer(cfg.Layer))

	if f.plain {
		coord := picker.New(picker.Options{Clock: clock.NewLoop(), Config: cfg, Logger: lg})
		defer coord.Unmount()
		return render.RunPlain(render.PlainOptions{
			Writer:   out,
			Renderer: render.New(svc, render.WithNoColor(f.noColor)),
			Snapshot: coord.Snapshot(),
			Config:   cfg,
			Notice:   notice,
		})
	}

	watchPath := ""
	if _, err := os.Stat(configPath); err == nil {
		watchPath = configPath
	}
	res, err := tui.Run(cmd.Context(), tui.Options{
		Config:     cfg,
		ConfigPath: watchPath,
		Service:    svc,
		NoColor:    f.noColor,
		Logger:     lg,
		Notice:     notice,
	})
	if err != nil {
		return err
	}
	if res.Submitted {
		printResult(out, res, cfg.Mode)
	}
	return nil
}

// applyFlags overrides file settings with the flags the user set.
func applyFlags(cmd *cobra.Command, cfg config.Config, f rootFlags) (config.Config, error) {
	fl := cmd.Flags()
	if fl.Changed("months") {
		if f.months < 1 || f.months > 12 {
			return cfg, fmt.Errorf("%w: %d", config.ErrInvalidMonths, f.months)
		}
		cfg.Months = f.months
	}
	if f.single {
		cfg.Mode = drag.ModeSingle
	}
	if f.layer != "" {
		l, err := calendar.ParseLayer(f.layer)
		if err != nil {
			return cfg, err
		}
		cfg.Layer = l
	}
	if fl.Changed("start") {
		d, err := datetext.Parse(f.start)
		if err != nil {
			return cfg, fmt.Errorf("--start: %w", err)
		}
		cfg.DefaultRange = calendar.Range{Start: d}
	}
	if fl.Changed("end") {
		d, err := datetext.Parse(f.end)
		if err != nil {
			return cfg, fmt.Errorf("--end: %w", err)
		}
		if cfg.DefaultRange.Start.IsZero() {
			return cfg, errors.New("--end requires --start")
		}
		if d.Before(cfg.DefaultRange.Start) {
			return cfg, config.ErrInvalidRange
		}
		cfg.DefaultRange.End = d
	}
	return cfg, nil
}

// loadHolidays never fails: a missing or broken file only disables the
// holiday layer and produces a notice.
func loadHolidays(path string, lg *slog.Logger) (holidays.Table, string) {
	const hint = "Holiday data is missing or stale; run `rangecal holidays update`."
	if path != "" {
		data, err := holidays.Load(path)
		if err != nil {
			lg.Warn("failed to load holiday file", "path", path, "error", err)
			return nil, fmt.Sprintf("Could not load holiday file %s.", path)
		}
		return data, ""
	}

	cache, err := holidays.CachePath()
	if err != nil {
		lg.Debug("no cache directory", "error", err)
		return nil, hint
	}
	fresh, err := holidays.IsFresh(cache, time.Now())
	if err != nil || !fresh {
		lg.Debug("holiday cache unusable", "path", cache, "fresh", fresh, "error", err)
		return nil, hint
	}
	data, err := holidays.Load(cache)
	if err != nil {
		lg.Warn("failed to read holiday cache", "path", cache, "error", err)
		return nil, hint
	}
	return data, ""
}

func printResult(w io.Writer, res tui.Result, mode drag.Mode) {
	if mode == drag.ModeSingle || res.End.IsZero() {
		fmt.Fprintln(w, datetext.Format(res.Start))
		return
	}
	fmt.Fprintf(w, "%s\t%s\n", datetext.Format(res.Start), datetext.Format(res.End))
}

func newHolidaysCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Manage the holiday data cache",
	}

	var url string
	update := &cobra.Command{
		Use:   "update",
		Short: "Download the latest holiday data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dest, err := holidays.CachePath()
			if err != nil {
				return err
			}
			return updateHolidays(cmd.Context(), out, url, dest)
		},
	}
	update.Flags().StringVar(&url, "url", holidays.DefaultURL, "download source")
	cmd.AddCommand(update)
	return cmd
}

func updateHolidays(ctx context.Context, out io.Writer, url, dest string) error {
	fmt.Fprintf(out, "Downloading holiday data from %s\n", url)
	d := holidays.NewDownloader(
		holidays.WithURL(url),
		holidays.WithProgress(func(done, total int64) {
			if total > 0 {
				fmt.Fprintf(out, "\r%s / %s", holidays.FormatBytes(done), holidays.FormatBytes(total))
			}
		}),
	)
	res, err := d.Download(ctx, dest)
	if err != nil {
		return fmt.Errorf("failed to update holidays: %w", err)
	}
	fmt.Fprintf(out, "\nSaved %s to %s (years %d-%d, %d total)\n",
		holidays.FormatBytes(res.Size), res.Path, res.Years.Min, res.Years.Max, res.Years.Count)
	return nil
}
