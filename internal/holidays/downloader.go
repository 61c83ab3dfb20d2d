package holidays

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DefaultURL is where the maintained holidays file is published.
const DefaultURL = "https://raw.githubusercontent.com/lululau/lucal/main/holidays.json"

// ErrEmptyData means the download parsed but covered no years.
var ErrEmptyData = errors.New("holidays file contains no years")

// Progress receives byte counts while a download runs. total is -1 when
// the server did not send a length.
type Progress func(done, total int64)

// Result describes a completed download.
type Result struct {
	Path    string
	Size    int64
	ModTime time.Time
	Years   Years
}

// Downloader fetches the holidays file into the cache.
type Downloader struct {
	client   *http.Client
	url      string
	logger   *slog.Logger
	progress Progress
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) DownloaderOption {
	return func(d *Downloader) { d.client = c }
}

// WithURL overrides DefaultURL.
func WithURL(url string) DownloaderOption {
	return func(d *Downloader) { d.url = url }
}

// WithProgress registers a progress callback.
func WithProgress(p Progress) DownloaderOption {
	return func(d *Downloader) { d.progress = p }
}

// WithDownloadLogger sets the logger.
func WithDownloadLogger(l *slog.Logger) DownloaderOption {
	return func(d *Downloader) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDownloader creates a Downloader with a 30s client timeout.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client: &http.Client{Timeout: 30 * time.Second},
		url:    DefaultURL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download writes the file to dest. The body is validated before it
// replaces an existing file, so a failed download never clobbers a good
// cache.
func (d *Downloader) Download(ctx context.Context, dest string) (Result, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request: %w", err)
	}
	d.logger.Info("downloading holidays", "url", d.url)
	resp, err := d.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to start download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("failed to download holidays: HTTP %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if d.progress != nil {
		body = io.TeeReader(resp.Body, &progressWriter{total: resp.ContentLength, fn: d.progress})
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	table, err := Parse(data)
	if err != nil {
		return Result{}, err
	}
	years, ok := table.Years()
	if !ok {
		return Result{}, ErrEmptyData
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".holidays-*.json")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return Result{}, fmt.Errorf("failed to replace %s: %w", dest, err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat file: %w", err)
	}
	res := Result{Path: dest, Size: info.Size(), ModTime: info.ModTime(), Years: years}
	d.logger.Info("holidays updated", "path", dest, "bytes", res.Size, "min_year", years.Min, "max_year", years.Max)
	return res, nil
}

type progressWriter struct {
	done  int64
	total int64
	fn    Progress
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.done += int64(len(p))
	w.fn(w.done, w.total)
	return len(p), nil
}

// FormatBytes renders n as "512 B", "1.5 KB" and so on.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
