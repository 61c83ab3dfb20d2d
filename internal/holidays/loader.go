package holidays

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MaxCacheAge is how long a downloaded file is considered fresh.
const MaxCacheAge = 180 * 24 * time.Hour

// Parse decodes a holidays JSON document.
func Parse(data []byte) (Table, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse holidays JSON: %w", err)
	}
	return f.Index(), nil
}

// LoadFromFile reads and parses path.
func LoadFromFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holidays file: %w", err)
	}
	return Parse(data)
}

// CachePath returns <user cache dir>/rangecal/holidays.json.
func CachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(dir, "rangecal", "holidays.json"), nil
}

// Load reads path, or the cache file when path is empty.
func Load(path string) (Table, error) {
	if path == "" {
		p, err := CachePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return LoadFromFile(path)
}

// IsFresh reports whether path exists and was written within MaxCacheAge
// of now.
func IsFresh(path string, now time.Time) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return now.Sub(info.ModTime()) < MaxCacheAge, nil
}

// Lookup returns the entry for a date, or nil.
func (t Table) Lookup(year, month, day int) *HolidayInfo {
	if t == nil {
		return nil
	}
	entry, ok := t[fmt.Sprintf("%d", year)][fmt.Sprintf("%02d-%02d", month, day)]
	if !ok || entry == nil {
		return nil
	}
	return &HolidayInfo{IsHoliday: entry.Holiday, Name: entry.Name}
}
