// Package textwidth measures terminal columns for mixed Latin and Chinese
// text. A character's width is its GBK byte length, which matches how
// monospace terminals draw CJK glyphs.
package textwidth

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// StringWidth returns the widest line of s in columns, ignoring ANSI
// escape sequences.
func StringWidth(s string) int {
	if s == "" {
		return 0
	}
	widest := 0
	for _, line := range strings.Split(s, "\n") {
		if w := lineWidth(line); w > widest {
			widest = w
		}
	}
	return widest
}

// PadRight appends spaces until s is width columns wide.
func PadRight(s string, width int) string {
	diff := width - StringWidth(s)
	if diff <= 0 {
		return s
	}
	return s + strings.Repeat(" ", diff)
}

// Center pads s on both sides to width columns. Odd remainders go right.
func Center(s string, width int) string {
	diff := width - StringWidth(s)
	if diff <= 0 {
		return s
	}
	left := diff / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", diff-left)
}

// Truncate cuts plain text s to at most width columns without splitting a
// wide character.
func Truncate(s string, width int) string {
	if StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := runeWidth(r)
		if used+w > width {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String()
}

func lineWidth(s string) int {
	if s == "" {
		return 0
	}
	clean := ansi.Strip(s)
	encoded, _, err := transform.String(simplifiedchinese.GBK.NewEncoder(), clean)
	if err != nil {
		return fallbackWidth(clean)
	}
	return len(encoded)
}

func runeWidth(r rune) int {
	if r <= unicode.MaxASCII {
		return 1
	}
	return lineWidth(string(r))
}

func fallbackWidth(s string) int {
	width := 0
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
		case r <= unicode.MaxASCII:
			width++
		default:
			width += 2
		}
	}
	return width
}
