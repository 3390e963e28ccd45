// Package lyrics holds time-coded lyrics, their wire and file formats, and
// the current-line lookup.
package lyrics

import (
	"sort"
	"time"
)

// Line is a single lyric line. Time is the line's start; it is zero for
// unsynced lyrics.
type Line struct {
	Time time.Duration
	Text string
}

// Lyrics is a set of lines for one track. When Synced is true, line times
// are non-decreasing.
type Lyrics struct {
	Hash   string
	Synced bool
	Lines  []Line

	// Optional metadata carried by LRC files.
	Title  string
	Artist string
	Album  string
}

// HasLines reports whether there is anything to display.
func (l *Lyrics) HasLines() bool {
	return l != nil && len(l.Lines) > 0
}

// IsSynced reports whether the lyrics can follow playback.
func (l *Lyrics) IsSynced() bool {
	return l != nil && l.Synced && len(l.Lines) > 0
}

// LineAt returns the index of the line active at pos, or -1 if none is
// active yet or the lyrics are unsynced.
func (l *Lyrics) LineAt(pos time.Duration) int {
	if !l.IsSynced() {
		return -1
	}
	return FindCurrentLine(l.Lines, pos)
}

// FindCurrentLine returns the largest i with lines[i].Time <= pos, or -1.
// lines must be sorted by Time.
func FindCurrentLine(lines []Line, pos time.Duration) int {
	return sort.Search(len(lines), func(i int) bool {
		return lines[i].Time > pos
	}) - 1
}

// sortLines orders lines by time, keeping the relative order of equal stamps.
func sortLines(lines []Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Time < lines[j].Time
	})
}
