package lyrics

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// [mm:ss], [mm:ss.xx], [mm:ss.xxx] or [mm:ss:xx]
	timestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

	// [ar:Artist Name]
	metadataRe = regexp.MustCompile(`^\[([a-z]+):(.+)\]$`)
)

// ParseLRC parses LRC lyrics. Lines sharing several timestamps are
// expanded. A file without any timestamp is read as unsynced plain text.
func ParseLRC(r io.Reader) (*Lyrics, error) {
	l := &Lyrics{}
	var plain []Line
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		if meta := metadataRe.FindStringSubmatch(text); meta != nil {
			value := strings.TrimSpace(meta[2])
			switch strings.ToLower(meta[1]) {
			case "ar":
				l.Artist = value
			case "ti":
				l.Title = value
			case "al":
				l.Album = value
			}
			continue
		}

		matches := timestampRe.FindAllStringSubmatchIndex(text, -1)
		if len(matches) == 0 {
			plain = append(plain, Line{Text: text})
			continue
		}

		lyric := strings.TrimSpace(text[matches[len(matches)-1][1]:])
		for _, m := range matches {
			ts, ok := parseTimestamp(text[m[0]:m[1]])
			if !ok {
				continue
			}
			l.Lines = append(l.Lines, Line{Time: ts, Text: lyric})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(l.Lines) == 0 {
		l.Lines = plain
		return l, nil
	}
	l.Synced = true
	sortLines(l.Lines)
	return l, nil
}

func parseTimestamp(s string) (time.Duration, bool) {
	m := timestampRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}

	var millis int
	if frac := m[3]; frac != "" {
		if millis, err = strconv.Atoi(frac); err != nil {
			return 0, false
		}
		switch len(frac) {
		case 1:
			millis *= 100
		case 2:
			millis *= 10
		}
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, true
}
