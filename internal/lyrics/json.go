package lyrics

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrMalformed is returned when a lyrics payload is not a JSON object.
var ErrMalformed = errors.New("lyrics: malformed payload")

type wireLine struct {
	T    *float64 `json:"t"`
	L    *string  `json:"l"`
	Time *float64 `json:"time"`
	Text *string  `json:"text"`
}

type wirePayload struct {
	Hash   json.RawMessage `json:"hash"`
	Synced *bool           `json:"synced"`
	Lines  []wireLine      `json:"lines"`
}

// ParseJSON parses the broker lyrics payload
// {hash, synced, lines:[{t:<ms>, l:"text"}]}. Missing fields are tolerated:
// a missing synced flag is inferred from the presence of non-zero times.
func ParseJSON(data []byte) (*Lyrics, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, ErrMalformed
	}
	var w wirePayload
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}

	l := &Lyrics{Hash: rawString(w.Hash)}
	timed := false
	for _, wl := range w.Lines {
		line := Line{}
		switch {
		case wl.L != nil:
			line.Text = *wl.L
		case wl.Text != nil:
			line.Text = *wl.Text
		}
		ms := wl.T
		if ms == nil {
			ms = wl.Time
		}
		if ms != nil && *ms > 0 {
			line.Time = time.Duration(*ms * float64(time.Millisecond))
			timed = true
		}
		l.Lines = append(l.Lines, line)
	}

	if w.Synced != nil {
		l.Synced = *w.Synced
	} else {
		l.Synced = timed
	}
	if l.Synced {
		sortLines(l.Lines)
	}
	return l, nil
}

// rawString renders a JSON string or number as a plain string.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// MarshalJSON renders the broker payload form.
func (l *Lyrics) MarshalJSON() ([]byte, error) {
	type outLine struct {
		T int64  `json:"t"`
		L string `json:"l"`
	}
	out := struct {
		Hash   string    `json:"hash"`
		Synced bool      `json:"synced"`
		Lines  []outLine `json:"lines"`
	}{Hash: l.Hash, Synced: l.Synced, Lines: make([]outLine, len(l.Lines))}
	for i, line := range l.Lines {
		out.Lines[i] = outLine{T: line.Time.Milliseconds(), L: line.Text}
	}
	return json.Marshal(out)
}

// SyncedFlag renders Synced the way the broker stores booleans.
func (l *Lyrics) SyncedFlag() string {
	return strconv.FormatBool(l.Synced)
}
