package broker

import (
	"strconv"
	"strings"
)

// Values holds the result of a multi-get. Absent keys have no entry.
type Values map[string]string

// String returns the value at key.
func (v Values) String(key string) (string, bool) {
	s, ok := v[key]
	return s, ok
}

// Int parses the value at key as a base-10 integer. Fractional values are
// truncated, since some producers write progress as a float.
func (v Values) Int(key string) (int, bool) {
	s, ok := v[key]
	if !ok {
		return 0, false
	}
	return ParseInt(s)
}

// Bool parses the value at key with ParseBool.
func (v Values) Bool(key string) (bool, bool) {
	s, ok := v[key]
	if !ok {
		return false, false
	}
	return ParseBool(s)
}

// ParseInt parses an integer, accepting a trailing fractional part.
func ParseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

// ParseBool recognizes true/false, 1/0 and yes/no, case-insensitively.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}
