package media

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// object is a loosely-typed JSON object. Accessors take several candidate
// field names, the first present one wins, so short and long field names
// are both accepted. Unknown fields are ignored and type mismatches read
// as absent.
type object map[string]json.RawMessage

func decodeObject(data []byte) (object, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, false
	}
	var o object
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, false
	}
	return o, true
}

// raw returns the first present, non-null key; callers list short names first.
func (o object) raw(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := o[k]; ok && !isNull(v) {
			return v, true
		}
	}
	return nil, false
}

func isNull(v json.RawMessage) bool {
	return len(v) == 0 || string(v) == "null"
}

// str reads a string; numbers are rendered in their JSON form.
func (o object) str(keys ...string) string {
	v, ok := o.raw(keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	if v[0] == '-' || (v[0] >= '0' && v[0] <= '9') {
		return string(v)
	}
	return ""
}

// int reads a number or a numeric string.
func (o object) int(keys ...string) (int64, bool) {
	v, ok := o.raw(keys...)
	if !ok {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return numberToInt(string(n))
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return numberToInt(strings.TrimSpace(s))
	}
	return 0, false
}

func numberToInt(s string) (int64, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

// intOr reads an int with a fallback.
func (o object) intOr(def int, keys ...string) int {
	if n, ok := o.int(keys...); ok {
		return int(n)
	}
	return def
}

// bool reads a JSON boolean, a 0/1 number or a "true"/"false" string.
func (o object) bool(keys ...string) (bool, bool) {
	v, ok := o.raw(keys...)
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b, true
	}
	if n, ok := o.int(keys...); ok {
		return n != 0, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		switch strings.ToLower(s) {
		case "true", "yes":
			return true, true
		case "false", "no":
			return false, true
		}
	}
	return false, false
}

func (o object) object(keys ...string) (object, bool) {
	v, ok := o.raw(keys...)
	if !ok {
		return nil, false
	}
	return decodeObject(v)
}

// objects reads an array of objects, skipping malformed elements.
func (o object) objects(keys ...string) []object {
	v, ok := o.raw(keys...)
	if !ok {
		return nil
	}
	return decodeObjects(v)
}

func decodeObjects(data []byte) []object {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	out := make([]object, 0, len(items))
	for _, it := range items {
		if obj, ok := decodeObject(it); ok {
			out = append(out, obj)
		}
	}
	return out
}

// strings reads an array of strings, or a single comma-separated string.
func (o object) strings(keys ...string) []string {
	v, ok := o.raw(keys...)
	if !ok {
		return nil
	}
	return decodeStrings(v)
}

func decodeStrings(data []byte) []string {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return splitList(s)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
