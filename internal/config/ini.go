package config

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/ini.v1"
)

func init() {
	// key=value without alignment padding, matching what the device tools write.
	ini.PrettyFormat = false
}

var iniLoadOptions = ini.LoadOptions{
	IgnoreInlineComment: true,
}

// INI is a koanf parser for flat INI files. Keys of the default section
// are top-level; named sections become nested maps.
type INI struct{}

// INIParser returns the INI koanf parser.
func INIParser() *INI {
	return &INI{}
}

// Unmarshal parses INI bytes into a nested map.
func (p *INI) Unmarshal(b []byte) (map[string]any, error) {
	f, err := ini.LoadSources(iniLoadOptions, b)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any)
	for _, sec := range f.Sections() {
		target := out
		if sec.Name() != ini.DefaultSection {
			nested := make(map[string]any)
			out[sec.Name()] = nested
			target = nested
		}
		for _, key := range sec.Keys() {
			target[key.Name()] = key.Value()
		}
	}
	return out, nil
}

// Marshal serializes a nested map into INI bytes, keys sorted.
func (p *INI) Marshal(m map[string]any) ([]byte, error) {
	f := ini.Empty()
	for _, name := range slices.Sorted(maps.Keys(m)) {
		switch v := m[name].(type) {
		case map[string]any:
			sec, err := f.NewSection(name)
			if err != nil {
				return nil, err
			}
			for _, k := range slices.Sorted(maps.Keys(v)) {
				if _, err := sec.NewKey(k, fmt.Sprint(v[k])); err != nil {
					return nil, err
				}
			}
		default:
			if _, err := f.Section("").NewKey(name, fmt.Sprint(v)); err != nil {
				return nil, err
			}
		}
	}
	return writeINI(f)
}

// encodeFlat serializes ordered key/value pairs into a section-less INI file.
func encodeFlat(keys []string, values map[string]string) ([]byte, error) {
	f := ini.Empty()
	sec := f.Section("")
	for _, k := range keys {
		if _, err := sec.NewKey(k, values[k]); err != nil {
			return nil, err
		}
	}
	return writeINI(f)
}

func writeINI(f *ini.File) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	if len(out) == 0 {
		return nil, nil
	}
	return append(out, '\n'), nil
}
