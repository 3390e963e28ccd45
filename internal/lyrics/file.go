package lyrics

import (
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads lyrics from disk. .json files use the broker payload
// format; anything else is parsed as LRC (or plain text).
func LoadFile(path string) (*Lyrics, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ParseJSON(data)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseLRC(f)
}

// LRCPathFor returns the sidecar .lrc path for an audio file.
func LRCPathFor(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return audioPath[:len(audioPath)-len(ext)] + ".lrc"
}
