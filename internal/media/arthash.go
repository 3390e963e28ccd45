package media

import (
	"hash/crc32"
	"strconv"
	"strings"
	"unicode/utf8"
)

const asciiSpace = " \t\n\v\f\r"

// ArtHash derives the album-art cache key shared with the phone:
// the decimal CRC-32 (IEEE) of lower(trim(artist)) + "|" + lower(trim(album)).
// Lowercasing uses FoldRune, not unicode.ToLower, so both sides agree bit for bit.
func ArtHash(artist, album string) string {
	key := foldString(strings.Trim(artist, asciiSpace)) + "|" +
		foldString(strings.Trim(album, asciiSpace))
	return strconv.FormatUint(uint64(crc32.ChecksumIEEE([]byte(key))), 10)
}

func foldString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			// Invalid byte: keep it verbatim.
			b.WriteByte(s[i])
			i++
			continue
		}
		b.WriteRune(FoldRune(r))
		i += size
	}
	return b.String()
}

// FoldRune lowercases r for the blocks the art hash supports: ASCII,
// Latin-1 Supplement, Latin Extended-A, Cyrillic and Greek capitals.
// Other runes are returned unchanged.
func FoldRune(r rune) rune {
	switch {
	case r >= 'A' && r <= 'Z':
		return r + 32

	// Latin-1 Supplement, skipping the multiplication sign.
	case r >= 0x00C0 && r <= 0x00DE && r != 0x00D7:
		return r + 32

	// Latin Extended-A: upper/lower pairs alternate, with the parity
	// flipping around the İ/ı and ŉ irregularities.
	case r >= 0x0100 && r <= 0x0137:
		if r%2 == 0 {
			return r + 1
		}
	case r >= 0x0139 && r <= 0x0148:
		if r%2 == 1 {
			return r + 1
		}
	case r >= 0x014A && r <= 0x0177:
		if r%2 == 0 {
			return r + 1
		}
	case r == 0x0178: // Ÿ
		return 0x00FF
	case r >= 0x0179 && r <= 0x017E:
		if r%2 == 1 {
			return r + 1
		}

	// Cyrillic: Ѐ-Џ map to ѐ-џ, А-Я to а-я, then alternating pairs.
	case r >= 0x0400 && r <= 0x040F:
		return r + 80
	case r >= 0x0410 && r <= 0x042F:
		return r + 32
	case r >= 0x0460 && r <= 0x0481:
		if r%2 == 0 {
			return r + 1
		}

	// Greek capitals, skipping the unassigned U+03A2.
	case r >= 0x0391 && r <= 0x03A1, r >= 0x03A3 && r <= 0x03A9:
		return r + 32
	}
	return r
}
