package media

import (
	"hash/crc32"
	"strconv"
	"testing"
)

func TestArtHash_BitExact(t *testing.T) {
	want := strconv.FormatUint(uint64(crc32.ChecksumIEEE([]byte("the beatles|abbey road"))), 10)

	inputs := [][2]string{
		{"The Beatles", "Abbey Road"},
		{"  the beatles ", "ABBEY road"},
		{"The Beatles", " Abbey Road  "},
		{"\tTHE BEATLES\n", "abbey road"},
	}
	for _, in := range inputs {
		if got := ArtHash(in[0], in[1]); got != want {
			t.Errorf("ArtHash(%q, %q) = %s, want %s", in[0], in[1], got, want)
		}
	}
}

func TestArtHash_IsDecimal(t *testing.T) {
	h := ArtHash("Artist", "Album")
	if _, err := strconv.ParseUint(h, 10, 32); err != nil {
		t.Errorf("ArtHash = %q, want unsigned 32-bit decimal: %v", h, err)
	}
}

func TestArtHash_KnownValue(t *testing.T) {
	// CRC-32/ISO-HDLC check value.
	if got := strconv.FormatUint(uint64(crc32.ChecksumIEEE([]byte("123456789"))), 10); got != "3421780262" {
		t.Fatalf("crc32 check = %s, want 3421780262", got)
	}
}

func TestFoldRune(t *testing.T) {
	tests := []struct {
		in, want rune
	}{
		{'A', 'a'},
		{'z', 'z'},
		{'1', '1'},
		{'À', 'à'},
		{'Þ', 'þ'},
		{'×', '×'},
		{'ß', 'ß'},
		{'Ā', 'ā'},
		{'ā', 'ā'},
		{'Ĳ', 'ĳ'},
		{'Ĺ', 'ĺ'},
		{'Ň', 'ň'},
		{'Ŋ', 'ŋ'},
		{'Ŷ', 'ŷ'},
		{'Ÿ', 'ÿ'},
		{'Ź', 'ź'},
		{'Ž', 'ž'},
		{'Ѐ', 'ѐ'},
		{'Џ', 'џ'},
		{'А', 'а'},
		{'Я', 'я'},
		{'я', 'я'},
		{'Ѡ', 'ѡ'},
		{'Ҁ', 'ҁ'},
		{'Α', 'α'},
		{'Ρ', 'ρ'},
		{'Σ', 'σ'},
		{'Ω', 'ω'},
		{0x03A2, 0x03A2},
		{'日', '日'},
	}
	for _, tt := range tests {
		if got := FoldRune(tt.in); got != tt.want {
			t.Errorf("FoldRune(%U) = %U, want %U", tt.in, got, tt.want)
		}
	}
}

func TestArtHash_UnicodeFolding(t *testing.T) {
	pairs := [][4]string{
		{"Ётер", "ДВА", "ётер", "два"},
		{"ΣΩΚΡΑΤΗΣ", "Ÿes", "σωκρατησ", "ÿes"},
		{"Ŧomáš", "ŽIŽEK", "ŧomáš", "žižek"},
		{"Björk", "HOMOGENIC", "björk", "homogenic"},
	}
	for _, p := range pairs {
		if a, b := ArtHash(p[0], p[1]), ArtHash(p[2], p[3]); a != b {
			t.Errorf("ArtHash(%q,%q) = %s, ArtHash(%q,%q) = %s; want equal", p[0], p[1], a, p[2], p[3], b)
		}
	}
}

func TestArtHash_InvalidUTF8Preserved(t *testing.T) {
	a := ArtHash("A\xff", "B")
	b := ArtHash("a\xff", "b")
	if a != b {
		t.Errorf("invalid bytes should pass through unchanged: %s != %s", a, b)
	}
}
