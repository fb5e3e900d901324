package sheet

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeText returns a UTF-8 reader over CSV bytes.
//
// A byte-order mark selects UTF-8 or UTF-16 and is dropped. Input without a
// BOM that is not valid UTF-8 is read as Windows-1252, the encoding legacy
// spreadsheet exports use for accented item names.
func decodeText(data []byte) io.Reader {
	if hasBOM(data) || utf8.Valid(data) {
		// BOMOverride falls back to the UTF-8 decoder, which replaces any
		// stray invalid bytes with U+FFFD.
		dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		return transform.NewReader(bytes.NewReader(data), dec)
	}
	return charmap.Windows1252.NewDecoder().Reader(bytes.NewReader(data))
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}
