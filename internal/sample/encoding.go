// Package sample inspects raw sample data files: it guesses their character
// encoding and sniffs the field delimiter.
package sample

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding labels returned by Detector.
const (
	LabelASCII       = "ascii"
	LabelUTF8        = "utf-8"
	LabelUTF16LE     = "utf-16le"
	LabelUTF16BE     = "utf-16be"
	LabelWindows1252 = "windows-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detector guesses encodings from byte order marks and UTF-8 validity.
// Input that is neither valid UTF-8 nor marked as UTF-16 is assumed to be
// Windows-1252, the usual culprit for spreadsheet exports.
type Detector struct{}

// Detect returns the encoding label of head.
func (Detector) Detect(head []byte) string {
	switch {
	case bytes.HasPrefix(head, bomUTF8):
		return LabelUTF8
	case bytes.HasPrefix(head, bomUTF16LE):
		return LabelUTF16LE
	case bytes.HasPrefix(head, bomUTF16BE):
		return LabelUTF16BE
	}

	head = trimPartialRune(head)
	if !utf8.Valid(head) {
		return LabelWindows1252
	}
	for _, b := range head {
		if b >= utf8.RuneSelf {
			return LabelUTF8
		}
	}
	return LabelASCII
}

// Decode converts data in the labelled encoding to UTF-8.
func (Detector) Decode(label string, data []byte) ([]byte, error) {
	enc, err := lookup(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return data, nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", label, err)
	}
	return out, nil
}

// lookup resolves a label. A nil encoding means the data is already UTF-8.
func lookup(label string) (encoding.Encoding, error) {
	switch strings.ToLower(label) {
	case LabelASCII, LabelUTF8, "utf8", "us-ascii":
		return nil, nil
	case LabelUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), nil
	case LabelUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), nil
	case LabelWindows1252:
		return charmap.Windows1252, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off at the end of
// a truncated read.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}
