package table

// bom.go strips byte order marks from text input before it reaches a CSV
// reader. Spreadsheet exports on Windows routinely prefix UTF-8 files with
// 0xEF 0xBB 0xBF, which would otherwise end up glued to the first header name.

import (
	"bufio"
	"bytes"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM returns a reader that yields r without a leading UTF-8 BOM.
// Input shorter than three bytes is passed through untouched.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// TrimBOM is the in-memory form of SkipBOM.
func TrimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// SanitizeUTF8 replaces invalid UTF-8 sequences with U+FFFD so that a single
// stray Windows-1252 byte does not abort parsing of an otherwise valid file.
func SanitizeUTF8(data []byte) []byte {
	return bytes.ToValidUTF8(data, []byte("�"))
}
