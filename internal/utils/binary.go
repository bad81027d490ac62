package utils

import (
	"bytes"
	"unicode/utf8"
)

// binarySniffLength bounds the NUL byte search, matching git's heuristic.
const binarySniffLength = 8000

// IsBinary reports whether data looks like binary content: it holds a NUL
// byte within the first binarySniffLength bytes or is not valid UTF-8.
func IsBinary(data []byte) bool {
	sniffed := data
	if len(sniffed) > binarySniffLength {
		sniffed = sniffed[:binarySniffLength]
	}
	if bytes.IndexByte(sniffed, 0) >= 0 {
		return true
	}
	return !utf8.Valid(data)
}
