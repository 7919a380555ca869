// Package textutil provides byte-level text utilities: binary detection,
// line counting, and string-aware comment stripping.
package textutil

import (
	"bytes"
	"strings"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// CountLines returns the number of newline-delimited lines in data.
// A non-empty buffer without a trailing newline counts the last partial line.
// Returns 0 for empty data.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	lines := bytes.Count(data, []byte{'\n'})

	if data[len(data)-1] != '\n' {
		lines++
	}

	return lines
}

// StripComments removes // line comments and /* */ block comments from
// JavaScript text. Comment markers inside single-, double-, or
// backtick-quoted string literals are left untouched. Newlines inside
// removed block comments are preserved so line positions stay stable.
func StripComments(text string) string {
	var out strings.Builder

	out.Grow(len(text))

	const (
		stateCode = iota
		stateLineComment
		stateBlockComment
		stateString
	)

	state := stateCode
	quote := byte(0)
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		switch state {
		case stateLineComment:
			if ch == '\n' {
				state = stateCode

				out.WriteByte(ch)
			}
		case stateBlockComment:
			if ch == '\n' {
				out.WriteByte(ch)
			}

			if ch == '*' && i+1 < len(text) && text[i+1] == '/' {
				state = stateCode
				i++
			}
		case stateString:
			out.WriteByte(ch)

			if escaped {
				escaped = false

				continue
			}

			switch ch {
			case '\\':
				escaped = true
			case quote:
				state = stateCode
			}
		default:
			if ch == '/' && i+1 < len(text) {
				switch text[i+1] {
				case '/':
					state = stateLineComment
					i++

					continue
				case '*':
					state = stateBlockComment
					i++

					continue
				}
			}

			if ch == '\'' || ch == '"' || ch == '`' {
				state = stateString
				quote = ch
			}

			out.WriteByte(ch)
		}
	}

	return out.String()
}
