package pipeline

import (
	"strings"
	"unicode/utf8"
)

// Sentence-terminal runes for Japanese model output. A line break also closes
// a sentence so list-style replies are spoken line by line.
var terminators = map[rune]bool{
	'。': true,
	'！': true,
	'？': true,
	'\n': true,
}

// Segmenter accumulates streamed tokens and slices out sentence units as
// soon as each terminal boundary arrives, without waiting for stream end.
type Segmenter struct {
	buf strings.Builder
}

// Add appends a token and returns all sentence units it completed, in order.
// A unit runs up to and including the earliest terminator and is trimmed of
// surrounding whitespace; the remainder stays buffered for the next token.
func (s *Segmenter) Add(token string) []string {
	s.buf.WriteString(token)
	text := s.buf.String()

	var units []string
	for {
		end := indexAfterTerminator(text)
		if end < 0 {
			break
		}
		unit := strings.TrimSpace(text[:end])
		text = text[end:]
		if unit != "" {
			units = append(units, unit)
		}
	}

	s.buf.Reset()
	s.buf.WriteString(text)
	return units
}

// Flush returns the trimmed trailing text as a final sentence unit, or ""
// if only whitespace remains. Covers replies whose last sentence lacks
// terminal punctuation.
func (s *Segmenter) Flush() string {
	text := strings.TrimSpace(s.buf.String())
	s.buf.Reset()
	return text
}

// Pending returns the currently buffered partial sentence.
func (s *Segmenter) Pending() string {
	return s.buf.String()
}

// indexAfterTerminator returns the byte index just past the earliest
// sentence terminator, or -1 if none is present.
func indexAfterTerminator(text string) int {
	for i, r := range text {
		if terminators[r] {
			return i + utf8.RuneLen(r)
		}
	}
	return -1
}
