package widgets

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Offsets in this file are byte offsets into valid UTF-8 text and always
// fall on code point boundaries.

func prevCodePoint(text string, offset int) int {
	if offset <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(text[:offset])
	return offset - size
}

func nextCodePoint(text string, offset int) int {
	if offset >= len(text) {
		return len(text)
	}
	_, size := utf8.DecodeRuneInString(text[offset:])
	return offset + size
}

// isBoundary reports whether offset does not split a code point.
func isBoundary(text string, offset int) bool {
	if offset == 0 || offset == len(text) {
		return true
	}
	if offset < 0 || offset > len(text) {
		return false
	}
	return utf8.RuneStart(text[offset])
}

// floorBoundary returns the closest code point boundary at or before offset,
// clamped into [0, len(text)].
func floorBoundary(text string, offset int) int {
	offset = max(0, min(offset, len(text)))
	for offset > 0 && !utf8.RuneStart(text[offset]) {
		offset--
	}
	return offset
}

type charClass int

const (
	classSpace charClass = iota
	classWord
	classPunct
)

// classify puts r into a word-boundary class. A period between two digits
// counts as part of a word so that "1.5" moves as one unit.
func classify(r, before, after rune) charClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case r == '.' && isDigit(before) && isDigit(after):
		return classWord
	case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
		return classWord
	default:
		return classPunct
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// nextWordBoundary returns the end of the word at or after offset. Leading
// whitespace is skipped; a run of punctuation counts as a word.
func nextWordBoundary(text string, offset int) int {
	if offset >= len(text) {
		return len(text)
	}
	found := false
	var last charClass
	before := rune(-1)
	for i, r := range text {
		if i < offset {
			before = r
			continue
		}
		after := rune(-1)
		if j := i + utf8.RuneLen(r); j < len(text) {
			after, _ = utf8.DecodeRuneInString(text[j:])
		}
		class := classify(r, before, after)
		before = r
		if !found {
			if class != classSpace {
				found = true
				last = class
			}
			continue
		}
		if class != last || class == classSpace {
			return i
		}
	}
	return len(text)
}

// prevWordBoundary returns the start of the word before offset.
func prevWordBoundary(text string, offset int) int {
	if offset <= 0 {
		return 0
	}
	found := false
	var last charClass
	after := rune(-1)
	for i := len(text); i > 0; {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
		if i >= offset {
			after = r
			continue
		}
		before := rune(-1)
		if i > 0 {
			before, _ = utf8.DecodeLastRuneInString(text[:i])
		}
		class := classify(r, before, after)
		after = r
		if !found {
			if class != classSpace {
				found = true
				last = class
			}
			continue
		}
		if class != last || class == classSpace {
			return i + size
		}
	}
	return 0
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// singleLine replaces line breaks with spaces and drops other control
// characters such as tabs and NUL.
func singleLine(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, newlines.Replace(s))
}
