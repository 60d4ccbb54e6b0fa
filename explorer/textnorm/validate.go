package textnorm

import (
	"strings"
	"unicode"
)

// Input length limits, in characters.
const (
	MinInputLen = 3
	MaxInputLen = 500
)

// Problem describes why a question cannot be answered as typed.
type Problem uint8

const (
	OK Problem = iota
	TooShort
	TooLong
	TooFewLetters
)

// Inspect checks the length of text and that at least half of its
// non-space runes are word runes. Letters, combining marks, digits,
// punctuation and currency signs are word runes, so "bus 42 at 10:30"
// and "₹500 to USD?" pass while a row of emoji does not.
func Inspect(text string) Problem {
	text = strings.TrimSpace(text)
	var total, visible, words int
	for _, r := range text {
		total++
		if unicode.IsSpace(r) {
			continue
		}
		visible++
		if isWordRune(r) {
			words++
		}
	}
	switch {
	case total < MinInputLen:
		return TooShort
	case total > MaxInputLen:
		return TooLong
	case words*2 < visible:
		return TooFewLetters
	}
	return OK
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) ||
		unicode.IsPunct(r) || unicode.Is(unicode.Sc, r)
}
