// Package textnorm cleans up user questions before they are classified:
// whole-word spelling correction followed by a light punctuation and
// capitalization pass. Unknown words pass through untouched.
package textnorm

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	wordRe     = buildWordRe()
	questionRe = regexp.MustCompile(`\?(?:\s*\?)+`)
)

func buildWordRe() *regexp.Regexp {
	keys := make([]string, 0, len(corrections))
	for k := range corrections {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	// Longest first so alternation prefers the most specific spelling.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(keys, "|") + `)\b`)
}

// Normalize corrects spelling and then polishes the result.
func Normalize(raw string) string {
	return Polish(Correct(raw))
}

// Correct replaces every whole-word, case-insensitive occurrence of a known
// misspelling. A capitalized misspelling yields a capitalized correction.
func Correct(text string) string {
	return wordRe.ReplaceAllStringFunc(text, func(word string) string {
		fixed, ok := corrections[strings.ToLower(word)]
		if !ok {
			return word
		}
		if r, _ := utf8.DecodeRuneInString(word); unicode.IsUpper(r) {
			return upperFirst(fixed)
		}
		return fixed
	})
}

// Polish collapses whitespace, merges runs of question marks, separates a
// trailing question mark from the preceding word and capitalizes the first
// letter.
func Polish(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = questionRe.ReplaceAllString(text, "?")
	if n := len(text); n > 1 && text[n-1] == '?' && text[n-2] != ' ' {
		text = text[:n-1] + " ?"
	}
	return upperFirst(text)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// DetectCity returns the canonical name of the first known city mentioned
// in text. Two-word names win over a one-word prefix at the same position.
func DetectCity(text string) (string, bool) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for i, w := range words {
		if i+1 < len(words) {
			if city, ok := cityAliases[w+" "+words[i+1]]; ok {
				return city, true
			}
		}
		if city, ok := cityAliases[w]; ok {
			return city, true
		}
	}
	return "", false
}
