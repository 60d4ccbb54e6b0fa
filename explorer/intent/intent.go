// Package intent scores free text against the category keyword tables.
// Every function is pure and safe for concurrent use.
package intent

import (
	"regexp"
	"sort"
	"strings"

	"github.com/m3rciful/cityexplorer/explorer/category"
)

// Score is one category's weight for a piece of text.
type Score struct {
	Category category.ID
	Score    float64
}

const (
	substringWeight = 1.0
	tokenBonus      = 0.5
	// suggestTop bounds how many categories a suggestion names.
	suggestTop = 2
)

// UnclearMessage is returned by Suggest when no category scores.
const UnclearMessage = "🤔 I'm not sure what category this falls under. Please try to be more specific or use /menu to choose a category."

type keyword struct {
	text  string
	token *regexp.Regexp
}

var intentTables = func() map[category.ID][]keyword {
	tables := make(map[category.ID][]keyword)
	for _, id := range category.All() {
		c := category.MustLookup(id)
		kws := make([]keyword, 0, len(c.Intent))
		for _, k := range c.Intent {
			kws = append(kws, keyword{
				text:  k,
				token: regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`),
			})
		}
		tables[id] = kws
	}
	return tables
}()

// ScoreCategories weighs text against every category's intent keywords.
// A keyword found anywhere adds 1; found as a standalone token it adds a
// further 0.5. The result is sorted by descending score, ties in category
// declaration order, and omits categories that scored zero.
func ScoreCategories(text string) []Score {
	lower := strings.ToLower(text)
	var scores []Score
	for _, id := range category.All() {
		var s float64
		for _, kw := range intentTables[id] {
			if !strings.Contains(lower, kw.text) {
				continue
			}
			s += substringWeight
			if kw.token.MatchString(lower) {
				s += tokenBonus
			}
		}
		if s > 0 {
			scores = append(scores, Score{Category: id, Score: s})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

// Matches reports whether text mentions any validation keyword of id.
// With no active category every text matches.
func Matches(text string, id category.ID) bool {
	c, ok := category.Lookup(id)
	if !ok {
		return true
	}
	lower := strings.ToLower(text)
	for _, k := range c.Validation {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Suggest returns guidance when text does not look like it belongs to
// current: UnclearMessage when nothing scores, or a hint naming the best
// alternatives when current is not among them. It returns false when the
// current category is already a top match.
func Suggest(text string, current category.ID) (string, bool) {
	scores := ScoreCategories(text)
	if len(scores) == 0 {
		return UnclearMessage, true
	}
	top := scores[:min(suggestTop, len(scores))]
	labels := make([]string, 0, len(top))
	for _, s := range top {
		if s.Category == current {
			return "", false
		}
		labels = append(labels, category.MustLookup(s.Category).Label())
	}
	return "💡 Your question seems to be about " + strings.Join(labels, " or ") +
		". Would you like me to switch to that category, or rephrase your question for the current category?", true
}
