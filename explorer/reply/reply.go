// Package reply turns raw generated text into the plain text shown to users
// and builds the fallback shown when generation fails.
package reply

import (
	"regexp"
	"strings"

	"github.com/m3rciful/cityexplorer/core/telegram/format"
	"github.com/m3rciful/cityexplorer/explorer/category"
)

// FollowUpFooter is appended to answers that do not already invite a follow-up.
const FollowUpFooter = "💡 Need more information? Feel free to ask follow-up questions!"

// followUpPhrases are compared case-insensitively.
var followUpPhrases = []string{"need more", "any other questions", "feel free to ask"}

var (
	headingRe  = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]*`)
	starItemRe = regexp.MustCompile(`(?m)^([ \t]*)\*[ \t]+`)
	blankRe    = regexp.MustCompile(`\n{3,}`)
	emphasis   = strings.NewReplacer("**", "", "__", "", "*", "", "`", "")
	// italicRe matches _word_ only at word boundaries so snake_case survives.
	italicRe = regexp.MustCompile(`(^|[^\p{L}\p{N}_])_([^_\n]+)_($|[^\p{L}\p{N}_])`)
)

// FormatGenerated strips markdown markup from text, drops a leading line
// that merely repeats the category title, and appends FollowUpFooter when
// the text does not carry an equivalent invitation. The result is plain
// text; callers escape it for the wire format.
func FormatGenerated(text string, id category.ID) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = headingRe.ReplaceAllString(text, "")
	text = starItemRe.ReplaceAllString(text, "$1• ")
	text = emphasis.Replace(text)
	text = stripItalics(text)
	text = dropEchoedTitle(text, id)
	text = blankRe.ReplaceAllString(strings.TrimSpace(text), "\n\n")

	if hasFollowUp(text) {
		return text
	}
	if text == "" {
		return FollowUpFooter
	}
	return text + "\n\n" + FollowUpFooter
}

// stripItalics repeats the replacement because adjacent spans share the
// separator between them.
func stripItalics(text string) string {
	for {
		next := italicRe.ReplaceAllString(text, "$1$2$3")
		if next == text {
			return text
		}
		text = next
	}
}

func hasFollowUp(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range followUpPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func dropEchoedTitle(text string, id category.ID) string {
	c, ok := category.Lookup(id)
	if !ok {
		return text
	}
	text = strings.TrimLeft(text, " \t\n")
	first, rest, _ := strings.Cut(text, "\n")
	title := strings.TrimRight(strings.TrimSpace(first), ":")
	if strings.EqualFold(title, c.Name) || strings.EqualFold(title, c.Label()) {
		return rest
	}
	return text
}

// Header is the bold category label that precedes an answer.
func Header(id category.ID) string {
	c, ok := category.Lookup(id)
	if !ok {
		return format.Bold("🏙️ Smart City Explorer")
	}
	return format.Bold(c.Label())
}

// Compose builds the final HTML answer: header, then the formatted text.
func Compose(generated string, id category.ID) string {
	return Header(id) + "\n\n" + format.Escape(FormatGenerated(generated, id))
}

// GenerationFailure is sent instead of an answer when the generation
// service fails. It names the affected category.
func GenerationFailure(id category.ID) string {
	name := "Smart City Explorer"
	if c, ok := category.Lookup(id); ok {
		name = c.Name
	}
	var b strings.Builder
	b.WriteString("🤖 <b>AI Service Temporarily Unavailable</b>\n\n")
	b.WriteString("😅 I'm having trouble connecting to my AI assistant for ")
	b.WriteString(format.Bold(name))
	b.WriteString(" right now. Please try again in a moment!\n\n")
	b.WriteString("🔄 You can also try:\n")
	b.WriteString("• Rephrasing your question\n")
	b.WriteString("• Using /menu to explore other categories\n")
	b.WriteString("• Checking /help for more options")
	return b.String()
}
