package reply

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/cityexplorer/explorer/category"
)

func TestFormatGeneratedStripsMarkup(t *testing.T) {
	in := "## Top picks\n\n**Bukhara** serves *kebabs*.\n* Karim's\n* `Paranthe Wali Gali`\n\n\n\n__Enjoy__"
	got := FormatGenerated(in, category.Food)

	assert.NotContains(t, got, "*")
	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "`")
	assert.NotContains(t, got, "__")
	assert.NotContains(t, got, "\n\n\n")
	assert.True(t, strings.HasPrefix(got, "Top picks\n\nBukhara serves kebabs."))
	assert.Contains(t, got, "• Karim's\n• Paranthe Wali Gali")
	assert.True(t, strings.HasSuffix(got, "\n\n"+FollowUpFooter))
}

func TestFormatGeneratedStripsUnderscoreItalics(t *testing.T) {
	got := FormatGenerated("_Namaste_ means hello. Visit _Lodhi Garden_ and _Hauz Khas_, then _a_ _b_ in config_file_name.", category.Food)
	assert.True(t, strings.HasPrefix(got,
		"Namaste means hello. Visit Lodhi Garden and Hauz Khas, then a b in config_file_name."), got)
}

func TestFormatGeneratedFooter(t *testing.T) {
	assert.Equal(t, "Try X.\n\n"+FollowUpFooter, FormatGenerated("  Try X.  ", category.Food))

	for _, in := range []string{
		"Try X. Need more help? Ask!",
		"Try X. Any other questions?",
		"Try X. Feel free to ask again.",
	} {
		assert.Equal(t, in, FormatGenerated(in, category.Food), in)
	}

	assert.Equal(t, FollowUpFooter, FormatGenerated("  ", category.None))
}

func TestFormatGeneratedDropsEchoedTitle(t *testing.T) {
	got := FormatGenerated("Food & Dining:\nTry the chaat.", category.Food)
	assert.Equal(t, "Try the chaat.\n\n"+FollowUpFooter, got)

	kept := FormatGenerated("Shopping:\nMarkets.", category.Food)
	assert.True(t, strings.HasPrefix(kept, "Shopping:\nMarkets."))
}

func TestComposeEscapes(t *testing.T) {
	got := Compose("Eat at A&B <now>", category.Food)
	require.True(t, strings.HasPrefix(got, "<b>🍽️ Food &amp; Dining</b>\n\n"))
	assert.Contains(t, got, "A&amp;B &lt;now&gt;")
	assert.True(t, strings.HasSuffix(got, FollowUpFooter))
}

func TestGenerationFailure(t *testing.T) {
	got := GenerationFailure(category.Parks)
	assert.True(t, strings.HasPrefix(got, "🤖 <b>AI Service Temporarily Unavailable</b>"))
	assert.Contains(t, got, "<b>Parks &amp; Recreation</b>")
	assert.Contains(t, got, "/menu")

	assert.Contains(t, GenerationFailure(category.None), "<b>Smart City Explorer</b>")
}
