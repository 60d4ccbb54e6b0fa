package dialog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/cityexplorer/core/telegram/format"
	"github.com/m3rciful/cityexplorer/explorer/category"
	"github.com/m3rciful/cityexplorer/explorer/session"
	"github.com/m3rciful/cityexplorer/explorer/textnorm"
)

const welcomeText = `🌟 <b>Welcome to Smart City Explorer!</b> 🌟

🏙️ <i>Your intelligent guide to explore cities like never before!</i>

✨ <b>What I can help you with:</b>
• Discover historical places and heritage sites
• Find top tourist attractions and landmarks
• Explore local food and dining options
• Get transportation and route information
• Find accommodation that fits your budget
• Stay updated on events and entertainment
• Discover shopping areas and markets
• Find parks and recreational activities

📍 <b>Choose a category below to start exploring:</b>`

const mainMenuText = "🏙️ <b>Smart City Explorer - Main Menu</b>\n\nChoose what you'd like to explore:"

const settingsText = "⚙️ <b>Settings</b>\n\n🔧 Settings feature coming soon! For now, you can use /menu to explore different categories."

const locationText = "📍 <b>Set Location</b>\n\n🗺️ Location feature coming soon! For now, just mention your city name in your questions for better results."

const chooseCategoryText = "🤔 Please select a category first to get started!\n\nUse /menu to see all available options."

const textOnlyText = "👋 Hi! I work with text messages. Please type your question or use /menu to explore!"

const faultText = "⚠️ Something went wrong. Please try again or use /menu."

const unknownActionText = "❓ Unknown action. Use /menu to return to the main menu."

const utilitiesText = `🔧 <b>Utility Features</b>

Choose from the available utilities:

🌤️ <b>Weather</b> - Get current weather conditions
💱 <b>Currency</b> - Convert currencies
🗣️ <b>Translate</b> - Translate text between languages
🆘 <b>Emergency</b> - Important emergency contacts
📍 <b>Location</b> - Set your current location
⚙️ <b>Settings</b> - Customize your preferences`

// EmergencyText is the static list of Indian emergency numbers.
const EmergencyText = `🆘 <b>Emergency Contacts</b>

🚨 <b>India Emergency Numbers:</b>
• Police: 100
• Fire: 101
• Ambulance: 108
• Emergency Helpline: 112
• Women's Helpline: 1091
• Child Helpline: 1098

🏥 <b>Medical Emergency:</b> 102
🚔 <b>Traffic Police:</b> 103
🌊 <b>Disaster Management:</b> 108

⚠️ <i>For immediate emergencies, call 112 (single emergency number for all services)</i>`

var utilityPrompts = map[Utility]string{
	UtilityWeather:   "🌤️ <b>Weather Information</b>\n\n📍 Please tell me which city you want weather information for.\n\nExample: 'Weather in Delhi' or 'Current weather in Mumbai'",
	UtilityCurrency:  "💱 <b>Currency Converter</b>\n\n💰 Ask me to convert currencies!\n\nExample: 'Convert 100 USD to INR' or 'What is 50 EUR in Indian Rupees?'",
	UtilityTranslate: "🗣️ <b>Language Translator</b>\n\n🌐 I can help translate text between languages!\n\nExample: 'Translate hello to Hindi' or 'How do you say thank you in Spanish?'",
}

var inputProblems = map[textnorm.Problem]string{
	textnorm.TooShort:      "❓ Your message is too short. Please ask a complete question!",
	textnorm.TooLong:       "📏 Your message is quite long. Please try to ask a more concise question (under 500 characters).",
	textnorm.TooFewLetters: "🔤 Please use more words in your question. I work best with clear text messages!",
}

func helpText(current category.ID) string {
	var b strings.Builder
	b.WriteString(`ℹ️ <b>Smart City Explorer Help</b>

🏙️ <b>How to use this bot:</b>
1. Choose a category from the main menu
2. Ask questions related to that category
3. Get intelligent, personalized recommendations

📋 <b>Available Commands:</b>
/start - Show welcome message and menu
/menu - Return to main menu
/help - Show this help message
/settings - Customize preferences
/location - Set your current location
/stats - Show your exploration stats

`)
	if c, ok := category.Lookup(current); ok {
		b.WriteString("🎯 <b>Current Mode: " + format.Escape(c.Name) + "</b>\n")
		b.WriteString(format.Escape(c.Scope))
		b.WriteString("\n\n")
	}
	b.WriteString(`💡 <b>Tips:</b>
• Be specific about what you're looking for
• Mention your city or area for better results
• Use the menu buttons for easy navigation
• I can correct spelling and improve your questions!

Need more help? Just ask! 😊`)
	return b.String()
}

func unknownCommandText(name string) string {
	return "❓ Unknown command: /" + format.Escape(name) +
		"\n\nUse /help to see available commands or /menu to explore categories."
}

func categoryIntroText(c category.Category) string {
	var b strings.Builder
	b.WriteString(format.Bold(c.Label()))
	b.WriteString("\n\n📝 ")
	b.WriteString(format.Bold(c.Name))
	b.WriteByte('\n')
	b.WriteString(format.Escape(c.Description))
	b.WriteString("\n\n💬 ")
	b.WriteString(format.Bold("Now you can ask me anything about " + strings.ToLower(c.Name) + " in your city!"))
	if len(c.Samples) > 0 {
		b.WriteString("\n\nExamples:")
		for _, s := range c.Samples {
			b.WriteString("\n• \"" + format.Escape(s) + "\"")
		}
	}
	b.WriteString("\n\nJust type your question and I'll help you explore! 🗺️")
	return b.String()
}

// mismatchText explains that question is outside c. suggestion is plain
// text and may be empty.
func mismatchText(c category.Category, question, suggestion string) string {
	var b strings.Builder
	b.WriteString("🚫 <b>Oops! Category Mismatch</b>\n\n")
	b.WriteString(c.Icon + " <b>Current Mode: " + format.Escape(c.Name) + "</b>\n")
	b.WriteString(format.Escape(c.Scope))
	b.WriteString("\n\n❌ <b>Your question:</b> \"" + format.Escape(question) + "\"\n\n")
	b.WriteString("📝 This question seems to be outside the scope of " + format.Bold(c.Name) + ".")
	if len(c.Examples) > 0 {
		b.WriteString("\n\n" + c.Icon + " <b>I can help you with:</b>\n")
		b.WriteString(format.Bullets(c.Examples))
	}
	if suggestion != "" {
		b.WriteString("\n\n" + format.Escape(suggestion))
	}
	b.WriteString("\n\n🔄 <b>Options:</b>\n")
	b.WriteString("• Rephrase your question to focus on " + format.Escape(strings.ToLower(c.Name)) + "\n")
	b.WriteString("• Use the menu below to switch categories\n")
	b.WriteString("• Use /menu to see all available options")
	return b.String()
}

func statsText(s session.Session, all session.Stats, window time.Duration) string {
	var b strings.Builder
	b.WriteString("📊 <b>Your Explorer Stats</b>\n\n")
	b.WriteString("🔎 Recent questions answered: " + strconv.Itoa(len(s.History)) + "\n")
	if top := s.PopularCategories(3); len(top) > 0 {
		labels := make([]string, 0, len(top))
		for _, id := range top {
			labels = append(labels, category.MustLookup(id).Label())
		}
		b.WriteString("⭐ Favourite categories: " + format.Escape(strings.Join(labels, ", ")) + "\n")
	} else {
		b.WriteString("⭐ Favourite categories: none yet\n")
	}
	if s.Location != "" {
		b.WriteString("📍 Last city: " + format.Escape(titleCase(s.Location)) + "\n")
	}

	b.WriteString("\n🌍 <b>Explorer Community</b>\n")
	b.WriteString("👥 Explorers: " + strconv.Itoa(all.Total) + "\n")
	b.WriteString(fmt.Sprintf("🟢 Active in the last %s: %d", windowLabel(window), all.Active))
	if id, ok := all.TopCategory(); ok {
		b.WriteString("\n🏆 Most popular: " + format.Escape(category.MustLookup(id).Label()))
	}
	return b.String()
}

func savedQuestionsText(qs []string) string {
	if len(qs) == 0 {
		return ""
	}
	return "\n\n🗂 <b>Saved questions</b>\n" + format.Bullets(qs)
}

func windowLabel(d time.Duration) string {
	if h := int(d.Hours()); h > 0 && d == time.Duration(h)*time.Hour {
		if h == 1 {
			return "hour"
		}
		return strconv.Itoa(h) + " hours"
	}
	return d.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
