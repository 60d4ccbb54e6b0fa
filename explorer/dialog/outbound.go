package dialog

import "github.com/m3rciful/cityexplorer/explorer/category"

// Button is one labeled inline button.
type Button struct {
	Label  string
	Action Action
}

// Keyboard is a grid of buttons, row by row.
type Keyboard [][]Button

// Outbound is what the machine decided to do. Variants: SendMessage,
// EditMessage and NoOp. Message text is HTML.
type Outbound interface {
	outbound()
}

// SendMessage posts a new message.
type SendMessage struct {
	ConversationID int64
	Text           string
	Keyboard       Keyboard
}

// EditMessage replaces the text and keyboard of an existing message.
type EditMessage struct {
	ConversationID int64
	MessageID      int
	Text           string
	Keyboard       Keyboard
}

// NoOp means nothing is sent.
type NoOp struct {
	Reason string
}

func (SendMessage) outbound() {}
func (EditMessage) outbound() {}
func (NoOp) outbound()        {}

func send(id int64, text string, kb Keyboard) Outbound {
	return SendMessage{ConversationID: id, Text: text, Keyboard: kb}
}

func row(buttons ...Button) []Button { return buttons }

// MainMenu lists every topical category two per row, then utilities and help.
func MainMenu() Keyboard {
	var kb Keyboard
	var cur []Button
	for _, c := range topicalButtons() {
		cur = append(cur, c)
		if len(cur) == 2 {
			kb = append(kb, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		kb = append(kb, cur)
	}
	return append(kb, row(
		Button{Label: "🔧 Utilities", Action: UtilitiesAction},
		Button{Label: "ℹ️ Help", Action: HelpAction},
	))
}

// UtilitiesMenu is the utilities submenu.
func UtilitiesMenu() Keyboard {
	return Keyboard{
		row(
			Button{Label: "🌤️ Weather", Action: UtilityAction(UtilityWeather)},
			Button{Label: "💱 Currency", Action: UtilityAction(UtilityCurrency)},
		),
		row(
			Button{Label: "🗣️ Translate", Action: UtilityAction(UtilityTranslate)},
			Button{Label: "🆘 Emergency", Action: UtilityAction(UtilityEmergency)},
		),
		row(
			Button{Label: "📍 Set Location", Action: UtilityAction(UtilityLocation)},
			Button{Label: "⚙️ Settings", Action: SettingsAction},
		),
		row(Button{Label: "🔙 Back to Menu", Action: MainMenuAction}),
	}
}

// BackToMenu is the single "back" button attached to most replies.
func BackToMenu() Keyboard {
	return Keyboard{row(Button{Label: "🔙 Back to Main Menu", Action: MainMenuAction})}
}

func topicalButtons() []Button {
	ids := category.Topical()
	out := make([]Button, 0, len(ids))
	for _, id := range ids {
		out = append(out, Button{Label: category.MustLookup(id).Label(), Action: CategoryAction(id)})
	}
	return out
}
