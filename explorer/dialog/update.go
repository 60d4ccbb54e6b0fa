// Package dialog is the conversation state machine. It turns one inbound
// update and the conversation's session into one outbound action.
package dialog

import (
	"strings"
	"unicode"
)

// Update is an inbound event. The set of variants is closed: Command,
// FreeText, MenuClick and Attachment.
type Update interface {
	conversation() int64
	kind() string
}

// Command is a slash command. Name is lower case without the slash or a
// trailing @botname; Args is whatever followed the first space.
type Command struct {
	ConversationID int64
	Name           string
	Args           string
}

// FreeText is any non-command text message.
type FreeText struct {
	ConversationID int64
	Text           string
}

// MenuClick is an inline button press. MessageID is the message carrying
// the keyboard and CallbackID the platform id to acknowledge.
type MenuClick struct {
	ConversationID int64
	MessageID      int
	CallbackID     string
	Data           string
}

// Attachment is a message without text: a photo, sticker, voice note,
// location and so on. Media names what arrived.
type Attachment struct {
	ConversationID int64
	Media          string
}

func (u Command) conversation() int64    { return u.ConversationID }
func (u FreeText) conversation() int64   { return u.ConversationID }
func (u MenuClick) conversation() int64  { return u.ConversationID }
func (u Attachment) conversation() int64 { return u.ConversationID }

func (Command) kind() string    { return "command" }
func (FreeText) kind() string   { return "text" }
func (MenuClick) kind() string  { return "click" }
func (Attachment) kind() string { return "attachment" }

// ParseCommand splits "/Start@CityBot  foo bar" into ("start", "foo bar").
// ok is false when text is not a command at all.
func ParseCommand(text string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		head, rest = text[:i], text[i:]
	}
	head = strings.TrimPrefix(head, "/")
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

// FromText classifies a text message as a Command or FreeText.
func FromText(conversationID int64, text string) Update {
	if name, args, ok := ParseCommand(text); ok {
		return Command{ConversationID: conversationID, Name: name, Args: args}
	}
	return FreeText{ConversationID: conversationID, Text: text}
}
