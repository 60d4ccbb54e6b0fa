// Package format renders text for Telegram's HTML parse mode.
package format

import "strings"

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape makes arbitrary text safe to embed in an HTML-mode message.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

// Bold escapes s and wraps it in <b>.
func Bold(s string) string {
	return "<b>" + Escape(s) + "</b>"
}

// Italic escapes s and wraps it in <i>.
func Italic(s string) string {
	return "<i>" + Escape(s) + "</i>"
}

// Bullets renders items as "• item" lines, escaping each.
func Bullets(items []string) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(Escape(it))
	}
	return b.String()
}
