// Package keyboard converts transport-neutral button rows into
// telebot inline markup.
package keyboard

import (
	tele "gopkg.in/telebot.v4"

	"officebot/dialog"
)

// Markup builds an inline keyboard from dialog button rows. Buttons
// with a URL open it; all others send their Data payload verbatim.
func Markup(rows [][]dialog.Button) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			r = append(r, tele.InlineButton{Text: b.Text, Data: b.Data, URL: b.URL})
		}
		inline = append(inline, r)
	}
	markup.InlineKeyboard = inline
	return markup
}

// RemoveKeyboard returns a markup that hides the reply keyboard.
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}
