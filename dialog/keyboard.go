package dialog

import "unicode/utf8"

// longLabelRunes is the label length above which a button takes a
// whole keyboard row instead of sharing one.
const longLabelRunes = 21

// PairRows lays out picker buttons into keyboard rows: long-labelled
// buttons get a row of their own, short ones are paired two per row,
// and a trailing odd short button shares the final row with back.
// The back button always closes the keyboard.
func PairRows(buttons []Button, back Button) [][]Button {
	rows := make([][]Button, 0, len(buttons)/2+1)
	var pending *Button
	for i := range buttons {
		b := buttons[i]
		if utf8.RuneCountInString(b.Text) > longLabelRunes {
			if pending != nil {
				rows = append(rows, []Button{*pending})
				pending = nil
			}
			rows = append(rows, []Button{b})
			continue
		}
		if pending == nil {
			pending = &b
			continue
		}
		rows = append(rows, []Button{*pending, b})
		pending = nil
	}
	if pending != nil {
		rows = append(rows, []Button{*pending, back})
	} else {
		rows = append(rows, []Button{back})
	}
	return rows
}
