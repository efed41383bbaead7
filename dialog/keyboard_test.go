package dialog

import (
	"strings"
	"testing"
)

func btn(label string) Button {
	return Button{Text: label, Data: "/" + strings.ToLower(label)}
}

func TestPairRowsShortsArePaired(t *testing.T) {
	back := Button{Text: "Back", Data: "/back"}
	rows := PairRows([]Button{btn("One"), btn("Two"), btn("Three"), btn("Four")}, back)
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if len(rows[0]) != 2 || len(rows[1]) != 2 {
		t.Errorf("short buttons should pair: %v", rows)
	}
	if len(rows[2]) != 1 || rows[2][0].Data != "/back" {
		t.Errorf("back row = %v", rows[2])
	}
}

func TestPairRowsOddShortSharesBackRow(t *testing.T) {
	back := Button{Text: "Back", Data: "/back"}
	rows := PairRows([]Button{btn("One"), btn("Two"), btn("Three")}, back)
	if len(rows) != 2 {
		t.Fatalf("rows = %d: %v", len(rows), rows)
	}
	last := rows[len(rows)-1]
	if len(last) != 2 || last[0].Text != "Three" || last[1].Data != "/back" {
		t.Errorf("odd short should share the final row with back: %v", last)
	}
}

func TestPairRowsLongLabelOwnsRow(t *testing.T) {
	back := Button{Text: "Back", Data: "/back"}
	long := btn("A label definitely longer than twenty-one runes")
	rows := PairRows([]Button{btn("One"), long, btn("Two")}, back)
	// One is flushed alone, long gets its own row, Two shares with back.
	if len(rows) != 3 {
		t.Fatalf("rows = %d: %v", len(rows), rows)
	}
	if len(rows[0]) != 1 || rows[0][0].Text != "One" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if len(rows[1]) != 1 || rows[1][0].Text != long.Text {
		t.Errorf("long label should own its row: %v", rows[1])
	}
	if len(rows[2]) != 2 || rows[2][1].Data != "/back" {
		t.Errorf("row 2 = %v", rows[2])
	}
}

func TestPairRowsEmpty(t *testing.T) {
	back := Button{Text: "Back", Data: "/back"}
	rows := PairRows(nil, back)
	if len(rows) != 1 || len(rows[0]) != 1 || rows[0][0].Data != "/back" {
		t.Errorf("rows = %v", rows)
	}
}

func TestPairRowsBoundaryLabelLength(t *testing.T) {
	back := Button{Text: "Back", Data: "/back"}
	exactly21 := Button{Text: strings.Repeat("x", 21), Data: "/x"}
	rows := PairRows([]Button{exactly21, btn("One")}, back)
	// 21 runes is still short, so the two pair up.
	if len(rows) != 2 || len(rows[0]) != 2 {
		t.Errorf("rows = %v", rows)
	}
}
