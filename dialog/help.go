package dialog

import "context"

const helpText = "This bot delivers notices to subscription groups.\n" +
	"Links opens the shared link collection.\n" +
	"Subscribe toggles your membership in a group.\n" +
	"Notice sends a message to every member of a chosen group.\n" +
	"Request access asks a moderator to grant you a role."

func (d *Dispatcher) renderHelp(ctx context.Context, ev Event) error {
	rows := [][]Button{{d.backButton()}}
	return editOrSend(ctx, d.msgr, ev, d.loc.Text(helpText), rows)
}
