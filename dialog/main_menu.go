package dialog

import (
	"context"
	"time"

	"log/slog"

	"officebot/core/logger"
	"officebot/user"
)

// mainItem is one main-menu entry. A nil gate means the entry is open
// to everyone, Guests included.
type mainItem struct {
	label string
	data  string
	gate  []user.Role
}

func mainMenuItems() []mainItem {
	return []mainItem{
		{label: "Links", data: "/links", gate: []user.Role{user.RoleAdmin, user.RoleModerator, user.RoleSender, user.RoleMember}},
		{label: "Notice", data: "/notice", gate: []user.Role{user.RoleAdmin, user.RoleModerator, user.RoleSender}},
		{label: "Subscribe", data: "/subscribe", gate: []user.Role{user.RoleAdmin, user.RoleModerator, user.RoleSender, user.RoleMember}},
		{label: "Request access", data: "/requestaccess"},
		{label: "Help", data: "/help"},
	}
}

func (d *Dispatcher) handleMain(ctx context.Context, ev Event, cur Main) error {
	u := d.currentUser(ev)
	cmd := ParseMain(ev.Text)

	if gate := gateFor(cmd); gate != nil && !u.HasRole(gate...) {
		logger.Dialog.Info("command denied",
			slog.String("event", "gate"),
			slog.String("status", "denied"),
			slog.String("command", logger.SanitizeLimit(ev.Text, 32)),
			slog.String("user_id", u.ID),
		)
		_, err := d.msgr.Send(ctx, ev.ChatID, d.loc.Text("You don't have access to this command"), nil)
		return err
	}

	switch cmd {
	case MainLinks:
		return d.enterLinks(ctx, ev, cur)
	case MainNotice:
		return d.enterNotice(ctx, ev, cur)
	case MainSubscribe:
		return d.enterSubscribe(ctx, ev, cur, u)
	case MainRequestAccess:
		return d.requestAccess(ctx, ev, cur, u)
	case MainHelp:
		d.states.Set(ev.ChatID, Help{Prev: cur, User: u})
		return d.renderHelp(ctx, ev)
	case MainDone:
		return d.exit(ctx, ev, u)
	default:
		return d.unknownCommand(ctx, ev, u)
	}
}

func gateFor(cmd MainCmd) []user.Role {
	for _, item := range mainMenuItems() {
		if ParseMain(item.data) == cmd {
			return item.gate
		}
	}
	return nil
}

// renderMain draws the root menu with only the entries the caller's
// roles allow.
func (d *Dispatcher) renderMain(ctx context.Context, ev Event, u user.User) error {
	var buttons []Button
	for _, item := range mainMenuItems() {
		if item.gate != nil && !u.HasRole(item.gate...) {
			continue
		}
		buttons = append(buttons, Button{Text: d.loc.Text(item.label), Data: item.data})
	}
	exit := Button{Text: d.loc.Text("⏪Exit"), Data: "/exit"}
	return editOrSend(ctx, d.msgr, ev, d.loc.Text("Main menu"), PairRows(buttons, exit))
}

// exit closes the session: the menu collapses into a farewell line and
// the conversation returns to Start.
func (d *Dispatcher) exit(ctx context.Context, ev Event, u user.User) error {
	d.states.Set(ev.ChatID, Start{})
	name := u.Name
	if name == "" {
		name = ev.Name
	}
	return editOrSend(ctx, d.msgr, ev, d.loc.Textf("Bye, %s", name), nil)
}

// unknownCommand replies with the rejected input, waits long enough
// for the reply to be read, then re-renders the main menu in place.
func (d *Dispatcher) unknownCommand(ctx context.Context, ev Event, u user.User) error {
	raw := logger.SanitizeLimit(ev.Text, 64)
	if _, err := d.msgr.Send(ctx, ev.ChatID, d.loc.Textf("Unknown command '%s'", raw), nil); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d.redrawDelay):
	}
	return d.renderMain(ctx, ev, u)
}
