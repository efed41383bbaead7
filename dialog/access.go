package dialog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"log/slog"

	"officebot/core/logger"
	"officebot/user"
)

// ErrNoModerator marks an access request that found nobody to decide
// it. There is no queueing of pending requests.
var ErrNoModerator = errors.New("dialog: no moderator available for access request")

// requestAccess parks the requester and hands the first moderator on
// record a role picker bound to the requester's chat id. The moderator
// may be mid-conversation; their current state is preserved inside the
// GrantAccess record and restored afterwards.
func (d *Dispatcher) requestAccess(ctx context.Context, ev Event, cur Main, u user.User) error {
	var mod *user.User
	for _, cand := range d.db.ListUsers() {
		if cand.HasRole(user.RoleModerator) {
			mod = &cand
			break
		}
	}
	if mod == nil {
		return fmt.Errorf("access request from %s: %w", u.ID, ErrNoModerator)
	}
	modChat := mod.ChatID()
	if modChat == 0 {
		return fmt.Errorf("access request from %s: moderator %q has no usable chat id", u.ID, mod.ID)
	}

	d.states.Set(ev.ChatID, RequestAccess{Prev: cur, User: u})
	if err := editOrSend(ctx, d.msgr, ev, d.loc.Text("Access requested, waiting for a moderator"), nil); err != nil {
		return err
	}

	text := d.loc.Textf("User %s requests access. Choose a role", u.Name)
	if _, err := d.msgr.Send(ctx, modChat, text, PairRows(d.grantButtons(u), d.backButton())); err != nil {
		return err
	}
	d.states.Set(modChat, GrantAccess{Prev: d.states.Get(modChat), User: u})

	logger.Dialog.Info("access requested",
		slog.String("event", "access.request"),
		slog.String("user_id", u.ID),
		slog.Int64("chat_id", modChat),
	)
	return nil
}

// grantButtons builds the role picker from the visible part of the
// role catalog. Payloads carry the requester's chat id so the decision
// stays tied to one requester.
func (d *Dispatcher) grantButtons(requester user.User) []Button {
	roles := d.db.GetRoles()
	ids := make([]string, 0, len(roles))
	for id := range roles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var buttons []Button
	for _, id := range ids {
		entry := roles[id]
		if entry.Hidden || !entry.Role.Valid() {
			continue
		}
		label := entry.Title
		if label == "" {
			label = string(entry.Role)
		}
		buttons = append(buttons, Button{
			Text: label,
			Data: fmt.Sprintf("/%s:%s", entry.Role, requester.ID),
		})
	}
	return buttons
}

func (d *Dispatcher) handleGrant(ctx context.Context, ev Event, cur GrantAccess) error {
	cmd := ParseGrant(ev.Text)
	switch cmd.Kind {
	case GrantDone:
		// Cancel: the requester keeps waiting untouched.
		d.states.Set(ev.ChatID, cur.Prev)
		return d.renderState(ctx, ev, cur.Prev)
	case GrantRole:
		return d.applyGrant(ctx, ev, cur, cmd)
	default:
		return d.renderGrantPicker(ctx, ev, cur.User)
	}
}

// applyGrant gives the chosen role to the requester, persists it,
// notifies the requester with a fresh main menu, and returns the
// moderator to whatever they were doing.
func (d *Dispatcher) applyGrant(ctx context.Context, ev Event, cur GrantAccess, cmd GrantCmd) error {
	role := cmd.Role
	cur.Role = &role
	d.states.Set(ev.ChatID, cur)

	requester, ok := d.db.GetUser(cmd.ChatID)
	if !ok {
		requester = cur.User
	}
	requester.AddRole(role)
	if err := d.db.PutUser(requester); err != nil {
		return err
	}
	logger.Dialog.Info("role granted",
		slog.String("event", "access.grant"),
		slog.String("user_id", requester.ID),
		slog.String("role", string(role)),
	)

	reqChat := requester.ChatID()
	if reqChat != 0 {
		reqEv := Event{ChatID: reqChat, Name: requester.Name}
		notice := d.loc.Textf("You were granted the '%s' role", role)
		if _, err := d.msgr.Send(ctx, reqChat, notice, nil); err != nil {
			logger.Dialog.Warn("grant notification failed",
				slog.String("event", "access.notify"),
				slog.String("status", "fail"),
				slog.Int64("chat_id", reqChat),
				slog.String("err", err.Error()),
			)
		} else {
			d.states.Set(reqChat, Main{ChatID: reqChat})
			if err := d.renderMain(ctx, reqEv, requester); err != nil {
				return err
			}
		}
	}

	d.states.Set(ev.ChatID, cur.Prev)
	return d.renderState(ctx, ev, cur.Prev)
}

func (d *Dispatcher) renderGrantPicker(ctx context.Context, ev Event, requester user.User) error {
	text := d.loc.Textf("User %s requests access. Choose a role", requester.Name)
	return editOrSend(ctx, d.msgr, ev, text, PairRows(d.grantButtons(requester), d.backButton()))
}
