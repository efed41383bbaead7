package dialog

import (
	"context"
	"sort"

	"log/slog"

	"officebot/core/logger"
	"officebot/user"
)

func (d *Dispatcher) enterSubscribe(ctx context.Context, ev Event, cur Main, u user.User) error {
	d.states.Set(ev.ChatID, Subscribe{Prev: cur, ChatID: ev.ChatID, User: u})
	return d.renderSubscribePicker(ctx, ev, u)
}

func (d *Dispatcher) handleSubscribePick(ctx context.Context, ev Event, cur Subscribe) error {
	cmd := ParsePick(ev.Text)
	switch cmd.Kind {
	case PickDone:
		d.states.Set(ev.ChatID, cur.Prev)
		return d.renderMain(ctx, ev, d.currentUser(ev))
	case PickSelect:
		return d.toggleSubscription(ctx, ev, cur, cmd.ID)
	default:
		return d.renderSubscribePicker(ctx, ev, cur.User)
	}
}

// toggleSubscription flips the caller's membership in the group:
// absent joins, present leaves. The picker is redrawn with updated
// checkmarks so repeated taps read back their own effect.
func (d *Dispatcher) toggleSubscription(ctx context.Context, ev Event, cur Subscribe, groupID string) error {
	groups := d.db.GetGroups()
	g, ok := groups[groupID]
	if !ok {
		return d.renderSubscribePicker(ctx, ev, cur.User)
	}

	u := d.currentUser(ev)
	joined := false
	if g.HasMember(u.ID) {
		delete(g.Members, u.ID)
	} else {
		g.Members[u.ID] = u
		joined = true
	}
	groups[groupID] = g
	if err := d.db.PutGroups(groups); err != nil {
		return err
	}

	logger.Dialog.Info("subscription toggled",
		slog.String("event", "subscribe.toggle"),
		slog.String("group_id", groupID),
		slog.String("user_id", u.ID),
		slog.Bool("joined", joined),
	)
	cur.Group = groupID
	cur.User = u
	d.states.Set(ev.ChatID, cur)
	return d.renderSubscribePicker(ctx, ev, u)
}

func (d *Dispatcher) renderSubscribePicker(ctx context.Context, ev Event, u user.User) error {
	groups := d.db.GetGroups()
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	buttons := make([]Button, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		label := g.Title
		if label == "" {
			label = id
		}
		if g.HasMember(u.ID) {
			label = "✅ " + label
		}
		buttons = append(buttons, Button{Text: label, Data: "/" + id})
	}
	return editOrSend(ctx, d.msgr, ev, d.loc.Text("Choose groups to subscribe to"), PairRows(buttons, d.backButton()))
}
