package dialog

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"log/slog"

	"golang.org/x/sync/errgroup"

	"officebot/core/logger"
)

func (d *Dispatcher) enterNotice(ctx context.Context, ev Event, cur Main) error {
	d.states.Set(ev.ChatID, Notice{Prev: cur, ChatID: ev.ChatID})
	return d.renderNoticePicker(ctx, ev)
}

func (d *Dispatcher) handleNoticePick(ctx context.Context, ev Event, cur Notice) error {
	if cur.Group != "" {
		// Composing phase: only a pop cancels back to the picker.
		if isPop(ev.Text) {
			cur.Group = ""
			d.states.Set(ev.ChatID, cur)
			return d.renderNoticePicker(ctx, ev)
		}
		return d.renderNoticePrompt(ctx, ev, cur.Group)
	}

	cmd := ParsePick(ev.Text)
	switch cmd.Kind {
	case PickDone:
		d.states.Set(ev.ChatID, cur.Prev)
		return d.renderMain(ctx, ev, d.currentUser(ev))
	case PickSelect:
		groups := d.db.GetGroups()
		if _, ok := groups[cmd.ID]; !ok {
			return d.renderNoticePicker(ctx, ev)
		}
		cur.Group = cmd.ID
		d.states.Set(ev.ChatID, cur)
		return d.renderNoticePrompt(ctx, ev, cmd.ID)
	default:
		return d.renderNoticePicker(ctx, ev)
	}
}

func (d *Dispatcher) renderNoticePicker(ctx context.Context, ev Event) error {
	groups := d.db.GetGroups()
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	buttons := make([]Button, 0, len(ids))
	for _, id := range ids {
		label := groups[id].Title
		if label == "" {
			label = id
		}
		buttons = append(buttons, Button{Text: label, Data: "/" + id})
	}
	return editOrSend(ctx, d.msgr, ev, d.loc.Text("Choose a group for the notice"), PairRows(buttons, d.backButton()))
}

func (d *Dispatcher) renderNoticePrompt(ctx context.Context, ev Event, groupID string) error {
	title := groupID
	if g, ok := d.db.GetGroups()[groupID]; ok && g.Title != "" {
		title = g.Title
	}
	rows := [][]Button{{d.backButton()}}
	return editOrSend(ctx, d.msgr, ev, d.loc.Textf("Type a notice for group '%s'", title), rows)
}

// broadcast fans the notice out to every member of the selected group
// (and the bound chat, if any) under a bold sender header. Sends are
// independent and best-effort; per-recipient failures are collected,
// logged and counted, never aborting the rest. Afterwards the state
// returns to the group picker, not to Main.
func (d *Dispatcher) broadcast(ctx context.Context, ev Event, cur Notice) error {
	groups := d.db.GetGroups()
	g, ok := groups[cur.Group]
	if !ok {
		cur.Group = ""
		d.states.Set(ev.ChatID, cur)
		return d.renderNoticePicker(ctx, ev)
	}

	sender := d.currentUser(ev)
	name := sender.Name
	if name == "" {
		name = ev.Name
	}
	body := fmt.Sprintf("<b>%s:</b>\n%s", name, ev.Text)

	targets := make([]int64, 0, len(g.Members)+1)
	seen := make(map[int64]struct{}, len(g.Members)+1)
	add := func(id int64) {
		if id == 0 {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		targets = append(targets, id)
	}
	for _, member := range g.Members {
		add(member.ChatID())
	}
	if g.ID != "" {
		if bound, err := strconv.ParseInt(g.ID, 10, 64); err == nil {
			add(bound)
		}
	}

	results := make([]error, len(targets))
	eg := errgroup.Group{}
	eg.SetLimit(d.broadcastLimit)
	for i, target := range targets {
		i, target := i, target
		eg.Go(func() error {
			_, err := d.msgr.Send(ctx, target, body, nil)
			results[i] = err
			return nil
		})
	}
	_ = eg.Wait()

	sent := 0
	for i, err := range results {
		if err == nil {
			sent++
			continue
		}
		logger.Dialog.Warn("notice delivery failed",
			slog.String("event", "notice.send"),
			slog.String("status", "fail"),
			slog.String("group_id", cur.Group),
			slog.Int64("chat_id", targets[i]),
			slog.String("err", err.Error()),
		)
	}
	logger.Dialog.Info("notice broadcast",
		slog.String("event", "notice.broadcast"),
		slog.String("group_id", cur.Group),
		slog.Int("recipients", len(targets)),
		slog.Int("sent", sent),
		slog.Int("failed", len(targets)-sent),
	)

	confirm := d.loc.Textf("Notice delivered to %d of %d recipients", sent, len(targets))
	if _, err := d.msgr.Send(ctx, ev.ChatID, confirm, nil); err != nil {
		return err
	}

	cur.Group = ""
	d.states.Set(ev.ChatID, cur)
	return d.renderNoticePicker(ctx, ev)
}
