package dialog

import (
	"context"

	"log/slog"

	"officebot/core/logger"
	"officebot/store"
)

func (d *Dispatcher) enterLinks(ctx context.Context, ev Event, cur Main) error {
	root := d.db.GetLinks()
	st := Links{Prev: cur, Child: root.Child, ChatID: ev.ChatID}
	d.states.Set(ev.ChatID, st)
	return d.renderLinkNode(ctx, ev, root)
}

func (d *Dispatcher) handleLinksPick(ctx context.Context, ev Event, cur Links) error {
	cmd := ParsePick(ev.Text)
	switch cmd.Kind {
	case PickDone:
		return d.linksBack(ctx, ev, cur)
	case PickSelect:
		return d.linksDescend(ctx, ev, cur, cmd.ID)
	default:
		node, ok := d.nodeAt(levelPath(cur))
		if !ok {
			return d.linksReset(ctx, ev, cur)
		}
		return d.renderLinkNode(ctx, ev, node)
	}
}

// linksDescend steps into a child node, preferring the cached children
// over a fresh tree load.
func (d *Dispatcher) linksDescend(ctx context.Context, ev Event, cur Links, id string) error {
	child, ok := cur.Child.Get(id)
	if !ok {
		parent, found := d.nodeAt(levelPath(cur))
		if found {
			child, ok = parent.Child.Get(id)
		}
	}
	if !ok {
		logger.Dialog.Warn("unknown link child",
			slog.String("event", "links.select"),
			slog.String("status", "skip"),
			slog.String("path", cur.Level),
			slog.String("command", logger.SanitizeLimit(ev.Text, 64)),
		)
		return d.linksReset(ctx, ev, cur)
	}
	next := Links{
		Prev:   cur.Prev,
		Level:  id,
		Path:   levelPath(cur),
		Child:  child.Child,
		ChatID: cur.ChatID,
	}
	d.states.Set(ev.ChatID, next)
	return d.renderLinkNode(ctx, ev, child)
}

// linksBack pops one tree level, or returns to Main from the root.
func (d *Dispatcher) linksBack(ctx context.Context, ev Event, cur Links) error {
	if cur.Level == "" {
		d.states.Set(ev.ChatID, cur.Prev)
		return d.renderMain(ctx, ev, d.currentUser(ev))
	}
	parentPath := cur.Path
	parentLevel := ""
	if len(parentPath) > 0 {
		parentLevel = parentPath[len(parentPath)-1]
		parentPath = parentPath[:len(parentPath)-1]
	}
	parent, ok := d.nodeAt(append(append([]string(nil), parentPath...), parentLevel))
	if !ok {
		return d.linksReset(ctx, ev, cur)
	}
	next := Links{
		Prev:   cur.Prev,
		Level:  parentLevel,
		Path:   parentPath,
		Child:  parent.Child,
		ChatID: cur.ChatID,
	}
	d.states.Set(ev.ChatID, next)
	return d.renderLinkNode(ctx, ev, parent)
}

// linksReset re-roots the conversation when the tree shifted under a
// stale position.
func (d *Dispatcher) linksReset(ctx context.Context, ev Event, cur Links) error {
	root := d.db.GetLinks()
	d.states.Set(ev.ChatID, Links{Prev: cur.Prev, Child: root.Child, ChatID: cur.ChatID})
	return d.renderLinkNode(ctx, ev, root)
}

func (d *Dispatcher) renderLinkNode(ctx context.Context, ev Event, node store.LinkNode) error {
	title := node.Title
	if title == "" {
		title = d.loc.Text("Links")
	}
	var buttons []Button
	for _, link := range node.Links {
		buttons = append(buttons, Button{Text: link.Title, URL: link.URL})
	}
	for _, id := range node.Child.IDs() {
		child, _ := node.Child.Get(id)
		label := child.Title
		if label == "" {
			label = id
		}
		buttons = append(buttons, Button{Text: label, Data: "/" + id})
	}
	return editOrSend(ctx, d.msgr, ev, title, PairRows(buttons, d.backButton()))
}

// levelPath returns the full id path of the state's current node,
// ancestors first.
func levelPath(st Links) []string {
	if st.Level == "" {
		return append([]string(nil), st.Path...)
	}
	return append(append([]string(nil), st.Path...), st.Level)
}

// nodeAt walks the stored tree along ids; empty segments mean the root.
func (d *Dispatcher) nodeAt(ids []string) (store.LinkNode, bool) {
	node := d.db.GetLinks()
	for _, id := range ids {
		if id == "" {
			continue
		}
		child, ok := node.Child.Get(id)
		if !ok {
			return store.LinkNode{}, false
		}
		node = child
	}
	return node, true
}
