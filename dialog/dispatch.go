package dialog

import (
	"context"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"officebot/core/logger"
	"officebot/loc"
	"officebot/store"
	"officebot/user"
)

// Options wires the Dispatcher's collaborators.
type Options struct {
	States    *States
	Store     *store.Store
	Messenger Messenger
	Localizer *loc.Localizer

	// RedrawDelay is the pause between an unknown-command reply and
	// the main-menu redraw. Zero selects the default.
	RedrawDelay time.Duration
	// BroadcastLimit bounds concurrent sends during a notice fan-out.
	BroadcastLimit int
}

const (
	defaultRedrawDelay    = 2 * time.Second
	defaultBroadcastLimit = 8
)

// Dispatcher routes inbound events through the conversation state
// machine: it loads the chat's State, applies the transition for the
// parsed command, persists the next State and triggers menu output.
type Dispatcher struct {
	states         *States
	db             *store.Store
	msgr           Messenger
	loc            *loc.Localizer
	redrawDelay    time.Duration
	broadcastLimit int
}

// New builds a Dispatcher.
func New(opts Options) *Dispatcher {
	states := opts.States
	if states == nil {
		states = NewStates()
	}
	delay := opts.RedrawDelay
	if delay <= 0 {
		delay = defaultRedrawDelay
	}
	limit := opts.BroadcastLimit
	if limit <= 0 {
		limit = defaultBroadcastLimit
	}
	return &Dispatcher{
		states:         states,
		db:             opts.Store,
		msgr:           opts.Messenger,
		loc:            opts.Localizer,
		redrawDelay:    delay,
		broadcastLimit: limit,
	}
}

// States exposes the conversation state store.
func (d *Dispatcher) States() *States { return d.states }

// HandleText processes a typed message for the chat's current state.
func (d *Dispatcher) HandleText(ctx context.Context, ev Event) error {
	st := d.states.Get(ev.ChatID)
	logger.Dialog.Debug("text received",
		slog.String("event", "text"),
		slog.String("state", StateName(st)),
		slog.Int("text_len", len(ev.Text)),
	)
	d.touch(ev)

	// Typed messages cannot edit the menu in place.
	ev.MessageID = 0

	switch cur := st.(type) {
	case Start:
		return d.handleStart(ctx, ev)
	case Main:
		return d.handleMain(ctx, ev, cur)
	case Links:
		// Text entry is reserved for higher menus; any typing here
		// bounces the conversation back to Main.
		d.states.Set(ev.ChatID, cur.Prev)
		return d.renderMain(ctx, ev, d.currentUser(ev))
	case Notice:
		if cur.Group != "" {
			return d.broadcast(ctx, ev, cur)
		}
		return d.renderNoticePicker(ctx, ev)
	case Subscribe:
		return d.renderSubscribePicker(ctx, ev, cur.User)
	case RequestAccess:
		_, err := d.msgr.Send(ctx, ev.ChatID, d.loc.Text("Access requested, waiting for a moderator"), nil)
		return err
	case GrantAccess:
		return d.renderGrantPicker(ctx, ev, cur.User)
	case Help:
		d.states.Set(ev.ChatID, cur.Prev)
		return d.renderMain(ctx, ev, d.currentUser(ev))
	default:
		return d.promptStart(ctx, ev)
	}
}

// HandleCallback processes an inline-button press for the chat's
// current state. Malformed payloads classify as unknown and re-render
// rather than fail.
func (d *Dispatcher) HandleCallback(ctx context.Context, ev Event) error {
	st := d.states.Get(ev.ChatID)
	logger.Dialog.Debug("callback received",
		slog.String("event", "callback"),
		slog.String("state", StateName(st)),
		slog.String("command", logger.SanitizeLimit(ev.Text, 64)),
	)
	d.touch(ev)

	switch cur := st.(type) {
	case Start:
		return d.promptStart(ctx, ev)
	case Main:
		return d.handleMain(ctx, ev, cur)
	case Links:
		return d.handleLinksPick(ctx, ev, cur)
	case Notice:
		return d.handleNoticePick(ctx, ev, cur)
	case Subscribe:
		return d.handleSubscribePick(ctx, ev, cur)
	case RequestAccess:
		if isPop(ev.Text) {
			d.states.Set(ev.ChatID, cur.Prev)
			return d.renderMain(ctx, ev, d.currentUser(ev))
		}
		return editOrSend(ctx, d.msgr, ev, d.loc.Text("Access requested, waiting for a moderator"), nil)
	case GrantAccess:
		return d.handleGrant(ctx, ev, cur)
	case Help:
		d.states.Set(ev.ChatID, cur.Prev)
		return d.renderMain(ctx, ev, d.currentUser(ev))
	default:
		return d.promptStart(ctx, ev)
	}
}

// BotAdded registers the chat the bot joined as an auto group.
func (d *Dispatcher) BotAdded(ctx context.Context, chatID int64, title string) error {
	id := strconv.FormatInt(chatID, 10)
	if err := d.db.RegisterGroup(id, title); err != nil {
		return err
	}
	logger.Dialog.Info("group registered",
		slog.String("event", "group.register"),
		slog.String("group_id", id),
		slog.String("group", logger.SanitizeLimit(title, 64)),
	)
	return nil
}

// BotRemoved handles the bot leaving a chat. The removal path is
// defined but not built; the error must surface, not vanish.
func (d *Dispatcher) BotRemoved(ctx context.Context, chatID int64, title string) error {
	return d.db.RemoveGroup(strconv.FormatInt(chatID, 10))
}

func (d *Dispatcher) handleStart(ctx context.Context, ev Event) error {
	if !strings.EqualFold(strings.TrimSpace(ev.Text), "/start") {
		return d.promptStart(ctx, ev)
	}
	u, err := d.ensureUser(ev)
	if err != nil {
		return err
	}
	d.states.Set(ev.ChatID, Main{ChatID: ev.ChatID})
	logger.Dialog.Info("conversation started",
		slog.String("event", "start"),
		slog.Int64("chat_id", ev.ChatID),
		slog.String("username", ev.Username),
	)
	return d.renderMain(ctx, ev, u)
}

func (d *Dispatcher) promptStart(ctx context.Context, ev Event) error {
	_, err := d.msgr.Send(ctx, ev.ChatID, d.loc.Text("Type /start"), nil)
	return err
}

// ensureUser loads or creates the caller's record and refreshes the
// mutable identity fields. The contact field is operator-maintained
// data, not the Telegram handle, so new records leave it empty.
func (d *Dispatcher) ensureUser(ev Event) (user.User, error) {
	id := strconv.FormatInt(ev.ChatID, 10)
	u, ok := d.db.GetUser(id)
	if !ok {
		u = user.New(ev.ChatID, ev.Name, "")
	}
	if ev.Name != "" {
		u.Name = ev.Name
	}
	u.LastSeen = time.Now().UTC()
	if err := d.db.PutUser(u); err != nil {
		return u, err
	}
	return u, nil
}

// touch refreshes last-seen for an already known user. Failures are
// logged and swallowed; presence bookkeeping never blocks a reply.
func (d *Dispatcher) touch(ev Event) {
	id := strconv.FormatInt(ev.ChatID, 10)
	u, ok := d.db.GetUser(id)
	if !ok {
		return
	}
	if ev.Name != "" {
		u.Name = ev.Name
	}
	u.LastSeen = time.Now().UTC()
	if err := d.db.PutUser(u); err != nil {
		logger.Store.Warn("last-seen update failed",
			slog.String("event", "user.touch"),
			slog.String("user_id", id),
			slog.String("err", err.Error()),
		)
	}
}

// currentUser returns the caller's record, or an unsaved Guest record
// when storage has none.
func (d *Dispatcher) currentUser(ev Event) user.User {
	u, ok := d.db.GetUser(strconv.FormatInt(ev.ChatID, 10))
	if !ok {
		return user.New(ev.ChatID, ev.Name, "")
	}
	return u
}

// renderState redraws the menu belonging to st; used when a pop lands
// a conversation back on an arbitrary previous state.
func (d *Dispatcher) renderState(ctx context.Context, ev Event, st State) error {
	switch s := st.(type) {
	case Start:
		return d.promptStart(ctx, ev)
	case Main:
		return d.renderMain(ctx, ev, d.currentUser(ev))
	case Links:
		node, ok := d.nodeAt(levelPath(s))
		if !ok {
			node = d.db.GetLinks()
		}
		return d.renderLinkNode(ctx, ev, node)
	case Notice:
		if s.Group == "" {
			return d.renderNoticePicker(ctx, ev)
		}
		return d.renderNoticePrompt(ctx, ev, s.Group)
	case Subscribe:
		return d.renderSubscribePicker(ctx, ev, s.User)
	case RequestAccess:
		return editOrSend(ctx, d.msgr, ev, d.loc.Text("Access requested, waiting for a moderator"), nil)
	case GrantAccess:
		return d.renderGrantPicker(ctx, ev, s.User)
	case Help:
		return d.renderHelp(ctx, ev)
	default:
		return d.promptStart(ctx, ev)
	}
}

func (d *Dispatcher) backButton() Button {
	return Button{Text: d.loc.Text("⏪Back"), Data: "/back"}
}
