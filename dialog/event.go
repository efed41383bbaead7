package dialog

// Event is one inbound interaction, either a typed message or an
// inline-button press. For button presses MessageID identifies the
// bot's menu message so it can be edited in place; for typed messages
// it is zero and redraws fall back to sending.
type Event struct {
	ChatID    int64
	MessageID int
	UserID    int64
	Name      string
	Username  string
	Text      string
}
