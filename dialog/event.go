package dialog

// EventKind discriminates inbound event payloads.
type EventKind int

const (
	// KindText is a plain text message.
	KindText EventKind = iota
	// KindPhoto is a photo attachment; PhotoID carries the file reference.
	KindPhoto
	// KindCommand is a canonical slash command (aliases already resolved).
	KindCommand
	// KindSelect is an inline keyboard press; Key and Payload carry the data.
	KindSelect
)

// Event is a single inbound user action, already stripped of transport detail.
type Event struct {
	Kind    EventKind
	Command string // canonical command, e.g. "/menu" (KindCommand)
	Text    string // message text (KindText)
	PhotoID string // Telegram file ID (KindPhoto)
	Key     string // callback key (KindSelect)
	Payload string // callback payload (KindSelect)
	Sender  string // sender display name, used for greetings
}

// Button describes one inline keyboard button of a Reply.
type Button struct {
	Label string
	Key   string
	Data  string
}

// Reply is one outbound message. A Reply with only PhotoID set is sent as a
// bare photo; Buttons render as a single-column inline keyboard.
type Reply struct {
	Text           string
	Markdown       bool
	PhotoID        string
	Buttons        []Button
	RemoveKeyboard bool
}
