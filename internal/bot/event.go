package bot

import "campus-notes-bot/internal/gateway"

// EventKind discriminates the three inbound event shapes the router accepts.
type EventKind int

const (
	// EventCommand is a slash command ("/start", "/admin").
	EventCommand EventKind = iota
	// EventButton is an inline-button press carrying an opaque tag.
	EventButton
	// EventMessage is a freeform message: text, a document, or both.
	EventMessage
)

// Event is one inbound interaction, already tagged with the sender's
// identity by the transport. Exactly one of Command/Tag/Text+Document is
// meaningful depending on Kind.
type Event struct {
	Kind     EventKind
	UserID   int64
	Username string
	FullName string

	Command string
	Tag     string

	Text string
	// Document references an attached file when the message carries one.
	Document     *gateway.ContentRef
	DocumentName string
}
