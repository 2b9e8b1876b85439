// Package gateway defines the delivery boundary of the bot: sending text and
// button messages to users, moving opaque content between chats, and deleting
// ephemeral notices. The engine never inspects content bytes; it only holds
// ContentRef values and hands them back to the gateway.
package gateway

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ContentRef locates a piece of user-submitted content. The engine treats it
// as opaque; only gateway implementations interpret the fields.
type ContentRef struct {
	ChatID    int64
	MessageID int
	// FileID identifies the attached document inside the transport, when the
	// referenced message carries one.
	FileID string
}

// String encodes the ref as "chat:message:file" for durable storage.
func (r ContentRef) String() string {
	return fmt.Sprintf("%d:%d:%s", r.ChatID, r.MessageID, r.FileID)
}

// ParseContentRef decodes a ref produced by ContentRef.String.
func ParseContentRef(s string) (ContentRef, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return ContentRef{}, fmt.Errorf("malformed content ref %q", s)
	}
	chatID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ContentRef{}, fmt.Errorf("malformed content ref %q: %w", s, err)
	}
	messageID, err := strconv.Atoi(parts[1])
	if err != nil {
		return ContentRef{}, fmt.Errorf("malformed content ref %q: %w", s, err)
	}
	return ContentRef{ChatID: chatID, MessageID: messageID, FileID: parts[2]}, nil
}

// Choice is one inline button: a human label and the opaque tag delivered
// back when the button is pressed.
type Choice struct {
	Label string
	Tag   string
}

// Row builds a keyboard row.
func Row(choices ...Choice) []Choice {
	return choices
}

// Gateway sends outbound effects. Implementations must be safe for
// concurrent use; callers never invoke the gateway while holding engine
// locks, so calls may block on network latency.
type Gateway interface {
	// SendText delivers a text message to the user, with optional inline
	// keyboard rows.
	SendText(ctx context.Context, userID int64, text string, rows ...[]Choice) error

	// CopyContent copies the referenced content into the destination chat and
	// returns a ref to the new copy.
	CopyContent(ctx context.Context, src ContentRef, destChatID int64) (ContentRef, error)

	// SendDocument delivers a document available at url to the user.
	SendDocument(ctx context.Context, userID int64, url string, caption string) error

	// ContentURL resolves a direct download URL for the referenced document.
	ContentURL(ctx context.Context, ref ContentRef) (string, error)

	// DeleteMessage removes an ephemeral notice after the given delay.
	DeleteMessage(ctx context.Context, chatID int64, messageID int, after time.Duration) error
}
