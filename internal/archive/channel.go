package archive

import (
	"context"
	"fmt"
	"strings"

	"campus-notes-bot/internal/gateway"
)

const channelRefPrefix = "channel:"

// ChannelArchiver keeps the permanent copy inside a transport-side archive
// chat; archiving and delivery are both message copies through the gateway.
type ChannelArchiver struct {
	gw            gateway.Gateway
	archiveChatID int64
}

func NewChannelArchiver(gw gateway.Gateway, archiveChatID int64) *ChannelArchiver {
	return &ChannelArchiver{gw: gw, archiveChatID: archiveChatID}
}

func (a *ChannelArchiver) Archive(ctx context.Context, src gateway.ContentRef) (string, error) {
	copied, err := a.gw.CopyContent(ctx, src, a.archiveChatID)
	if err != nil {
		return "", fmt.Errorf("error copying content to archive chat: %w", err)
	}
	return channelRefPrefix + copied.String(), nil
}

func (a *ChannelArchiver) Deliver(ctx context.Context, ref string, userID int64) error {
	encoded, ok := strings.CutPrefix(ref, channelRefPrefix)
	if !ok {
		return fmt.Errorf("ref %q does not belong to the channel archiver", ref)
	}

	src, err := gateway.ParseContentRef(encoded)
	if err != nil {
		return err
	}

	if _, err := a.gw.CopyContent(ctx, src, userID); err != nil {
		return fmt.Errorf("error copying archived content to user: %w", err)
	}
	return nil
}
