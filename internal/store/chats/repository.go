package chats

import (
	"context"
	"time"
)

type Repository interface {
	CreateSession(ctx context.Context, userA, userB int64) (int64, error)

	EndSession(ctx context.Context, sessionID int64, endedAt time.Time) error

	AppendMessage(ctx context.Context, sessionID, senderID int64, body string) error
}
