// Package telegram adapts the Telegram Bot API to the engine's gateway
// interface and feeds inbound updates into the router as events.
package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"campus-notes-bot/internal/gateway"
	"campus-notes-bot/internal/logging"
)

// Client wraps the Bot API connection. It implements gateway.Gateway.
type Client struct {
	api    *tgbotapi.BotAPI
	logger logging.Logger
}

func NewClient(token string, logger logging.Logger) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error connecting to bot api: %w", err)
	}
	return &Client{api: api, logger: logger.With("module", "telegram")}, nil
}

// Username returns the bot account name reported by the API.
func (c *Client) Username() string {
	return c.api.Self.UserName
}

func (c *Client) SendText(ctx context.Context, userID int64, text string, rows ...[]gateway.Choice) error {
	msg := tgbotapi.NewMessage(userID, text)
	if len(rows) > 0 {
		msg.ReplyMarkup = inlineKeyboard(rows)
	}
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("error sending message to %d: %w", userID, err)
	}
	return nil
}

func (c *Client) CopyContent(ctx context.Context, src gateway.ContentRef, destChatID int64) (gateway.ContentRef, error) {
	cfg := tgbotapi.NewCopyMessage(destChatID, src.ChatID, src.MessageID)
	res, err := c.api.CopyMessage(cfg)
	if err != nil {
		return gateway.ContentRef{}, fmt.Errorf("error copying message %d:%d: %w", src.ChatID, src.MessageID, err)
	}
	return gateway.ContentRef{ChatID: destChatID, MessageID: res.MessageID, FileID: src.FileID}, nil
}

func (c *Client) SendDocument(ctx context.Context, userID int64, url string, caption string) error {
	doc := tgbotapi.NewDocument(userID, tgbotapi.FileURL(url))
	doc.Caption = caption
	if _, err := c.api.Send(doc); err != nil {
		return fmt.Errorf("error sending document to %d: %w", userID, err)
	}
	return nil
}

func (c *Client) ContentURL(ctx context.Context, ref gateway.ContentRef) (string, error) {
	file, err := c.api.GetFile(tgbotapi.FileConfig{FileID: ref.FileID})
	if err != nil {
		return "", fmt.Errorf("error resolving file %s: %w", ref.FileID, err)
	}
	return file.Link(c.api.Token), nil
}

func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int, after time.Duration) error {
	if after <= 0 {
		_, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
		if err != nil {
			return fmt.Errorf("error deleting message %d:%d: %w", chatID, messageID, err)
		}
		return nil
	}

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(after):
		}
		if _, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
			c.logger.Warn(ctx, "delayed delete failed", "chat", chatID, "message", messageID, "error", err.Error())
		}
	}()
	return nil
}

func inlineKeyboard(rows [][]gateway.Choice) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, ch := range row {
			kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(ch.Label, ch.Tag))
		}
		kbRows = append(kbRows, kbRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}
