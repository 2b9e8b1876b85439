package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"campus-notes-bot/internal/bot"
	"campus-notes-bot/internal/gateway"
)

// mapUpdate converts one inbound update into an engine event. Updates the
// engine has no use for (edits, channel posts, joins) map to nil.
func mapUpdate(u tgbotapi.Update) *bot.Event {
	if cb := u.CallbackQuery; cb != nil && cb.From != nil {
		return &bot.Event{
			Kind:     bot.EventButton,
			UserID:   cb.From.ID,
			Username: cb.From.UserName,
			FullName: fullName(cb.From),
			Tag:      cb.Data,
		}
	}

	m := u.Message
	if m == nil || m.From == nil || !m.Chat.IsPrivate() {
		return nil
	}

	ev := &bot.Event{
		UserID:   m.From.ID,
		Username: m.From.UserName,
		FullName: fullName(m.From),
	}

	if m.IsCommand() {
		ev.Kind = bot.EventCommand
		ev.Command = m.Command()
		return ev
	}

	ev.Kind = bot.EventMessage
	ev.Text = m.Text
	if m.Document != nil {
		ev.Document = &gateway.ContentRef{
			ChatID:    m.Chat.ID,
			MessageID: m.MessageID,
			FileID:    m.Document.FileID,
		}
		ev.DocumentName = m.Document.FileName
		if ev.Text == "" {
			ev.Text = m.Caption
		}
	}
	return ev
}

func fullName(u *tgbotapi.User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Run long-polls for updates and dispatches each mapped event on its own
// goroutine until the context is cancelled. The router serializes per user,
// so concurrent dispatch is safe.
func (c *Client) Run(ctx context.Context, handle func(context.Context, bot.Event)) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := c.api.GetUpdatesChan(cfg)

	c.logger.Info(ctx, "polling for updates", "bot", c.Username())

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			ev := mapUpdate(u)
			if ev == nil {
				continue
			}
			// callbacks need an ack or the client keeps its spinner
			if u.CallbackQuery != nil {
				if _, err := c.api.Request(tgbotapi.NewCallback(u.CallbackQuery.ID, "")); err != nil {
					c.logger.Warn(ctx, "callback ack failed", "error", err.Error())
				}
			}
			go handle(ctx, *ev)
		}
	}
}
