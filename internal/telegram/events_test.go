package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-notes-bot/internal/bot"
)

func privateChat(id int64) *tgbotapi.Chat {
	return &tgbotapi.Chat{ID: id, Type: "private"}
}

func TestMapUpdateCommand(t *testing.T) {
	u := tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 5, UserName: "ali", FirstName: "Ali"},
		Chat: privateChat(5),
		Text: "/start",
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: 6},
		},
	}}

	ev := mapUpdate(u)
	require.NotNil(t, ev)
	assert.Equal(t, bot.EventCommand, ev.Kind)
	assert.Equal(t, "start", ev.Command)
	assert.Equal(t, int64(5), ev.UserID)
	assert.Equal(t, "ali", ev.Username)
}

func TestMapUpdateText(t *testing.T) {
	u := tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 5, FirstName: "Ali", LastName: "Rezaei"},
		Chat: privateChat(5),
		Text: "hello",
	}}

	ev := mapUpdate(u)
	require.NotNil(t, ev)
	assert.Equal(t, bot.EventMessage, ev.Kind)
	assert.Equal(t, "hello", ev.Text)
	assert.Equal(t, "Ali Rezaei", ev.FullName)
	assert.Nil(t, ev.Document)
}

func TestMapUpdateDocument(t *testing.T) {
	u := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 42,
		From:      &tgbotapi.User{ID: 5, FirstName: "Ali"},
		Chat:      privateChat(5),
		Caption:   "anatomy notes",
		Document:  &tgbotapi.Document{FileID: "doc-1", FileName: "anatomy.pdf"},
	}}

	ev := mapUpdate(u)
	require.NotNil(t, ev)
	assert.Equal(t, bot.EventMessage, ev.Kind)
	require.NotNil(t, ev.Document)
	assert.Equal(t, "doc-1", ev.Document.FileID)
	assert.Equal(t, 42, ev.Document.MessageID)
	assert.Equal(t, "anatomy.pdf", ev.DocumentName)
	assert.Equal(t, "anatomy notes", ev.Text)
}

func TestMapUpdateCallback(t *testing.T) {
	u := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		From: &tgbotapi.User{ID: 5, FirstName: "Ali"},
		Data: "menu_search",
	}}

	ev := mapUpdate(u)
	require.NotNil(t, ev)
	assert.Equal(t, bot.EventButton, ev.Kind)
	assert.Equal(t, "menu_search", ev.Tag)
}

func TestMapUpdateIgnoresGroupsAndEdits(t *testing.T) {
	group := tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 5},
		Chat: &tgbotapi.Chat{ID: -100, Type: "supergroup"},
		Text: "hi all",
	}}
	assert.Nil(t, mapUpdate(group))

	edit := tgbotapi.Update{EditedMessage: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 5},
		Chat: privateChat(5),
		Text: "edited",
	}}
	assert.Nil(t, mapUpdate(edit))
}
