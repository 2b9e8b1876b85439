package db

import (
	"context"
	"database/sql"

	"campus-notes-bot/internal/store/broadcasts"
	"campus-notes-bot/internal/store/catalog"
	"campus-notes-bot/internal/store/chats"
	"campus-notes-bot/internal/store/profiles"
	"campus-notes-bot/internal/store/submissions"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Profiles() profiles.Repository
	Submissions() submissions.Repository
	Catalog() catalog.Repository
	Chats() chats.Repository
	Broadcasts() broadcasts.Repository
}
