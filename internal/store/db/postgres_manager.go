package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"campus-notes-bot/internal/store/broadcasts"
	"campus-notes-bot/internal/store/catalog"
	"campus-notes-bot/internal/store/chats"
	"campus-notes-bot/internal/store/migrations"
	"campus-notes-bot/internal/store/profiles"
	"campus-notes-bot/internal/store/submissions"
)

type PostgresRepositoryManager struct {
	db          *sql.DB
	profiles    profiles.Repository
	submissions submissions.Repository
	catalog     catalog.Repository
	chats       chats.Repository
	broadcasts  broadcasts.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Profiles() profiles.Repository {
	return m.profiles
}

func (m *PostgresRepositoryManager) Submissions() submissions.Repository {
	return m.submissions
}

func (m *PostgresRepositoryManager) Catalog() catalog.Repository {
	return m.catalog
}

func (m *PostgresRepositoryManager) Chats() chats.Repository {
	return m.chats
}

func (m *PostgresRepositoryManager) Broadcasts() broadcasts.Repository {
	return m.broadcasts
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	profileRepo, err := profiles.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("profile repo creation error: %w", err)
	}

	submissionRepo, err := submissions.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("submission repo creation error: %w", err)
	}

	catalogRepo, err := catalog.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("catalog repo creation error: %w", err)
	}

	chatRepo, err := chats.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("chat repo creation error: %w", err)
	}

	broadcastRepo, err := broadcasts.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("broadcast repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:          db,
		profiles:    profileRepo,
		submissions: submissionRepo,
		catalog:     catalogRepo,
		chats:       chatRepo,
		broadcasts:  broadcastRepo,
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
