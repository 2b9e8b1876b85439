package chats

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) CreateSession(ctx context.Context, userA, userB int64) (int64, error) {

	query :=
		`INSERT INTO chat_sessions (user_a, user_b)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, userA, userB).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	return id, nil
}

func (r *PostgresRepository) EndSession(ctx context.Context, sessionID int64, endedAt time.Time) error {

	query :=
		`UPDATE chat_sessions SET status = 'ended', ended_at = $2
		 WHERE id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, sessionID, endedAt)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) AppendMessage(ctx context.Context, sessionID, senderID int64, body string) error {

	query :=
		`INSERT INTO chat_messages (session_id, sender_id, body)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, sessionID, senderID, body)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}
