package submissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campus-notes-bot/internal/shared"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *Submission) (int64, error) {

	query :=
		`INSERT INTO submissions
		   (submitter_id, faculty, major, cohort, title, attribution, src_chat_id, src_message_id, file_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		s.SubmitterID, s.Faculty, s.Major, s.Cohort, s.Title, s.Attribution,
		s.Content.ChatID, s.Content.MessageID, s.Content.FileID).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	return id, nil
}

const selectColumns = `id, submitter_id, faculty, major, cohort, title, attribution,
		        src_chat_id, src_message_id, file_id, status, created_at`

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Submission, error) {

	query := `SELECT ` + selectColumns + `
		 FROM submissions
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) OldestPending(ctx context.Context) (*Submission, error) {

	query := `SELECT ` + selectColumns + `
		 FROM submissions
		 WHERE status = 'pending'
		 ORDER BY created_at ASC
		 LIMIT 1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query))
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, from, to Status) (int64, error) {

	query :=
		`UPDATE submissions SET status = $3
		 WHERE id = $1 AND status = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, string(from), string(to))
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading rows affected: %v", err)
	}

	return affected, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*Submission, error) {
	s := &Submission{}
	var status string

	err := row.Scan(&s.ID, &s.SubmitterID, &s.Faculty, &s.Major, &s.Cohort,
		&s.Title, &s.Attribution,
		&s.Content.ChatID, &s.Content.MessageID, &s.Content.FileID,
		&status, &s.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	s.Status = Status(status)
	return s, nil
}
