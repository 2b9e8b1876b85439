package broadcasts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campus-notes-bot/internal/shared"
	"campus-notes-bot/internal/store/submissions"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, b *Request) (int64, error) {

	query :=
		`INSERT INTO broadcasts (submitter_id, faculty, major, cohort, body, content_ref)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		b.SubmitterID, b.Scope.Faculty, b.Scope.Major, b.Scope.Cohort, b.Body, b.ContentRef).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	return id, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Request, error) {

	query :=
		`SELECT id, submitter_id, faculty, major, cohort, body, content_ref, status, created_at
		 FROM broadcasts
		 WHERE id = $1
		 `

	b := &Request{}
	var status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.SubmitterID, &b.Scope.Faculty, &b.Scope.Major, &b.Scope.Cohort,
		&b.Body, &b.ContentRef, &status, &b.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	b.Status = submissions.Status(status)
	return b, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, from, to submissions.Status) (int64, error) {

	query :=
		`UPDATE broadcasts SET status = $3
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
