package catalog

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

func (r *PostgresRepository) Insert(ctx context.Context, e *Entry) (int64, error) {

	query :=
		`INSERT INTO catalog
		   (faculty, major, cohort, title, attribution, archive_ref, contributor_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		e.Faculty, e.Major, e.Cohort, e.Title, e.Attribution, e.ArchiveRef, e.ContributorID).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	return id, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Entry, error) {

	query :=
		`SELECT id, faculty, major, cohort, title, attribution, archive_ref, contributor_id, created_at
		 FROM catalog
		 WHERE id = $1
		 `

	e := &Entry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Faculty, &e.Major, &e.Cohort, &e.Title, &e.Attribution,
		&e.ArchiveRef, &e.ContributorID, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return e, nil
}

func (r *PostgresRepository) Search(ctx context.Context, faculty, major, query string, limit int) ([]*Entry, error) {

	q :=
		`SELECT id, faculty, major, cohort, title, attribution, archive_ref, contributor_id, created_at
		 FROM catalog
		 WHERE faculty = $1 AND major = $2 AND title ILIKE $3
		 ORDER BY created_at DESC
		 LIMIT $4
		 `

	rows, err := r.db.QueryContext(ctx, q, faculty, major, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Faculty, &e.Major, &e.Cohort, &e.Title, &e.Attribution,
			&e.ArchiveRef, &e.ContributorID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (int64, error) {

	res, err := r.db.ExecContext(ctx, `DELETE FROM catalog WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading rows affected: %v", err)
	}

	return affected, nil
}
