package profiles

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

func (r *PostgresRepository) Upsert(ctx context.Context, userID int64, username, fullName string) error {

	query :=
		`INSERT INTO users (user_id, username, full_name, last_seen)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		   username = EXCLUDED.username,
		   full_name = EXCLUDED.full_name,
		   last_seen = NOW()
		 `

	_, err := r.db.ExecContext(ctx, query, userID, username, fullName)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*Profile, error) {
	query :=
		`SELECT user_id, COALESCE(username, ''), COALESCE(full_name, ''),
		        COALESCE(faculty, ''), COALESCE(major, ''), COALESCE(cohort, ''),
		        approved_uploads, chat_used, created_at, last_seen
		 FROM users
		 WHERE user_id = $1
		 `

	p := &Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.Username, &p.FullName,
		&p.Faculty, &p.Major, &p.Cohort,
		&p.ApprovedUploads, &p.ChatUsed, &p.CreatedAt, &p.LastSeen)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return p, nil
}

func (r *PostgresRepository) SetClassification(ctx context.Context, userID int64, faculty, major, cohort string) error {

	query :=
		`UPDATE users SET faculty = $2, major = $3, cohort = $4
		 WHERE user_id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, userID, faculty, major, cohort)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) IncrementApproved(ctx context.Context, userID int64) error {

	query := `UPDATE users SET approved_uploads = approved_uploads + 1 WHERE user_id = $1`

	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) MarkChatUsed(ctx context.Context, userID int64) error {

	query := `UPDATE users SET chat_used = TRUE WHERE user_id = $1`

	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {

	var c int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	return c, nil
}

func (r *PostgresRepository) CountByFaculty(ctx context.Context) ([]FacultyCount, error) {

	query :=
		`SELECT faculty, COUNT(*) FROM users
		 WHERE faculty IS NOT NULL AND faculty <> ''
		 GROUP BY faculty
		 ORDER BY COUNT(*) DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var result []FacultyCount
	for rows.Next() {
		var fc FacultyCount
		if err := rows.Scan(&fc.Faculty, &fc.Count); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		result = append(result, fc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return result, nil
}

func (r *PostgresRepository) Latest(ctx context.Context, limit int) ([]*Profile, error) {

	query :=
		`SELECT user_id, COALESCE(username, ''), COALESCE(full_name, ''),
		        COALESCE(faculty, ''), COALESCE(major, ''), COALESCE(cohort, '')
		 FROM users
		 ORDER BY created_at DESC
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	return scanProfiles(rows)
}

func (r *PostgresRepository) ListByScope(ctx context.Context, scope Scope, limit int) ([]*Profile, error) {

	query :=
		`SELECT user_id, COALESCE(username, ''), COALESCE(full_name, ''),
		        COALESCE(faculty, ''), COALESCE(major, ''), COALESCE(cohort, '')
		 FROM users
		 WHERE ($1 = '' OR faculty = $1)
		   AND ($2 = '' OR major = $2)
		   AND ($3 = '' OR cohort = $3)
		 ORDER BY created_at DESC
		 LIMIT $4
		 `

	rows, err := r.db.QueryContext(ctx, query, scope.Faculty, scope.Major, scope.Cohort, limit)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	return scanProfiles(rows)
}

func (r *PostgresRepository) ListIDsByScope(ctx context.Context, scope Scope) ([]int64, error) {

	query :=
		`SELECT user_id FROM users
		 WHERE ($1 = '' OR faculty = $1)
		   AND ($2 = '' OR major = $2)
		   AND ($3 = '' OR cohort = $3)
		 `

	rows, err := r.db.QueryContext(ctx, query, scope.Faculty, scope.Major, scope.Cohort)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return ids, nil
}

func scanProfiles(rows *sql.Rows) ([]*Profile, error) {
	var result []*Profile
	for rows.Next() {
		p := &Profile{}
		if err := rows.Scan(&p.UserID, &p.Username, &p.FullName, &p.Faculty, &p.Major, &p.Cohort); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return result, nil
}
