package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"campus-notes-bot/internal/shared"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	repo, err := NewPostgresRepository(db)
	if err != nil {
		t.Fatalf("NewPostgresRepository error: %v", err)
	}
	return repo, mock, db
}

func entryColumns() []string {
	return []string{"id", "faculty", "major", "cohort", "title", "attribution",
		"archive_ref", "contributor_id", "created_at"}
}

func TestInsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(5))
	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+catalog.*RETURNING\s+id`).
		WithArgs("Medicine", "Medicine", "2023", "Physiology 2", nil, "s3:notes/x.pdf", int64(7)).
		WillReturnRows(rows)

	id, err := repo.Insert(context.Background(), &Entry{
		Faculty:       "Medicine",
		Major:         "Medicine",
		Cohort:        "2023",
		Title:         "Physiology 2",
		ArchiveRef:    "s3:notes/x.pdf",
		ContributorID: 7,
	})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if id != 5 {
		t.Fatalf("expected id 5, got %d", id)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT.*FROM\s+catalog\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 42)
	if !errors.Is(err, shared.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestSearch_WrapsQueryInWildcards(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(entryColumns()).
		AddRow(int64(1), "Medicine", "Medicine", "2023", "Physiology 2", nil,
			"s3:notes/x.pdf", int64(7), time.Now())
	mock.ExpectQuery(`(?s)SELECT.*FROM\s+catalog\s+WHERE\s+faculty\s*=\s*\$1\s+AND\s+major\s*=\s*\$2\s+AND\s+title\s+ILIKE\s+\$3`).
		WithArgs("Medicine", "Medicine", "%phys%", 20).
		WillReturnRows(rows)

	result, err := repo.Search(context.Background(), "Medicine", "Medicine", "phys", 20)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result))
	}
	if result[0].Title != "Physiology 2" {
		t.Fatalf("unexpected title %q", result[0].Title)
	}
}

func TestDelete_RowsAffected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+catalog\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Delete(context.Background(), 42)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}
}

func TestDelete_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+catalog`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Delete(context.Background(), 42)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows affected, got %d", affected)
	}
}
