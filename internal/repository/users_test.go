package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubPool struct {
	queryRow func(ctx context.Context, sql string, args ...any) pgx.Row
	query    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	exec     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (p *stubPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.queryRow(ctx, sql, args...)
}

func (p *stubPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.query(ctx, sql, args...)
}

func (p *stubPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.exec(ctx, sql, args...)
}

func TestPGXUsersRepository_FindByEmail(t *testing.T) {
	id := uuid.New()
	pool := &stubPool{
		queryRow: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return rowFunc(func(dest ...any) error {
				*dest[0].(*uuid.UUID) = id
				*dest[1].(*string) = "user@example.com"
				*dest[2].(*string) = "hashed"
				*dest[3].(*string) = "user"
				*dest[4].(*time.Time) = time.Now()
				*dest[5].(*time.Time) = time.Now()
				return nil
			})
		},
	}

	repo := &PGXUsersRepository{pool: pool}
	user, err := repo.FindByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != id || user.Email != "user@example.com" || user.Role != "user" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestPGXUsersRepository_FindByEmail_NotFound(t *testing.T) {
	pool := &stubPool{
		queryRow: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return rowFunc(func(dest ...any) error { return pgx.ErrNoRows })
		},
	}

	repo := &PGXUsersRepository{pool: pool}
	if _, err := repo.FindByEmail(context.Background(), "missing@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPGXUsersRepository_Create_DuplicateEmail(t *testing.T) {
	pool := &stubPool{
		queryRow: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return rowFunc(func(dest ...any) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
			})
		},
	}

	repo := &PGXUsersRepository{pool: pool}
	if _, err := repo.Create(context.Background(), "user@example.com", "hashed", "user"); !errors.Is(err, ErrEmailDuplicate) {
		t.Fatalf("expected ErrEmailDuplicate, got %v", err)
	}
}

func TestPGXUsersRepository_Delete_NotFound(t *testing.T) {
	pool := &stubPool{
		exec: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 0"), nil
		},
	}

	repo := &PGXUsersRepository{pool: pool}
	if err := repo.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
