package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/akazantsev/imgpatch/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserStore is the external collaborator owning user persistence.
// The core only ever reads from it.
type UserStore interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)
}

// UserSeeder is implemented by stores that can be pre-populated with
// example accounts for local development and tests.
type UserSeeder interface {
	SaveUser(ctx context.Context, username, passwordHash string) (*models.User, error)
}

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
