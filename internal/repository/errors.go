package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateKey is returned when a write violates a unique index. The
// service layer translates it into the matching domain error.
var ErrDuplicateKey = errors.New("duplicate key value")

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite (local/dev/tests) reports unique violations as plain strings.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
