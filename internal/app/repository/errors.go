package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrURLNotFound signals that the requested short URL does not exist.
	ErrURLNotFound = errors.New("url not found")
	// ErrTagNotFound signals that the requested tag does not exist.
	ErrTagNotFound = errors.New("tag not found")
	// ErrAdminNotFound signals that the requested admin does not exist.
	ErrAdminNotFound = errors.New("admin not found")

	// ErrDuplicateShortCode signals a short code collision on insert.
	ErrDuplicateShortCode = errors.New("short code already exists")
	// ErrDuplicateSlug signals that another tag already uses the slug.
	ErrDuplicateSlug = errors.New("tag slug already exists")
	// ErrDuplicateEmail signals that another admin already uses the email.
	ErrDuplicateEmail = errors.New("admin email already exists")
)

const pgUniqueViolation = "23505"

// isDuplicateKey covers both gorm's translated error and a raw Postgres
// unique violation surfaced by pgx.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
