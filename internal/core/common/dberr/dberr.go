// Package dberr translates store errors into application errors.
package dberr

import (
	stderrors "errors"
	"fmt"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Convert maps err onto the application taxonomy. notFound is returned for
// missing rows when non-nil; anything unrecognised becomes a persistence
// error carrying the store message.
func Convert(err error, notFound *errors.AppError, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.IsAppError(err); ok {
		return err
	}

	if stderrors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound.WithCause(err)
	}
	if IsDuplicate(err) {
		return errors.ErrDuplicateRecord.WithCause(err)
	}
	return errors.NewPersistenceError(fmt.Sprintf(format, args...), err)
}

func IsDuplicate(err error) bool {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
