package querier

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func NoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func UniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

func ForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

func CheckViolation(err error) bool {
	return pgCode(err) == codeCheckViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
