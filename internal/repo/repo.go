package repo

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

const pgUniqueViolationCode = "23505"

// psql builds postgres-flavoured ($n) queries.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode
}
