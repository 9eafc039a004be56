package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// codeUniqueViolation SQLSTATE de violación de índice único.
const codeUniqueViolation = "23505"

// isUniqueViolation detecta la violación de un índice único, venga como
// *pgconn.PgError o ya aplanada en el mensaje de un error envuelto. Los
// repositorios la traducen al centinela del dominio que corresponda
// (ErrDuplicate, ErrEmailAlreadyExists).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), codeUniqueViolation)
}
