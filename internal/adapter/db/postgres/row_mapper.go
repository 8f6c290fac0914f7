package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"puser-service/internal/domain/user"
	apperrors "puser-service/pkg/errors"
)

// userColumns is the column list of listUsersSQL, in scan order.
var userColumns = []string{"id", "user_name"}

var errNullID = errors.New("id is null")

// RowScanner is the subset of *sql.Rows the mapper needs.
type RowScanner interface {
	Scan(dest ...any) error
}

// ValidateColumns checks that a result set exposes exactly the user columns in order.
func ValidateColumns(cols []string) error {
	if len(cols) != len(userColumns) {
		return apperrors.NewMappingError(-1, "",
			fmt.Errorf("expected columns %v, got %v", userColumns, cols))
	}
	for i, want := range userColumns {
		if !strings.EqualFold(cols[i], want) {
			return apperrors.NewMappingError(-1, want,
				fmt.Errorf("expected column %q at position %d, got %q", want, i, cols[i]))
		}
	}
	return nil
}

// MapUserRow builds a User from the current row. idx is the row position and
// only used for error reporting. A NULL user_name maps to the empty string.
func MapUserRow(row RowScanner, idx int) (user.User, error) {
	var (
		id   sql.NullInt64
		name sql.NullString
	)
	if err := row.Scan(&id, &name); err != nil {
		return user.User{}, apperrors.NewMappingError(idx, "", err)
	}
	if !id.Valid {
		return user.User{}, apperrors.NewMappingError(idx, "id", errNullID)
	}

	return user.User{
		ID:       id.Int64,
		UserName: name.String,
	}, nil
}
