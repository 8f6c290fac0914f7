package postgres

import (
	"context"

	"puser-service/internal/domain/user"
	apperrors "puser-service/pkg/errors"
)

// listUsersSQL has no ORDER BY: row order is whatever the store returns.
const listUsersSQL = "SELECT id, user_name FROM p_user"

// UserRepoPG implements the Repository interface on top of a relational store.
type UserRepoPG struct {
	q Querier // storage collaborator
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(q Querier) *UserRepoPG {
	return &UserRepoPG{q: q}
}

// UserSchema represents the database schema for the p_user table.
// It is only used for schema bootstrap and test seeding; reads go through listUsersSQL.
type UserSchema struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	UserName string `gorm:"column:user_name;not null;default:''"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "p_user"
}

// List runs the fixed listing statement and maps every row. Either all rows
// map or the call fails; the connection is released on every path.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.q.QueryContext(ctx, listUsersSQL)
	if err != nil {
		return nil, apperrors.NewStorageError("list users", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, apperrors.NewStorageError("list users: read columns", err)
	}
	if err := ValidateColumns(cols); err != nil {
		return nil, err
	}

	users := make([]user.User, 0)
	for idx := 0; rows.Next(); idx++ {
		u, err := MapUserRow(rows, idx)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("list users: iterate rows", err)
	}

	return users, nil
}
