package store

import (
	"context"
	"fmt"

	"task-board/internal/database"
	"task-board/internal/model"
)

func GetUserByID(ctx context.Context, db database.Querier, userID string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT id, email, password_hash, name, created_at
		 FROM users WHERE id = $1`,
		userID,
	)
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", mapError(err))
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.Querier, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT id, email, password_hash, name, created_at
		 FROM users WHERE email = $1`,
		email,
	)
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", mapError(err))
	}
	return u, nil
}

// CreateUser 寫入新使用者；email 重複時回傳 ErrConflict
func CreateUser(ctx context.Context, db database.Querier, u *model.User) (*model.User, error) {
	u.ID = newID()
	row := db.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Name,
	)
	if err := row.Scan(&u.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", mapError(err))
	}
	return u, nil
}
