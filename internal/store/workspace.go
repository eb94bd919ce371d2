package store

import (
	"context"
	"fmt"

	"task-board/internal/database"
	"task-board/internal/model"

	"github.com/jackc/pgx/v5"
)

// CreateWorkspace 在同一個 transaction 內建立 workspace 與 OWNER membership
func CreateWorkspace(ctx context.Context, db database.DB, ws *model.Workspace, ownerID string) (*model.Workspace, error) {
	ws.ID = newID()
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO workspaces (id, name, slug)
			 VALUES ($1, $2, $3)
			 RETURNING created_at`,
			ws.ID, ws.Name, ws.Slug,
		)
		if err := row.Scan(&ws.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO memberships (id, user_id, workspace_id, role)
			 VALUES ($1, $2, $3, $4)`,
			newID(), ownerID, ws.ID, model.RoleOwner,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("CreateWorkspace: %w", mapError(err))
	}
	return ws, nil
}
