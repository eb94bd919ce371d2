package store

import (
	"context"
	"fmt"

	"task-board/internal/database"
	"task-board/internal/model"

	"github.com/jackc/pgx/v5"
)

// CreateProject 在同一個 transaction 內建立 project 與 MANAGER 成員
func CreateProject(ctx context.Context, db database.DB, p *model.Project, creatorID string) (*model.Project, error) {
	p.ID = newID()
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO projects (id, name, key, workspace_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING created_at`,
			p.ID, p.Name, p.Key, p.WorkspaceID,
		)
		if err := row.Scan(&p.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO project_members (id, user_id, project_id, role)
			 VALUES ($1, $2, $3, $4)`,
			newID(), creatorID, p.ID, model.RoleManager,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("CreateProject: %w", mapError(err))
	}
	return p, nil
}

// CanReadProject 使用者是專案成員或其 workspace 成員時回傳 true
func CanReadProject(ctx context.Context, db database.Querier, projectID, userID string) (bool, error) {
	var ok bool
	row := db.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2
		 ) OR EXISTS (
		     SELECT 1 FROM projects p
		     JOIN memberships m ON m.workspace_id = p.workspace_id
		     WHERE p.id = $1 AND m.user_id = $2
		 )`,
		projectID, userID,
	)
	if err := row.Scan(&ok); err != nil {
		return false, fmt.Errorf("CanReadProject: %w", err)
	}
	return ok, nil
}
