package store

import (
	"context"
	"fmt"

	"task-board/internal/database"
	"task-board/internal/model"
)

func CreateColumn(ctx context.Context, db database.Querier, col *model.Column) (*model.Column, error) {
	col.ID = newID()
	row := db.QueryRow(ctx,
		`INSERT INTO columns (id, name, "order", project_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		col.ID, col.Name, col.Order, col.ProjectID,
	)
	if err := row.Scan(&col.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateColumn: %w", mapError(err))
	}
	return col, nil
}

// ColumnProjectID 回傳欄位所屬的 project id
func ColumnProjectID(ctx context.Context, db database.Querier, columnID string) (string, error) {
	var projectID string
	row := db.QueryRow(ctx, `SELECT project_id FROM columns WHERE id = $1`, columnID)
	if err := row.Scan(&projectID); err != nil {
		return "", fmt.Errorf("ColumnProjectID: %w", mapError(err))
	}
	return projectID, nil
}
