package store

import (
	"context"
	"fmt"
	"strings"

	"task-board/internal/database"
	"task-board/internal/model"
)

const taskColumns = `id, title, description, column_id, created_at`

func CreateTask(ctx context.Context, db database.Querier, t *model.Task) (*model.Task, error) {
	t.ID = newID()
	row := db.QueryRow(ctx,
		`INSERT INTO tasks (id, title, description, column_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		t.ID, t.Title, t.Description, t.ColumnID,
	)
	if err := row.Scan(&t.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateTask: %w", mapError(err))
	}
	return t, nil
}

func GetTask(ctx context.Context, db database.Querier, id string) (*model.Task, error) {
	t := &model.Task{}
	row := db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.ColumnID, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("GetTask: %w", mapError(err))
	}
	return t, nil
}

// UpdateTask 只更新 patch 中出現的欄位，沒有欄位時回傳目前的任務
func UpdateTask(ctx context.Context, db database.Querier, id string, patch model.TaskPatch) (*model.Task, error) {
	if patch.Empty() {
		return GetTask(ctx, db, id)
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.ColumnID != nil {
		add("column_id", *patch.ColumnID)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	switch {
	case patch.ClearDescription:
		add("description", nil)
	case patch.Description != nil:
		add("description", *patch.Description)
	}
	args = append(args, id)

	sql := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d RETURNING `+taskColumns,
		strings.Join(sets, ", "), len(args))

	t := &model.Task{}
	row := db.QueryRow(ctx, sql, args...)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.ColumnID, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("UpdateTask: %w", mapError(err))
	}
	return t, nil
}

// TaskProjectID 經由任務所在欄位找出 project id
func TaskProjectID(ctx context.Context, db database.Querier, taskID string) (string, error) {
	var projectID string
	row := db.QueryRow(ctx,
		`SELECT c.project_id FROM tasks t JOIN columns c ON c.id = t.column_id WHERE t.id = $1`,
		taskID,
	)
	if err := row.Scan(&projectID); err != nil {
		return "", fmt.Errorf("TaskProjectID: %w", mapError(err))
	}
	return projectID, nil
}
