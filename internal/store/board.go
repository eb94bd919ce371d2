package store

import (
	"context"
	"fmt"
	"time"

	"task-board/internal/database"
	"task-board/internal/model"
)

// GetBoard 組出專案的所有欄位及其任務：欄位依 order 遞增，任務依建立時間遞增。
// 任務在欄內的拖曳位置不會被保存，重新載入時回到建立時間順序。
func GetBoard(ctx context.Context, db database.Querier, projectID string) (*model.Board, error) {
	rows, err := db.Query(ctx,
		`SELECT c.id, c.name, c."order", c.project_id, c.created_at,
		        t.id, t.title, t.description, t.column_id, t.created_at
		 FROM columns c
		 LEFT JOIN tasks t ON t.column_id = c.id
		 WHERE c.project_id = $1
		 ORDER BY c."order" ASC, c.id ASC, t.created_at ASC, t.id ASC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetBoard: %w", err)
	}
	defer rows.Close()

	board := &model.Board{Columns: []model.BoardColumn{}}
	for rows.Next() {
		var (
			col         model.Column
			taskID      *string
			title       *string
			description *string
			columnID    *string
			createdAt   *time.Time
		)
		if err := rows.Scan(
			&col.ID, &col.Name, &col.Order, &col.ProjectID, &col.CreatedAt,
			&taskID, &title, &description, &columnID, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("GetBoard: %w", err)
		}

		n := len(board.Columns)
		if n == 0 || board.Columns[n-1].ID != col.ID {
			board.Columns = append(board.Columns, model.BoardColumn{Column: col, Tasks: []model.Task{}})
			n++
		}
		if taskID == nil {
			continue
		}
		board.Columns[n-1].Tasks = append(board.Columns[n-1].Tasks, model.Task{
			ID:          *taskID,
			Title:       deref(title),
			Description: description,
			ColumnID:    deref(columnID),
			CreatedAt:   derefTime(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetBoard: %w", err)
	}
	return board, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
