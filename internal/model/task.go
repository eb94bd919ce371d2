// File: internal/model/task.go
package model

import "time"

type Task struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	ColumnID    string    `db:"column_id" json:"columnId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// TaskPatch 只套用非 nil 的欄位；ClearDescription 將 description 設為 NULL
type TaskPatch struct {
	ColumnID         *string
	Title            *string
	Description      *string
	ClearDescription bool
}

// Empty 回報 patch 是否沒有任何欄位
func (p TaskPatch) Empty() bool {
	return p.ColumnID == nil && p.Title == nil && p.Description == nil && !p.ClearDescription
}
