// File: internal/model/column.go
package model

import "time"

type Column struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Order     int       `db:"order" json:"order"`
	ProjectID string    `db:"project_id" json:"projectId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// BoardColumn 是看板讀取模型中的一欄，附帶依建立時間排序的任務
type BoardColumn struct {
	Column
	Tasks []Task `json:"tasks"`
}

type Board struct {
	Columns []BoardColumn `json:"columns"`
}
