// File: internal/model/project.go
package model

import "time"

type Project struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Key         string    `db:"key" json:"key"`
	WorkspaceID string    `db:"workspace_id" json:"workspaceId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type ProjectMember struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"userId"`
	ProjectID string `db:"project_id" json:"projectId"`
	Role      Role   `db:"role" json:"role"`
}
