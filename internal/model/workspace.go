// File: internal/model/workspace.go
package model

import "time"

// Role 只被記錄，不做權限判斷
type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleManager Role = "MANAGER"
)

type Workspace struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Membership struct {
	ID          string `db:"id" json:"id"`
	UserID      string `db:"user_id" json:"userId"`
	WorkspaceID string `db:"workspace_id" json:"workspaceId"`
	Role        Role   `db:"role" json:"role"`
}
