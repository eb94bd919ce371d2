// File: internal/dto/create_project_request.go
package dto

// swagger:model dto.CreateProjectRequest
type CreateProjectRequest struct {
	WorkspaceID string `json:"workspaceId" validate:"required" example:"0b6f8f0e-1d7a-4c59-9f3e-2d1f7a0c5b11"`
	Name        string `json:"name" validate:"required" example:"Demo Project"`
	Key         string `json:"key" validate:"required" example:"DEMO"`
}
