// File: internal/dto/create_workspace_request.go
package dto

// swagger:model dto.CreateWorkspaceRequest
type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required" example:"Demo Space"`
	Slug string `json:"slug" validate:"required" example:"demo-space"`
}
