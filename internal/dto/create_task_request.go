// File: internal/dto/create_task_request.go
package dto

// swagger:model dto.CreateTaskRequest
type CreateTaskRequest struct {
	ColumnID    string  `json:"columnId" validate:"required" example:"7a1c2d3e-4f50-4617-8a9b-0c1d2e3f4a5b"`
	Title       string  `json:"title" validate:"required" example:"Welcome task"`
	Description *string `json:"description,omitempty" example:"Drag me!"`
}
