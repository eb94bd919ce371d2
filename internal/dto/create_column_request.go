// File: internal/dto/create_column_request.go
package dto

// Order 為指標，0 也是合法值
// swagger:model dto.CreateColumnRequest
type CreateColumnRequest struct {
	ProjectID string `json:"projectId" validate:"required" example:"3e0d8c47-5f7a-4b8e-8f0c-6a7b1d2e3f40"`
	Name      string `json:"name" validate:"required" example:"To Do"`
	Order     *int   `json:"order" validate:"required" example:"1"`
}
