// File: internal/dto/user_response.go
package dto

import (
	"time"

	"task-board/internal/model"
)

// swagger:model dto.UserResponse
type UserResponse struct {
	ID        string    `json:"id" example:"5b1f0c1e-8c5e-4b8a-9a51-0c2f3e7d9a10"`
	Email     string    `json:"email" example:"demo@example.com"`
	Name      string    `json:"name" example:"Demo"`
	CreatedAt time.Time `json:"createdAt" example:"2025-05-01T15:04:05Z"`
}

// NewUserResponse 轉換 model.User，不含密碼雜湊
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}
