// File: internal/dto/register_request.go
package dto

import "strings"

// swagger:model dto.RegisterRequest
type RegisterRequest struct {
	Email    string `json:"email" validate:"required" example:"demo@example.com"`
	Password string `json:"password" validate:"required" example:"demo1234"`
	Name     string `json:"name" validate:"required" example:"Demo"`
}

// Normalize 去除 email 前後空白並轉小寫
func (r *RegisterRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
