// File: internal/dto/auth_response.go
package dto

// AuthResponse 註冊與登入成功時回傳
// swagger:model dto.AuthResponse
type AuthResponse struct {
	Token string       `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	User  UserResponse `json:"user"`
}

// swagger:model dto.MeResponse
type MeResponse struct {
	User *UserResponse `json:"user"`
}
