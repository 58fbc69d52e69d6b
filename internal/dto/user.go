package dto

import (
	"time"

	"github.com/ardidw/studioflow-api/internal/models"
)

// UserDTO represents an account in API responses
type UserDTO struct {
	ID          uint64          `json:"id"`
	Username    string          `json:"username"`
	Role        models.Division `json:"role"`
	DisplayName string          `json:"display_name"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// UserListResponse represents a paginated list of accounts
type UserListResponse struct {
	Users      []UserDTO `json:"users"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Role:        user.Role,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Phone:       user.Phone,
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of User models
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserDTO(u))
	}
	return out
}
