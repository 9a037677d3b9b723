package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID            uuid.UUID      `json:"id"`
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	CompanyName   *string        `json:"company_name,omitempty"`
	Phone         *string        `json:"phone,omitempty"`
	Role          enums.UserRole `json:"role"`
	PointsTotal   int            `json:"points_total"`
	Saldo         int            `json:"saldo"`
	PointsPending int            `json:"points_pending"`
	CompendaID    *string        `json:"compenda_id,omitempty"`
	IsActive      bool           `json:"is_active"`
	LastLoginAt   *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new installer.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	CompanyName  *string
	Phone        *string
	Role         enums.UserRole
}

// UpdateProfileDTO carries the self-service editable profile fields.
type UpdateProfileDTO struct {
	Name        *string
	CompanyName *string
	Phone       *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		CompanyName:   u.CompanyName,
		Phone:         u.Phone,
		Role:          u.Role,
		PointsTotal:   u.PointsTotal,
		Saldo:         u.Saldo,
		PointsPending: u.PointsPending,
		CompendaID:    u.CompendaID,
		IsActive:      u.IsActive,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleUser
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Name:         c.Name,
		CompanyName:  c.CompanyName,
		Phone:        c.Phone,
		Role:         role,
		IsActive:     true,
	}
}
