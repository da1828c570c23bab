package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/civictrack/civictrack-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits the password hash.
type UserDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	IsAdmin       bool             `json:"is_admin"`
	Phone         *string          `json:"phone,omitempty"`
	Address       *string          `json:"address,omitempty"`
	Bio           *string          `json:"bio,omitempty"`
	Notifications NotificationsDTO `json:"notifications"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NotificationsDTO mirrors the per-channel notification opt-ins.
type NotificationsDTO struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	Phone        *string
}

// UpdateProfileRequest carries the editable profile fields. Nil pointers leave
// the stored value untouched.
type UpdateProfileRequest struct {
	Name          *string           `json:"name,omitempty" validate:"omitempty,min=1"`
	Email         *string           `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string           `json:"phone,omitempty"`
	Address       *string           `json:"address,omitempty"`
	Bio           *string           `json:"bio,omitempty"`
	Notifications *NotificationsDTO `json:"notifications,omitempty"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
		Phone:   u.Phone,
		Address: u.Address,
		Bio:     u.Bio,
		Notifications: NotificationsDTO{
			Email: u.Notifications.Email,
			SMS:   u.Notifications.SMS,
			Push:  u.Notifications.Push,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		IsAdmin:      c.IsAdmin,
		Phone:        c.Phone,
		Notifications: models.NotificationPrefs{
			Email: true,
			SMS:   false,
			Push:  true,
		},
	}
}
