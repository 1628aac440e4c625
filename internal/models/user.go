package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
)

// AdminProfile is the operator shown on the profile page.
type AdminProfile struct {
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      UserRole  `json:"role"`
	AvatarURL *string   `json:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

func DefaultAdminProfile() AdminProfile {
	return AdminProfile{
		FullName: "Admin Sekolah",
		Email:    "admin@sekolah.sch.id",
		Phone:    "081234567890",
		Role:     RoleAdmin,
	}
}
