package model

import "time"

// Admin represents an administrator account. Admins are provisioned out of
// band with the create-admin CLI, never via the public API.
type Admin struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}

// ToggleCareerAccessRequest flips a student's result visibility flag.
type ToggleCareerAccessRequest struct {
	CanView *bool `json:"can_view" binding:"required"`
}
