package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         Role      `json:"role"`
	ParentID     *int      `json:"parent_id,omitempty"` // sub-admin that owns a staff account
	Wallet       float64   `json:"wallet"`
	ApplyCharge  bool      `json:"apply_charge"`
	OrderCharge  float64   `json:"order_charge"` // 0 = use default charge
	IsActive     bool      `json:"is_active"`
	TOTPSecret   string    `json:"-"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// TwoFAPendingResponse is returned from login step 1 when TOTP is enabled
type TwoFAPendingResponse struct {
	Requires2FA bool   `json:"requires_2fa"`
	TempToken   string `json:"temp_token"`
}

// CreateStaffRequest represents the request body for creating a staff account
type CreateStaffRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// CreateSubAdminRequest represents the request body for creating a sub-admin
type CreateSubAdminRequest struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	ApplyCharge bool    `json:"apply_charge"`
	OrderCharge float64 `json:"order_charge" validate:"gte=0"`
}

// Assignable is the trimmed user shape returned by the assignee picker
type Assignable struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
