package auth

import (
	"time"

	"github.com/vkotelnikov/autopark/internal/models"
	"github.com/vkotelnikov/autopark/internal/permissions"
)

// Origin carries caller-supplied request metadata recorded in the audit log.
type Origin struct {
	IPAddress string
	UserAgent string
}

// AccountView is returned on successful authentication. The caller enables
// or disables every feature based solely on these fields; it never holds a
// reference to the stored row.
type AccountView struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	Role        models.Role     `json:"role"`
	FullName    string          `json:"full_name"`
	IsAdmin     bool            `json:"is_admin"`
	Permissions permissions.Set `json:"permissions"`
}

// AccountSummary describes an account for management listings. It carries
// no credential material.
type AccountSummary struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	FullName  string      `json:"full_name"`
	Email     string      `json:"email"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	LastLogin *time.Time  `json:"last_login,omitempty"`
}

// CreateAccountParams are the inputs to CreateAccount. FullName and Email
// are optional.
type CreateAccountParams struct {
	Username string
	Password string
	Role     models.Role
	FullName string
	Email    string
}

// AccountUpdate is the explicit partial-update structure for UpdateAccount.
// Only non-nil fields are applied; username and password can never be
// changed through this path.
type AccountUpdate struct {
	FullName *string
	Email    *string
	Role     *models.Role
	IsActive *bool
}

func newAccountSummary(acc *models.Account) AccountSummary {
	return AccountSummary{
		ID:        acc.ID,
		Username:  acc.Username,
		Role:      acc.Role,
		FullName:  acc.FullName,
		Email:     acc.Email,
		IsActive:  acc.IsActive,
		CreatedAt: acc.CreatedAt,
		LastLogin: acc.LastLogin,
	}
}
