package model

import (
	"slices"
	"time"

	"github.com/lib/pq"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// Права администрирования пользователей
const (
	PermissionUsersRead   = "users:read"
	PermissionUsersCreate = "users:create"
	PermissionUsersUpdate = "users:update"
	PermissionUsersDelete = "users:delete"
)

func AllPermissions() []string {
	return []string{PermissionUsersRead, PermissionUsersCreate, PermissionUsersUpdate, PermissionUsersDelete}
}

type User struct {
	UUID                    string         `db:"uuid" json:"id"`
	Name                    string         `db:"name" json:"name"`
	Email                   string         `db:"email" json:"email"`
	PasswordHash            string         `db:"password_hash" json:"-"`
	Role                    Role           `db:"role" json:"role"`
	Permissions             pq.StringArray `db:"permissions" json:"permissions"`
	IsVerified              bool           `db:"is_verified" json:"isVerified"`
	VerificationToken       *string        `db:"verification_token" json:"-"`
	VerificationTokenExpiry *time.Time     `db:"verification_token_expiry" json:"-"`
	ResetPasswordToken      *string        `db:"reset_password_token" json:"-"`
	ResetPasswordExpiry     *time.Time     `db:"reset_password_expiry" json:"-"`
	CreatedAt               time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt               time.Time      `db:"updated_at" json:"updatedAt"`
}

func (u *User) IsSuperadmin() bool {
	return u.Role == RoleSuperadmin
}

// HasPermission : суперадмину разрешено все
func (u *User) HasPermission(permission string) bool {
	if u.IsSuperadmin() {
		return true
	}
	return slices.Contains(u.Permissions, permission)
}

// NewUser : данные для создания учетной записи (signup или администратор)
type NewUser struct {
	Name        string
	Email       string
	Password    string
	Role        Role
	Permissions []string
}
