package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles carried by profiles and by the bearer tokens that reference them.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// Profile is the cashier/admin identity a sale is attributed to.
// Credentials live with the identity provider, not here.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"uniqueIndex;not null"`
	FullName  *string
	Role      string `gorm:"type:varchar(20);not null;default:'cashier'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
