// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role classifies an account. Roles modify discount eligibility and authorization.
type Role string

// Account roles.
const (
	RoleUser        Role = "user"
	RoleMember      Role = "member"
	RoleAmbassador  Role = "ambassador"
	RoleDistributor Role = "distributor"
	RoleAdmin       Role = "admin"
)

// Tier is a paid membership level, orthogonal to Role. Empty means no tier.
type Tier string

// Membership tiers.
const (
	TierNone   Tier = ""
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// User represents an account in the Queen Touch store.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Name      string         `gorm:"not null" json:"name"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"type:varchar(20);not null;default:user" json:"role"`
	Tier      Tier           `gorm:"type:varchar(20)" json:"tier,omitempty"`
	IsAdmin   bool           `gorm:"not null;default:false" json:"is_admin"`
	Points    int            `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Actor is the request-time identity snapshot used for authorization and
// pricing. It is derived from JWT claims, never persisted, and passed
// explicitly to every operation that needs it.
type Actor struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	Tier    Tier   `json:"tier,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

// CanModerate reports whether the actor may act on other users' content.
func (a *Actor) CanModerate() bool {
	return a != nil && (a.IsAdmin || a.Role == RoleAdmin)
}

// ActorFromUser builds the Actor snapshot for a stored user.
func ActorFromUser(u *User) *Actor {
	return &Actor{
		UserID:  u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Role:    u.Role,
		Tier:    u.Tier,
		IsAdmin: u.IsAdmin,
	}
}
