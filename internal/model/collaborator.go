package model

import "time"

// Collaborator is one collaboration grant: a user's role on a single
// contract. A user has at most one active grant per contract.
type Collaborator struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ResourceID string    `gorm:"size:64;not null;uniqueIndex:idx_resource_user" json:"resource_id"`
	UserID     string    `gorm:"size:64;not null;uniqueIndex:idx_resource_user" json:"user_id"`
	Role       string    `gorm:"size:32;not null" json:"role"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for Collaborator.
func (Collaborator) TableName() string {
	return "collaborators"
}
