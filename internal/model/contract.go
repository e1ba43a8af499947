// Package model defines the persistent data models.
package model

import "time"

// Contract is the contract metadata row consulted by access decisions.
// Document content lives elsewhere; the auth service only needs the
// visibility and ownership fields.
type Contract struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	Title        string    `gorm:"size:256;not null" json:"title"`
	DepartmentID string    `gorm:"size:64;index" json:"department_id"`
	OwnerID      string    `gorm:"size:64;index;not null" json:"owner_id"`
	IsPublic     bool      `gorm:"not null;default:false" json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for Contract.
func (Contract) TableName() string {
	return "contracts"
}
