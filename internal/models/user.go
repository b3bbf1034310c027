package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account holder. A user owns up to one Identity per
// context; everything social (friends, requests, favorites) hangs off those
// identities rather than the account itself.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FirstName string         `gorm:"size:50" json:"firstName"`
	LastName  string         `gorm:"size:50" json:"lastName"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	LastLogin *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Identities []Identity `gorm:"foreignKey:UserID" json:"identities,omitempty"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
