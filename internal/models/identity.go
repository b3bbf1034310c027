package models

import "time"

// Visibility controls whether an identity is discoverable by everyone or
// only reachable through the request flow.
type Visibility string

const (
	// VisibilityPrivate hides the identity from public listings.
	VisibilityPrivate Visibility = "private"
	// VisibilityPublic lists the identity in public context searches.
	VisibilityPublic Visibility = "public"
)

// Valid reports whether v is a known visibility value.
func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// Identity is a context-scoped profile owned by a user. The composite unique
// index enforces at most one identity per (user, context); preferred-name
// uniqueness across users is enforced at the service layer because a user may
// reuse their own preferred name across contexts.
type Identity struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uint        `gorm:"not null;uniqueIndex:idx_identities_user_context" json:"userId"`
	LegalName     string      `gorm:"size:100;not null" json:"legalName"`
	PreferredName string      `gorm:"size:100;not null;index" json:"preferredName"`
	Nickname      string      `gorm:"size:100" json:"nickname"`
	Context       ContextType `gorm:"type:varchar(20);not null;uniqueIndex:idx_identities_user_context" json:"context"`
	Visibility    Visibility  `gorm:"type:varchar(10);not null;default:'private'" json:"visibility"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Identity) TableName() string {
	return "identities"
}
