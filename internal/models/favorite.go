package models

import "time"

// Favorite bookmarks an identity within a context. Independent of
// friendship; shares the same upsert-uniqueness pattern as Friend.
type Favorite struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	UserID     uint        `gorm:"not null;uniqueIndex:idx_favorites_owner_identity_context" json:"userId"`
	IdentityID uint        `gorm:"not null;uniqueIndex:idx_favorites_owner_identity_context" json:"identityId"`
	Context    ContextType `gorm:"type:varchar(20);not null;uniqueIndex:idx_favorites_owner_identity_context" json:"context"`
	CreatedAt  time.Time   `json:"createdAt"`

	Identity Identity `gorm:"foreignKey:IdentityID" json:"identity,omitempty"`
}

// TableName specifies the table name for GORM
func (Favorite) TableName() string {
	return "favorites"
}
