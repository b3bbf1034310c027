package models

import "time"

// Friend is a directed "follows" edge: the owning user follows the target
// identity within one context. Mutual friendship is two symmetric edges.
// The composite unique index keeps at most one edge per
// (owner, target identity, context) triple.
type Friend struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	UserID           uint        `gorm:"not null;uniqueIndex:idx_friends_owner_target_context" json:"userId"`
	FriendIdentityID uint        `gorm:"not null;uniqueIndex:idx_friends_owner_target_context" json:"friendIdentityId"`
	Context          ContextType `gorm:"type:varchar(20);not null;uniqueIndex:idx_friends_owner_target_context" json:"context"`
	CreatedAt        time.Time   `json:"createdAt"`

	FriendIdentity Identity `gorm:"foreignKey:FriendIdentityID" json:"friendIdentity,omitempty"`
}

// TableName specifies the table name for GORM
func (Friend) TableName() string {
	return "friends"
}

// FriendRequestStatus represents the lifecycle state of a friend request.
type FriendRequestStatus string

const (
	// FriendRequestStatusPending indicates an open request awaiting the recipient.
	FriendRequestStatusPending FriendRequestStatus = "pending"
	// FriendRequestStatusAccepted indicates the request materialized mutual edges.
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
	// FriendRequestStatusDeclined exists in the enum for completeness; declining
	// deletes the record instead of retaining it.
	FriendRequestStatusDeclined FriendRequestStatus = "declined"
)

// FriendRequest is a directed proposal to establish a mutual friendship
// between two identities within one context. Re-sending upserts onto the
// same (sender identity, recipient identity, context) key rather than
// duplicating.
type FriendRequest struct {
	ID                  uint                `gorm:"primaryKey" json:"id"`
	SenderUserID        uint                `gorm:"not null" json:"senderUserId"`
	SenderIdentityID    uint                `gorm:"not null;uniqueIndex:idx_friend_requests_pair_context" json:"senderIdentityId"`
	RecipientUserID     uint                `gorm:"not null;index" json:"recipientUserId"`
	RecipientIdentityID uint                `gorm:"not null;uniqueIndex:idx_friend_requests_pair_context" json:"recipientIdentityId"`
	Context             ContextType         `gorm:"type:varchar(20);not null;uniqueIndex:idx_friend_requests_pair_context" json:"context"`
	Status              FriendRequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt           time.Time           `json:"createdAt"`

	SenderIdentity    Identity `gorm:"foreignKey:SenderIdentityID" json:"senderIdentity,omitempty"`
	RecipientIdentity Identity `gorm:"foreignKey:RecipientIdentityID" json:"recipientIdentity,omitempty"`
}

// TableName specifies the table name for GORM
func (FriendRequest) TableName() string {
	return "friend_requests"
}
