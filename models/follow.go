package models

import "time"

// Follow is a subscription edge from UserID (follower) to AuthorID.
// Both sides are nulled, not deleted, when the referenced user goes away.
type Follow struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// idx_follow_pair = (user_id, author_id), no duplicate subscriptions
	UserID    *uint     `gorm:"index:idx_follow_pair,unique;check:chk_follows_not_self,user_id <> author_id" json:"user_id"`
	AuthorID  *uint     `gorm:"index:idx_follow_pair,unique;index:idx_follow_author" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "follows" }
