package models

import "time"

// Like is the fact row behind a post's likes_count. The composite unique
// index is the correctness backstop for two concurrent likes on the same
// (user, post) pair: the loser hits the constraint, not a double increment.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like"` // MongoDB ObjectID as string
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"created_at"`
}
