package models

import "time"

// Share is the fact row behind a post's shares_count. Unlike likes, shares
// carry no unique constraint: the same user sharing the same post twice is
// two rows and two increments.
type Share struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index"` // MongoDB ObjectID as string
	UserID    uint      `json:"user_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}
