package models

import "time"

// Follow is a directed edge: the follower receives the followed user's posts
// in their feed. The composite unique index keeps edge existence boolean;
// forward and inverse lookups are both served from this one row.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
