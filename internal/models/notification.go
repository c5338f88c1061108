package models

import "time"

// Notification types. MENTION is part of the vocabulary but currently has
// no producer.
const (
	NotificationTypeLike    = "LIKE"
	NotificationTypeComment = "COMMENT"
	NotificationTypeReply   = "REPLY"
	NotificationTypeFollow  = "FOLLOW"
	NotificationTypeMention = "MENTION"
)

// Notification represents a durable user notification (PostgreSQL). It is
// owned exclusively by its recipient: only the recipient may read, mark or
// delete it. IsRead only ever transitions false -> true.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:20;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"` // user whose action triggered the notification
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	PostID      string    `json:"post_id,omitempty"` // triggering post, if any (MongoDB ObjectID as string)
	CommentID   *uint     `json:"comment_id,omitempty"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
