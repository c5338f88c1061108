package models

import "gorm.io/gorm"

// Comment represents a comment on a post. A reply carries the ID of its
// parent comment; nesting is limited to one level, so a parent must itself
// be a top-level comment on the same post.
type Comment struct {
	gorm.Model
	PostID          string `json:"post_id" gorm:"index"` // ID of the post the comment belongs to (MongoDB ObjectID as string)
	UserID          uint   `json:"user_id" gorm:"index"` // ID of the user who made the comment
	ParentCommentID *uint  `json:"parent_comment_id,omitempty" gorm:"index"`
	Content         string `json:"content" validate:"required,min=1,max=500"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,min=1,max=500"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
