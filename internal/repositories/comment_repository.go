package repositories

import (
	"errors"
	"fmt"

	"github.com/socialhub/backend/internal/apperr"
	"github.com/socialhub/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetTopLevelByPostID(postID string, offset, limit int) ([]models.Comment, int64, error)
	GetReplies(parentCommentID uint) ([]models.Comment, error)
	CountReplies(parentCommentID uint) (int64, error)
	UpdateComment(comment *models.Comment) error
	DeleteCommentCascade(id uint) (int64, error)
	DeleteByPostID(postID string) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &comment, nil
}

// GetTopLevelByPostID retrieves a page of top-level comments for a post,
// newest first, along with the total top-level count.
func (r *PostgresCommentRepository) GetTopLevelByPostID(postID string, offset, limit int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	q := r.db.Model(&models.Comment{}).Where("post_id = ? AND parent_comment_id IS NULL", postID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&comments).Error
	return comments, total, err
}

// GetReplies retrieves all replies to a comment, oldest first
func (r *PostgresCommentRepository) GetReplies(parentCommentID uint) ([]models.Comment, error) {
	var replies []models.Comment
	err := r.db.Where("parent_comment_id = ?", parentCommentID).Order("created_at ASC").Find(&replies).Error
	return replies, err
}

// CountReplies returns the derived replies_count for a comment
func (r *PostgresCommentRepository) CountReplies(parentCommentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("parent_comment_id = ?", parentCommentID).Count(&count).Error
	return count, err
}

// UpdateComment updates an existing comment in PostgreSQL
func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// DeleteCommentCascade removes a comment and, if it is top-level, all of its
// replies in one transaction. Returns the number of comment rows removed so
// the caller can decrement the post's counter once per row.
func (r *PostgresCommentRepository) DeleteCommentCascade(id uint) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("parent_comment_id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		res = tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("comment %d: %w", id, apperr.ErrNotFound)
		}
		removed += res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// DeleteByPostID removes all comments for a post (post deletion cleanup)
func (r *PostgresCommentRepository) DeleteByPostID(postID string) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.Comment{}).Error
}
