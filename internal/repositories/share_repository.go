package repositories

import (
	"github.com/socialhub/backend/internal/models"
	"gorm.io/gorm"
)

// ShareRepository defines the interface for share-fact data operations.
// Shares are append-only; there is no per-pair uniqueness.
type ShareRepository interface {
	CreateShare(share *models.Share) error
	DeleteShare(id uint) error
	GetSharesCountByPostID(postID string) (int64, error)
	DeleteByPostID(postID string) error
}

// PostgresShareRepository implements ShareRepository for PostgreSQL
type PostgresShareRepository struct {
	db *gorm.DB
}

// NewPostgresShareRepository creates a new PostgresShareRepository
func NewPostgresShareRepository(db *gorm.DB) *PostgresShareRepository {
	return &PostgresShareRepository{db: db}
}

func (r *PostgresShareRepository) CreateShare(share *models.Share) error {
	return r.db.Create(share).Error
}

// DeleteShare removes a single share row (compensation path only)
func (r *PostgresShareRepository) DeleteShare(id uint) error {
	return r.db.Delete(&models.Share{}, id).Error
}

func (r *PostgresShareRepository) GetSharesCountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Share{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// DeleteByPostID removes all share facts for a post (post deletion cleanup)
func (r *PostgresShareRepository) DeleteByPostID(postID string) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.Share{}).Error
}
