package services

import (
	"context"
	"time"

	"github.com/socialhub/backend/internal/repositories"
)

// trendingWindow is the fixed lookback for the popularity ranking.
const trendingWindow = 24 * time.Hour

// TrendingService ranks recent posts by popularity. The ranking is a
// point-in-time computation over the current counter state, recomputed on
// every call; nothing is materialized or cached.
type TrendingService struct {
	posts repositories.PostRepository
	likes repositories.LikeRepository
}

// NewTrendingService creates a new TrendingService
func NewTrendingService(postRepo repositories.PostRepository, likeRepo repositories.LikeRepository) *TrendingService {
	return &TrendingService{posts: postRepo, likes: likeRepo}
}

// GetTrending returns at most limit posts created within the last 24 hours,
// ordered by likes_count descending, ties broken by created_at descending.
// viewerID 0 (anonymous) skips the is_liked annotation.
func (s *TrendingService) GetTrending(ctx context.Context, viewerID uint, limit int) ([]PostView, error) {
	since := time.Now().Add(-trendingWindow)
	posts, err := s.posts.GetTrendingPosts(ctx, since, int64(limit))
	if err != nil {
		return nil, err
	}
	return annotateLiked(s.likes, viewerID, posts)
}
