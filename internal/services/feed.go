package services

import (
	"context"

	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/repositories"
)

// PostView is a post annotated with whether the viewer has liked it. The
// flag is derived from the like-fact store at read time, never stored on
// the post itself.
type PostView struct {
	models.Post
	IsLiked bool `json:"is_liked"`
}

// PostPage is one page of annotated posts
type PostPage struct {
	Posts      []PostView `json:"posts"`
	Page       int        `json:"page"`
	Size       int        `json:"size"`
	TotalItems int64      `json:"total_items"`
}

// FeedService assembles the paginated, time-ordered view of posts authored
// by a viewer's followees.
type FeedService struct {
	posts   repositories.PostRepository
	follows repositories.FollowRepository
	likes   repositories.LikeRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(postRepo repositories.PostRepository, followRepo repositories.FollowRepository, likeRepo repositories.LikeRepository) *FeedService {
	return &FeedService{posts: postRepo, follows: followRepo, likes: likeRepo}
}

// GetFeed returns page (zero-based) of size posts authored by users the
// viewer follows, newest first. An empty following set yields an empty
// page, not an error.
func (s *FeedService) GetFeed(ctx context.Context, viewerID uint, page, size int) (*PostPage, error) {
	followingIDs, err := s.follows.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, err
	}

	posts, total, err := s.posts.GetPostsByAuthorIDs(ctx, followingIDs, int64(page)*int64(size), int64(size))
	if err != nil {
		return nil, err
	}

	views, err := annotateLiked(s.likes, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: views, Page: page, Size: size, TotalItems: total}, nil
}

// annotateLiked attaches the viewer's is_liked flag in one batch query.
// Anonymous viewers (id 0) get every flag false.
func annotateLiked(likes repositories.LikeRepository, viewerID uint, posts []models.Post) ([]PostView, error) {
	views := make([]PostView, len(posts))

	liked := map[string]bool{}
	if viewerID != 0 {
		postIDs := make([]string, len(posts))
		for i, p := range posts {
			postIDs[i] = p.ID.Hex()
		}
		var err error
		liked, err = likes.GetLikedPostIDs(viewerID, postIDs)
		if err != nil {
			return nil, err
		}
	}

	for i, p := range posts {
		views[i] = PostView{Post: p, IsLiked: liked[p.ID.Hex()]}
	}
	return views, nil
}
