package services

import (
	"context"
	"fmt"
	"log"

	"github.com/socialhub/backend/internal/apperr"
	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/repositories"
)

// EngagementService keeps the denormalized post counters consistent with
// their fact sets. Facts live in PostgreSQL, counters on the MongoDB post
// document; since that pair cannot share a native transaction, the fact
// write commits first and a failed counter update compensates it, so every
// composite mutation either fully lands or has no net effect. Real-time
// notification delivery sits outside that boundary.
type EngagementService struct {
	likes    repositories.LikeRepository
	comments repositories.CommentRepository
	shares   repositories.ShareRepository
	posts    repositories.PostRepository
	users    repositories.UserRepository
	notifier *NotifierService
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	shareRepo repositories.ShareRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifier *NotifierService,
) *EngagementService {
	return &EngagementService{
		likes:    likeRepo,
		comments: commentRepo,
		shares:   shareRepo,
		posts:    postRepo,
		users:    userRepo,
		notifier: notifier,
	}
}

// LikePost inserts the (user, post) like fact and increments the post's
// likes_count as one unit. Liking an already-liked post is a conflict; the
// unique index on the fact makes that hold under concurrency too. A LIKE
// notification goes to the author unless the liker is the author.
func (s *EngagementService) LikePost(ctx context.Context, userID uint, postID string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.likes.CreateLike(&models.Like{PostID: postID, UserID: userID}); err != nil {
		return nil, err
	}
	if err := s.posts.IncrementLikesCount(ctx, postID); err != nil {
		s.compensateLike(postID, userID)
		return nil, fmt.Errorf("increment likes count: %w", err)
	}

	if post.UserID != userID {
		if err := s.notifier.NotifyLike(user, post); err != nil {
			if derr := s.posts.DecrementLikesCount(ctx, postID); derr != nil {
				log.Printf("consistency fault: undo likes_count for post %s: %v", postID, derr)
			}
			s.compensateLike(postID, userID)
			return nil, err
		}
	}

	return s.posts.GetPostByID(ctx, postID)
}

func (s *EngagementService) compensateLike(postID string, userID uint) {
	if err := s.likes.DeleteLike(postID, userID); err != nil {
		log.Printf("consistency fault: undo like (%d, %s): %v", userID, postID, err)
	}
}

// UnlikePost deletes the like fact and decrements likes_count. Unliking a
// post that was never liked is a conflict. The LIKE notification, if any,
// is not retracted.
func (s *EngagementService) UnlikePost(ctx context.Context, userID uint, postID string) (*models.Post, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.likes.DeleteLike(postID, userID); err != nil {
		return nil, err
	}
	if err := s.posts.DecrementLikesCount(ctx, postID); err != nil {
		if cerr := s.likes.CreateLike(&models.Like{PostID: postID, UserID: userID}); cerr != nil {
			log.Printf("consistency fault: restore like (%d, %s): %v", userID, postID, cerr)
		}
		return nil, fmt.Errorf("decrement likes count: %w", err)
	}

	return s.posts.GetPostByID(ctx, postID)
}

// HasLiked reports whether the user has a like fact for the post
func (s *EngagementService) HasLiked(userID uint, postID string) (bool, error) {
	return s.likes.HasUserLikedPost(postID, userID)
}

// AddComment creates a top-level comment or a one-level reply and
// increments the post's comments_count. A reply's parent must be a
// top-level comment on the same post. COMMENT/REPLY notifications go to
// the post or parent-comment author unless that author is the commenter.
func (s *EngagementService) AddComment(ctx context.Context, userID uint, postID, content string, parentCommentID *uint) (*models.Comment, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	var parent *models.Comment
	if parentCommentID != nil {
		parent, err = s.comments.GetCommentByID(*parentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, fmt.Errorf("parent comment belongs to another post: %w", apperr.ErrInvalidOperation)
		}
		if parent.ParentCommentID != nil {
			return nil, fmt.Errorf("replies cannot be nested: %w", apperr.ErrInvalidOperation)
		}
	}

	comment := &models.Comment{
		PostID:          postID,
		UserID:          userID,
		ParentCommentID: parentCommentID,
		Content:         content,
	}
	if err := s.comments.CreateComment(comment); err != nil {
		return nil, err
	}
	if err := s.posts.IncrementCommentsCount(ctx, postID); err != nil {
		s.compensateComment(comment.ID)
		return nil, fmt.Errorf("increment comments count: %w", err)
	}

	notifyErr := error(nil)
	if parent != nil {
		if parent.UserID != userID {
			notifyErr = s.notifier.NotifyReply(user, parent)
		}
	} else if post.UserID != userID {
		notifyErr = s.notifier.NotifyComment(user, post)
	}
	if notifyErr != nil {
		if derr := s.posts.DecrementCommentsCountBy(ctx, postID, 1); derr != nil {
			log.Printf("consistency fault: undo comments_count for post %s: %v", postID, derr)
		}
		s.compensateComment(comment.ID)
		return nil, notifyErr
	}

	return comment, nil
}

func (s *EngagementService) compensateComment(commentID uint) {
	if _, err := s.comments.DeleteCommentCascade(commentID); err != nil {
		log.Printf("consistency fault: undo comment %d: %v", commentID, err)
	}
}

// UpdateComment edits a comment's content. Only the author may do this.
func (s *EngagementService) UpdateComment(userID, commentID uint, content string) (*models.Comment, error) {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, fmt.Errorf("comment %d belongs to another user: %w", commentID, apperr.ErrForbidden)
	}

	comment.Content = content
	if err := s.comments.UpdateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment and, for a top-level comment, all of its
// replies as one unit, decrementing comments_count once per removed row.
// Only the author may delete.
func (s *EngagementService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return fmt.Errorf("comment %d belongs to another user: %w", commentID, apperr.ErrForbidden)
	}

	removed, err := s.comments.DeleteCommentCascade(commentID)
	if err != nil {
		return err
	}
	if err := s.posts.DecrementCommentsCountBy(ctx, comment.PostID, removed); err != nil {
		// Rows are already gone; the counter is now the divergent side.
		log.Printf("consistency fault: comments_count of post %s not decremented by %d: %v", comment.PostID, removed, err)
		return fmt.Errorf("decrement comments count: %w", err)
	}
	return nil
}

// ListComments returns a page of top-level comments for a post, newest
// first, with the derived replies_count attached.
func (s *EngagementService) ListComments(ctx context.Context, postID string, offset, limit int) ([]CommentView, int64, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.comments.GetTopLevelByPostID(postID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	views := make([]CommentView, len(comments))
	for i, c := range comments {
		replies, err := s.comments.CountReplies(c.ID)
		if err != nil {
			return nil, 0, err
		}
		views[i] = CommentView{Comment: c, RepliesCount: replies}
	}
	return views, total, nil
}

// ListReplies returns the replies to a comment, oldest first
func (s *EngagementService) ListReplies(commentID uint) ([]models.Comment, error) {
	if _, err := s.comments.GetCommentByID(commentID); err != nil {
		return nil, err
	}
	return s.comments.GetReplies(commentID)
}

// SharePost records a share fact and increments shares_count. Shares are
// not unique per (user, post) and emit no notification.
func (s *EngagementService) SharePost(ctx context.Context, userID uint, postID string) (*models.Post, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByID(userID); err != nil {
		return nil, err
	}

	share := &models.Share{PostID: postID, UserID: userID}
	if err := s.shares.CreateShare(share); err != nil {
		return nil, err
	}
	if err := s.posts.IncrementSharesCount(ctx, postID); err != nil {
		if derr := s.shares.DeleteShare(share.ID); derr != nil {
			log.Printf("consistency fault: undo share %d: %v", share.ID, derr)
		}
		return nil, fmt.Errorf("increment shares count: %w", err)
	}

	return s.posts.GetPostByID(ctx, postID)
}

// CommentView is a comment with its derived replies_count
type CommentView struct {
	models.Comment
	RepliesCount int64 `json:"replies_count"`
}
