package services

import (
	"fmt"
	"log"

	"github.com/socialhub/backend/internal/apperr"
	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/repositories"
)

// GraphService owns the directed follow-edge set. The forward index
// (following) and inverse index (followers) are views over a single edge
// row, so they can never disagree.
type GraphService struct {
	follows  repositories.FollowRepository
	users    repositories.UserRepository
	notifier *NotifierService
}

// NewGraphService creates a new GraphService
func NewGraphService(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifier *NotifierService) *GraphService {
	return &GraphService{follows: followRepo, users: userRepo, notifier: notifier}
}

// Follow inserts the edge follower -> following and dispatches a FOLLOW
// notification. Self-follows are invalid; an existing edge is a conflict.
func (s *GraphService) Follow(followerID, followingID uint) error {
	if followerID == followingID {
		return fmt.Errorf("cannot follow yourself: %w", apperr.ErrInvalidOperation)
	}

	actor, err := s.users.GetUserByID(followerID)
	if err != nil {
		return err
	}
	if _, err := s.users.GetUserByID(followingID); err != nil {
		return err
	}

	edge := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := s.follows.CreateFollow(edge); err != nil {
		return err
	}

	if err := s.notifier.NotifyFollow(actor, followingID); err != nil {
		// Notification creation is part of the unit: undo the edge.
		if derr := s.follows.DeleteFollow(followerID, followingID); derr != nil {
			log.Printf("consistency fault: could not undo follow %d->%d: %v", followerID, followingID, derr)
		}
		return err
	}
	return nil
}

// Unfollow removes the edge. Self-unfollows are invalid; a missing edge is
// a conflict. No notification is emitted.
func (s *GraphService) Unfollow(followerID, followingID uint) error {
	if followerID == followingID {
		return fmt.Errorf("cannot unfollow yourself: %w", apperr.ErrInvalidOperation)
	}
	return s.follows.DeleteFollow(followerID, followingID)
}

// IsFollowing reports whether the edge follower -> following exists
func (s *GraphService) IsFollowing(followerID, followingID uint) (bool, error) {
	return s.follows.IsFollowing(followerID, followingID)
}

// Followers returns the users following u
func (s *GraphService) Followers(userID uint) ([]models.User, error) {
	if _, err := s.users.GetUserByID(userID); err != nil {
		return nil, err
	}
	return s.follows.GetFollowers(userID)
}

// Following returns the users u follows
func (s *GraphService) Following(userID uint) ([]models.User, error) {
	if _, err := s.users.GetUserByID(userID); err != nil {
		return nil, err
	}
	return s.follows.GetFollowing(userID)
}

// Counts returns (followers, following) edge counts for a user
func (s *GraphService) Counts(userID uint) (int64, int64, error) {
	followers, err := s.follows.GetFollowersCount(userID)
	if err != nil {
		return 0, 0, err
	}
	following, err := s.follows.GetFollowingCount(userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
