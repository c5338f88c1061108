package services

import (
	"context"
	"testing"
	"time"

	"github.com/socialhub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedEnv() (*FeedService, *fakeFollowRepo, *fakeLikeRepo, *fakePostRepo) {
	users := newFakeUserRepo(
		&models.User{ID: 1, Username: "alice"},
		&models.User{ID: 2, Username: "bob"},
		&models.User{ID: 3, Username: "carol"},
	)
	follows := newFakeFollowRepo(users)
	likes := newFakeLikeRepo()
	posts := newFakePostRepo()
	return NewFeedService(posts, follows, likes), follows, likes, posts
}

func TestFeedContainsOnlyFolloweePosts(t *testing.T) {
	feed, follows, _, posts := newFeedEnv()
	now := time.Now()

	posts.addPost(2, "bob 1", now.Add(-3*time.Hour))
	posts.addPost(3, "carol 1", now.Add(-2*time.Hour))
	posts.addPost(1, "alice own", now.Add(-1*time.Hour))

	require.NoError(t, follows.CreateFollow(&models.Follow{FollowerID: 1, FollowingID: 2}))

	page, err := feed.GetFeed(context.Background(), 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "bob 1", page.Posts[0].Content)
	assert.EqualValues(t, 1, page.TotalItems)
}

func TestFeedNewestFirstAcrossAuthors(t *testing.T) {
	feed, follows, _, posts := newFeedEnv()
	now := time.Now()

	posts.addPost(2, "oldest", now.Add(-3*time.Hour))
	posts.addPost(3, "middle", now.Add(-2*time.Hour))
	posts.addPost(2, "newest", now.Add(-1*time.Hour))

	require.NoError(t, follows.CreateFollow(&models.Follow{FollowerID: 1, FollowingID: 2}))
	require.NoError(t, follows.CreateFollow(&models.Follow{FollowerID: 1, FollowingID: 3}))

	page, err := feed.GetFeed(context.Background(), 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Posts, 3)
	assert.Equal(t, "newest", page.Posts[0].Content)
	assert.Equal(t, "middle", page.Posts[1].Content)
	assert.Equal(t, "oldest", page.Posts[2].Content)
}

func TestFeedEmptyFollowingYieldsEmptyPage(t *testing.T) {
	feed, _, _, posts := newFeedEnv()
	posts.addPost(2, "unseen", time.Now())

	page, err := feed.GetFeed(context.Background(), 1, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.EqualValues(t, 0, page.TotalItems)
}

func TestFeedPaginationZeroBased(t *testing.T) {
	feed, follows, _, posts := newFeedEnv()
	now := time.Now()
	for i := 0; i < 5; i++ {
		posts.addPost(2, "post", now.Add(-time.Duration(i)*time.Minute))
	}
	require.NoError(t, follows.CreateFollow(&models.Follow{FollowerID: 1, FollowingID: 2}))

	first, err := feed.GetFeed(context.Background(), 1, 0, 2)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 2)
	assert.EqualValues(t, 5, first.TotalItems)
	assert.Equal(t, 0, first.Page)

	last, err := feed.GetFeed(context.Background(), 1, 2, 2)
	require.NoError(t, err)
	assert.Len(t, last.Posts, 1)

	past, err := feed.GetFeed(context.Background(), 1, 3, 2)
	require.NoError(t, err)
	assert.Empty(t, past.Posts)
}

func TestFeedAnnotatesLikedPosts(t *testing.T) {
	feed, follows, likes, posts := newFeedEnv()
	now := time.Now()

	liked := posts.addPost(2, "liked", now.Add(-2*time.Hour))
	posts.addPost(2, "not liked", now.Add(-1*time.Hour))

	require.NoError(t, follows.CreateFollow(&models.Follow{FollowerID: 1, FollowingID: 2}))
	require.NoError(t, likes.CreateLike(&models.Like{PostID: liked.ID.Hex(), UserID: 1}))

	page, err := feed.GetFeed(context.Background(), 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.False(t, page.Posts[0].IsLiked)
	assert.True(t, page.Posts[1].IsLiked)
}
