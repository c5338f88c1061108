package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/socialhub/backend/internal/apperr"
	"github.com/socialhub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the semantics the SQL and Mongo
// implementations get from their schemas: unique indexes surface as
// ErrConflict, missing rows as ErrNotFound or ErrConflict, and listings
// come back in the same order the real queries sort by.

// --- users ---

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uint]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("user already exists: %w", apperr.ErrConflict)
		}
	}
	if user.ID == 0 {
		user.ID = uint(len(r.users) + 1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, apperr.ErrNotFound)
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, apperr.ErrNotFound)
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, u := range r.users {
		if u.FirebaseUID == firebaseUID {
			return u, nil
		}
	}
	return nil, fmt.Errorf("firebase user %s: %w", firebaseUID, apperr.ErrNotFound)
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) DeleteUser(id uint) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) SearchUsers(query string) ([]models.User, error) {
	return nil, nil
}

// --- follows ---

type followEdge struct{ follower, following uint }

type fakeFollowRepo struct {
	edges map[followEdge]bool
	users *fakeUserRepo
}

func newFakeFollowRepo(users *fakeUserRepo) *fakeFollowRepo {
	return &fakeFollowRepo{edges: map[followEdge]bool{}, users: users}
}

func (r *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	e := followEdge{follow.FollowerID, follow.FollowingID}
	if r.edges[e] {
		return fmt.Errorf("already following: %w", apperr.ErrConflict)
	}
	r.edges[e] = true
	return nil
}

func (r *fakeFollowRepo) DeleteFollow(followerID, followingID uint) error {
	e := followEdge{followerID, followingID}
	if !r.edges[e] {
		return fmt.Errorf("not following: %w", apperr.ErrConflict)
	}
	delete(r.edges, e)
	return nil
}

func (r *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	return r.edges[followEdge{followerID, followingID}], nil
}

func (r *fakeFollowRepo) GetFollowers(userID uint) ([]models.User, error) {
	var out []models.User
	for e := range r.edges {
		if e.following == userID {
			if u, ok := r.users.users[e.follower]; ok {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (r *fakeFollowRepo) GetFollowing(userID uint) ([]models.User, error) {
	var out []models.User
	for e := range r.edges {
		if e.follower == userID {
			if u, ok := r.users.users[e.following]; ok {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (r *fakeFollowRepo) GetFollowersCount(userID uint) (int64, error) {
	var n int64
	for e := range r.edges {
		if e.following == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeFollowRepo) GetFollowingCount(userID uint) (int64, error) {
	var n int64
	for e := range r.edges {
		if e.follower == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeFollowRepo) GetFollowingIDs(userID uint) ([]uint, error) {
	var out []uint
	for e := range r.edges {
		if e.follower == userID {
			out = append(out, e.following)
		}
	}
	return out, nil
}

// --- likes ---

type likeKey struct {
	postID string
	userID uint
}

type fakeLikeRepo struct {
	likes map[likeKey]bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: map[likeKey]bool{}}
}

func (r *fakeLikeRepo) CreateLike(like *models.Like) error {
	k := likeKey{like.PostID, like.UserID}
	if r.likes[k] {
		return fmt.Errorf("post already liked: %w", apperr.ErrConflict)
	}
	r.likes[k] = true
	return nil
}

func (r *fakeLikeRepo) DeleteLike(postID string, userID uint) error {
	k := likeKey{postID, userID}
	if !r.likes[k] {
		return fmt.Errorf("post not liked: %w", apperr.ErrConflict)
	}
	delete(r.likes, k)
	return nil
}

func (r *fakeLikeRepo) HasUserLikedPost(postID string, userID uint) (bool, error) {
	return r.likes[likeKey{postID, userID}], nil
}

func (r *fakeLikeRepo) GetLikedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, id := range postIDs {
		if r.likes[likeKey{id, userID}] {
			out[id] = true
		}
	}
	return out, nil
}

func (r *fakeLikeRepo) GetLikesCountByPostID(postID string) (int64, error) {
	var n int64
	for k := range r.likes {
		if k.postID == postID {
			n++
		}
	}
	return n, nil
}

func (r *fakeLikeRepo) DeleteByPostID(postID string) error {
	for k := range r.likes {
		if k.postID == postID {
			delete(r.likes, k)
		}
	}
	return nil
}

// --- shares ---

type fakeShareRepo struct {
	shares map[uint]*models.Share
	nextID uint
}

func newFakeShareRepo() *fakeShareRepo {
	return &fakeShareRepo{shares: map[uint]*models.Share{}}
}

func (r *fakeShareRepo) CreateShare(share *models.Share) error {
	r.nextID++
	share.ID = r.nextID
	r.shares[share.ID] = share
	return nil
}

func (r *fakeShareRepo) DeleteShare(id uint) error {
	delete(r.shares, id)
	return nil
}

func (r *fakeShareRepo) GetSharesCountByPostID(postID string) (int64, error) {
	var n int64
	for _, s := range r.shares {
		if s.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (r *fakeShareRepo) DeleteByPostID(postID string) error {
	for id, s := range r.shares {
		if s.PostID == postID {
			delete(r.shares, id)
		}
	}
	return nil
}

// --- comments ---

type fakeCommentRepo struct {
	comments map[uint]*models.Comment
	nextID   uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[uint]*models.Comment{}}
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %d: %w", id, apperr.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) GetTopLevelByPostID(postID string, offset, limit int) ([]models.Comment, int64, error) {
	var all []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID && c.ParentCommentID == nil {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeCommentRepo) GetReplies(parentCommentID uint) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.ParentCommentID != nil && *c.ParentCommentID == parentCommentID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCommentRepo) CountReplies(parentCommentID uint) (int64, error) {
	var n int64
	for _, c := range r.comments {
		if c.ParentCommentID != nil && *c.ParentCommentID == parentCommentID {
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) UpdateComment(comment *models.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return fmt.Errorf("comment %d: %w", comment.ID, apperr.ErrNotFound)
	}
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) DeleteCommentCascade(id uint) (int64, error) {
	if _, ok := r.comments[id]; !ok {
		return 0, fmt.Errorf("comment %d: %w", id, apperr.ErrNotFound)
	}
	removed := int64(1)
	delete(r.comments, id)
	for cid, c := range r.comments {
		if c.ParentCommentID != nil && *c.ParentCommentID == id {
			delete(r.comments, cid)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeCommentRepo) DeleteByPostID(postID string) error {
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
		}
	}
	return nil
}

// --- notifications ---

type fakeNotificationRepo struct {
	notifications map[uint]*models.Notification
	nextID        uint
	failCreate    bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[uint]*models.Notification{}}
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	if r.failCreate {
		return errors.New("notification store unavailable")
	}
	r.nextID++
	n.ID = r.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	cp := *n
	r.notifications[n.ID] = &cp
	return nil
}

func (r *fakeNotificationRepo) GetByID(id uint) (*models.Notification, error) {
	n, ok := r.notifications[id]
	if !ok {
		return nil, fmt.Errorf("notification %d: %w", id, apperr.ErrNotFound)
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var all []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			all = append(all, *n)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := int64(len(all))
	offset := (page - 1) * limit
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var n int64
	for _, notif := range r.notifications {
		if notif.RecipientID == recipientID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID uint) error {
	if n, ok := r.notifications[notificationID]; ok {
		n.IsRead = true
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(notificationID uint) error {
	delete(r.notifications, notificationID)
	return nil
}

func (r *fakeNotificationRepo) DeleteAllByRecipientID(recipientID uint) error {
	for id, n := range r.notifications {
		if n.RecipientID == recipientID {
			delete(r.notifications, id)
		}
	}
	return nil
}

// --- posts ---

type fakePostRepo struct {
	posts map[string]*models.Post

	failIncLikes    bool
	failIncComments bool
	failIncShares   bool
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func (r *fakePostRepo) addPost(userID uint, content string, createdAt time.Time) *models.Post {
	p := &models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Content:   content,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	r.posts[p.ID.Hex()] = p
	return p
}

func (r *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	cp := *post
	r.posts[post.ID.Hex()] = &cp
	return nil
}

func (r *fakePostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, apperr.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) sorted(filter func(*models.Post) bool) []models.Post {
	var out []models.Post
	for _, p := range r.posts {
		if filter(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func page(posts []models.Post, skip, limit int64) []models.Post {
	if skip >= int64(len(posts)) {
		return nil
	}
	posts = posts[skip:]
	if limit < int64(len(posts)) {
		posts = posts[:limit]
	}
	return posts
}

func (r *fakePostRepo) GetPostsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Post, int64, error) {
	all := r.sorted(func(p *models.Post) bool { return p.UserID == userID })
	return page(all, skip, limit), int64(len(all)), nil
}

func (r *fakePostRepo) GetPostsByAuthorIDs(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, int64, error) {
	if len(authorIDs) == 0 {
		return nil, 0, nil
	}
	authors := map[uint]bool{}
	for _, id := range authorIDs {
		authors[id] = true
	}
	all := r.sorted(func(p *models.Post) bool { return authors[p.UserID] })
	return page(all, skip, limit), int64(len(all)), nil
}

func (r *fakePostRepo) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, int64, error) {
	all := r.sorted(func(p *models.Post) bool { return true })
	return page(all, skip, limit), int64(len(all)), nil
}

func (r *fakePostRepo) GetTrendingPosts(ctx context.Context, since time.Time, limit int64) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.posts {
		if !p.CreatedAt.Before(since) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LikesCount != out[j].LikesCount {
			return out[i].LikesCount > out[j].LikesCount
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) SearchPosts(ctx context.Context, query string, skip, limit int64) ([]models.Post, int64, error) {
	return nil, 0, nil
}

func (r *fakePostRepo) UpdatePost(ctx context.Context, id string, content string) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, apperr.ErrNotFound)
	}
	p.Content = content
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) DeletePost(ctx context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("post %s: %w", id, apperr.ErrNotFound)
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) inc(id, field string, delta int) error {
	p, ok := r.posts[id]
	if !ok {
		return fmt.Errorf("post %s: %w", id, apperr.ErrNotFound)
	}
	switch field {
	case "likes_count":
		if p.LikesCount+delta >= 0 {
			p.LikesCount += delta
		}
	case "comments_count":
		if p.CommentsCount+delta >= 0 {
			p.CommentsCount += delta
		}
	case "shares_count":
		if p.SharesCount+delta >= 0 {
			p.SharesCount += delta
		}
	}
	return nil
}

func (r *fakePostRepo) IncrementLikesCount(ctx context.Context, postID string) error {
	if r.failIncLikes {
		return errors.New("counter store unavailable")
	}
	return r.inc(postID, "likes_count", 1)
}

func (r *fakePostRepo) DecrementLikesCount(ctx context.Context, postID string) error {
	return r.inc(postID, "likes_count", -1)
}

func (r *fakePostRepo) IncrementCommentsCount(ctx context.Context, postID string) error {
	if r.failIncComments {
		return errors.New("counter store unavailable")
	}
	return r.inc(postID, "comments_count", 1)
}

func (r *fakePostRepo) DecrementCommentsCountBy(ctx context.Context, postID string, n int64) error {
	return r.inc(postID, "comments_count", int(-n))
}

func (r *fakePostRepo) IncrementSharesCount(ctx context.Context, postID string) error {
	if r.failIncShares {
		return errors.New("counter store unavailable")
	}
	return r.inc(postID, "shares_count", 1)
}

// --- publisher ---

// recordingPublisher captures the payloads published per recipient.
type recordingPublisher struct {
	published map[uint][]interface{}
	fail      bool
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{published: map[uint][]interface{}{}}
}

func (p *recordingPublisher) Publish(recipientID uint, payload interface{}) error {
	if p.fail {
		return errors.New("no open connection")
	}
	p.published[recipientID] = append(p.published[recipientID], payload)
	return nil
}
