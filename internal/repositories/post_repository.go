package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/socialhub/backend/internal/apperr"
	"github.com/socialhub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Post, int64, error)
	GetPostsByAuthorIDs(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, int64, error)
	GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, int64, error)
	GetTrendingPosts(ctx context.Context, since time.Time, limit int64) ([]models.Post, error)
	SearchPosts(ctx context.Context, query string, skip, limit int64) ([]models.Post, int64, error)
	UpdatePost(ctx context.Context, id string, content string) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	IncrementLikesCount(ctx context.Context, postID string) error
	DecrementLikesCount(ctx context.Context, postID string) error
	IncrementCommentsCount(ctx context.Context, postID string) error
	DecrementCommentsCountBy(ctx context.Context, postID string, n int64) error
	IncrementSharesCount(ctx context.Context, postID string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", id, apperr.ErrNotFound)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("post %s: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoPostRepository) findPage(ctx context.Context, filter interface{}, sort bson.D, skip, limit int64) ([]models.Post, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(sort)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetPostsByUserID retrieves posts by a specific author, newest first
func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Post, int64, error) {
	return r.findPage(ctx, bson.M{"user_id": userID}, bson.D{{Key: "created_at", Value: -1}}, skip, limit)
}

// GetPostsByAuthorIDs retrieves posts authored by any of the given users,
// newest first. Backs the feed query; an empty author set yields an empty
// page without hitting the database.
func (r *MongoPostRepository) GetPostsByAuthorIDs(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, int64, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, 0, nil
	}
	return r.findPage(ctx, bson.M{"user_id": bson.M{"$in": authorIDs}}, bson.D{{Key: "created_at", Value: -1}}, skip, limit)
}

// GetAllPosts retrieves all posts from MongoDB with pagination
func (r *MongoPostRepository) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, int64, error) {
	return r.findPage(ctx, bson.D{}, bson.D{{Key: "created_at", Value: -1}}, skip, limit)
}

// GetTrendingPosts returns posts created at or after since, ordered by
// likes_count descending with created_at descending as the tie-break.
func (r *MongoPostRepository) GetTrendingPosts(ctx context.Context, since time.Time, limit int64) ([]models.Post, error) {
	filter := bson.M{"created_at": bson.M{"$gte": since}}
	sort := bson.D{{Key: "likes_count", Value: -1}, {Key: "created_at", Value: -1}}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(sort).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SearchPosts performs a case-insensitive substring search over post content
func (r *MongoPostRepository) SearchPosts(ctx context.Context, query string, skip, limit int64) ([]models.Post, int64, error) {
	filter := bson.M{"content": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}}
	return r.findPage(ctx, filter, bson.D{{Key: "created_at", Value: -1}}, skip, limit)
}

// UpdatePost replaces a post's content and returns the updated document
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, content string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", id, apperr.ErrNotFound)
	}

	update := bson.M{"$set": bson.M{"content": content, "updated_at": time.Now()}}
	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("post %s: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &post, nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("post %s: %w", id, apperr.ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("post %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (r *MongoPostRepository) inc(ctx context.Context, postID, field string, delta int64) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("post %s: %w", postID, apperr.ErrNotFound)
	}

	filter := bson.M{"_id": objID}
	if delta < 0 {
		// Floor at zero: only decrement when the counter can absorb it. A
		// counter that cannot means the fact set and the counter diverged.
		filter[field] = bson.M{"$gte": -delta}
	}

	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if delta < 0 && res.ModifiedCount == 0 {
		log.Printf("consistency fault: %s of post %s would go negative (delta %d)", field, postID, delta)
	}
	return nil
}

// IncrementLikesCount increments the likes count of a post
func (r *MongoPostRepository) IncrementLikesCount(ctx context.Context, postID string) error {
	return r.inc(ctx, postID, "likes_count", 1)
}

// DecrementLikesCount decrements the likes count of a post, floored at zero
func (r *MongoPostRepository) DecrementLikesCount(ctx context.Context, postID string) error {
	return r.inc(ctx, postID, "likes_count", -1)
}

// IncrementCommentsCount increments the comments count of a post
func (r *MongoPostRepository) IncrementCommentsCount(ctx context.Context, postID string) error {
	return r.inc(ctx, postID, "comments_count", 1)
}

// DecrementCommentsCountBy decrements the comments count by n, once per
// comment row removed in a cascade delete
func (r *MongoPostRepository) DecrementCommentsCountBy(ctx context.Context, postID string, n int64) error {
	if n <= 0 {
		return nil
	}
	return r.inc(ctx, postID, "comments_count", -n)
}

// IncrementSharesCount increments the shares count of a post
func (r *MongoPostRepository) IncrementSharesCount(ctx context.Context, postID string) error {
	return r.inc(ctx, postID, "shares_count", 1)
}
