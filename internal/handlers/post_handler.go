package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/socialhub/backend/internal/apperr"
	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/repositories"
	"github.com/socialhub/backend/internal/services"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	likeRepository    repositories.LikeRepository
	commentRepository repositories.CommentRepository
	shareRepository   repositories.ShareRepository
	engagement        *services.EngagementService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	shareRepo repositories.ShareRepository,
	engagement *services.EngagementService,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		likeRepository:    likeRepo,
		commentRepository: commentRepo,
		shareRepository:   shareRepo,
		engagement:        engagement,
	}
}

// RegisterPostRoutes registers routes that require authentication
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/share", h.SharePost)
}

// RegisterPublicPostRoutes registers routes that tolerate anonymous callers
func (h *PostHandler) RegisterPublicPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/search", h.SearchPosts)
	g.GET("/users/:id/posts", h.GetPostsByUser)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		UserID:    getUserIDFromContext(c),
		Content:   req.Content,
		ImageURLs: req.ImageURLs,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID, with the is_liked annotation for
// authenticated callers
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	view := services.PostView{Post: *post}
	if viewerID := getUserIDFromContext(c); viewerID != 0 {
		liked, err := h.likeRepository.HasUserLikedPost(post.ID.Hex(), viewerID)
		if err != nil {
			return toHTTPError(err)
		}
		view.IsLiked = liked
	}
	return c.JSON(http.StatusOK, view)
}

// GetPosts retrieves all posts, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	page, size := pageParams(c, 10)
	posts, total, err := h.postRepository.GetAllPosts(c.Request().Context(), int64(page)*int64(size), int64(size))
	if err != nil {
		return toHTTPError(err)
	}
	return h.postPage(c, posts, page, size, total)
}

// GetPostsByUser retrieves posts authored by one user, newest first
func (h *PostHandler) GetPostsByUser(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	page, size := pageParams(c, 10)
	posts, total, err := h.postRepository.GetPostsByUserID(c.Request().Context(), uint(userID), int64(page)*int64(size), int64(size))
	if err != nil {
		return toHTTPError(err)
	}
	return h.postPage(c, posts, page, size, total)
}

// SearchPosts performs a case-insensitive substring search over content
func (h *PostHandler) SearchPosts(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	page, size := pageParams(c, 10)
	posts, total, err := h.postRepository.SearchPosts(c.Request().Context(), query, int64(page)*int64(size), int64(size))
	if err != nil {
		return toHTTPError(err)
	}
	return h.postPage(c, posts, page, size, total)
}

// UpdatePost updates a post's content. Only the author may do this.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return toHTTPError(err)
	}
	if post.UserID != getUserIDFromContext(c) {
		return toHTTPError(apperr.ErrForbidden)
	}

	updated, err := h.postRepository.UpdatePost(c.Request().Context(), postID, req.Content)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeletePost deletes a post and its fact rows. Only the author may do this.
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return toHTTPError(err)
	}
	if post.UserID != getUserIDFromContext(c) {
		return toHTTPError(apperr.ErrForbidden)
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return toHTTPError(err)
	}

	// Fact rows for a deleted post are unreachable; clean them up.
	if err := h.likeRepository.DeleteByPostID(postID); err != nil {
		log.Printf("post %s: like cleanup failed: %v", postID, err)
	}
	if err := h.commentRepository.DeleteByPostID(postID); err != nil {
		log.Printf("post %s: comment cleanup failed: %v", postID, err)
	}
	if err := h.shareRepository.DeleteByPostID(postID); err != nil {
		log.Printf("post %s: share cleanup failed: %v", postID, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SharePost records a share of the post by the authenticated user
func (h *PostHandler) SharePost(c echo.Context) error {
	post, err := h.engagement.SharePost(c.Request().Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) postPage(c echo.Context, posts []models.Post, page, size int, total int64) error {
	viewerID := getUserIDFromContext(c)

	views := make([]services.PostView, len(posts))
	liked := map[string]bool{}
	if viewerID != 0 {
		postIDs := make([]string, len(posts))
		for i, p := range posts {
			postIDs[i] = p.ID.Hex()
		}
		var err error
		liked, err = h.likeRepository.GetLikedPostIDs(viewerID, postIDs)
		if err != nil {
			return toHTTPError(err)
		}
	}
	for i, p := range posts {
		views[i] = services.PostView{Post: p, IsLiked: liked[p.ID.Hex()]}
	}

	return c.JSON(http.StatusOK, services.PostPage{Posts: views, Page: page, Size: size, TotalItems: total})
}
