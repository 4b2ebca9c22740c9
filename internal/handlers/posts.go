package handlers

import (
	"errors"
	"net/http"

	"blogapi/internal/apperror"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	postNotFoundMessage  = "Post not found"
	slugConflictMessage  = "A post with this slug already exists"
	notAuthorMessage     = "Only the author can modify this post"
	invalidPostIDMessage = "Invalid post ID"
)

// PostHandler serves /api/posts.
type PostHandler struct {
	posts repository.PostRepository
	log   logrus.FieldLogger
	newID func() string
}

func NewPostHandler(posts repository.PostRepository, log logrus.FieldLogger) *PostHandler {
	return &PostHandler{posts: posts, log: log, newID: uuid.NewString}
}

// CreatePost creates a post owned by the authenticated user.
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, h.log, apperror.Unauthorized("Unauthorized"))
		return
	}

	var input models.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apperror.Validation("Invalid request body"))
		return
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		respondError(c, h.log, apperror.Validation(err.Error()))
		return
	}

	post := &models.Post{
		ID:       h.newID(),
		Title:    input.Title,
		Content:  input.Content,
		Author:   userID,
		Category: input.Category,
		Slug:     input.Slug,
	}
	if post.Slug == "" {
		post.Slug = models.Slugify(post.Title) + "-" + post.ID[:8]
	}

	if err := h.posts.Create(c.Request.Context(), post); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			respondError(c, h.log, apperror.Unauthorized("User no longer exists"))
			return
		}
		respondError(c, h.log, storeError(err, postNotFoundMessage, slugConflictMessage, "Error creating post"))
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ListPosts returns one page of posts, optionally restricted to a category.
func (h *PostHandler) ListPosts(c *gin.Context) {
	params := parsePageParams(c.Query("page"), c.Query("limit"))

	posts, err := h.posts.List(c.Request.Context(), repository.PostFilter{
		Category: c.Query("category"),
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		respondError(c, h.log, apperror.Internal("Error retrieving posts", err))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, post)
}

// UpdatePost applies a partial update. Existence is checked before
// ownership, and ownership before the payload.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, h.log, apperror.Unauthorized("Unauthorized"))
		return
	}

	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	if !models.CanMutate(userID, post) {
		respondError(c, h.log, apperror.Forbidden(notAuthorMessage))
		return
	}

	var patch models.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, h.log, apperror.Validation("Invalid request body"))
		return
	}
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		respondError(c, h.log, apperror.Validation(err.Error()))
		return
	}

	if !patch.Apply(post) {
		c.JSON(http.StatusOK, post)
		return
	}

	if err := h.posts.Update(c.Request.Context(), post); err != nil {
		respondError(c, h.log, storeError(err, postNotFoundMessage, slugConflictMessage, "Error updating post"))
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, h.log, apperror.Unauthorized("Unauthorized"))
		return
	}

	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	if !models.CanMutate(userID, post) {
		respondError(c, h.log, apperror.Forbidden(notAuthorMessage))
		return
	}

	if err := h.posts.Delete(c.Request.Context(), post.ID); err != nil {
		respondError(c, h.log, storeError(err, postNotFoundMessage, slugConflictMessage, "Error deleting post"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted successfully",
		"_id":     post.ID,
	})
}

// loadPost resolves the :id path parameter. It writes the error response
// itself and reports whether the caller should continue.
func (h *PostHandler) loadPost(c *gin.Context) (*models.Post, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.log, apperror.Validation(invalidPostIDMessage))
		return nil, false
	}

	post, err := h.posts.GetByID(c.Request.Context(), id.String())
	if err != nil {
		respondError(c, h.log, storeError(err, postNotFoundMessage, slugConflictMessage, "Error retrieving post"))
		return nil, false
	}
	return post, true
}
