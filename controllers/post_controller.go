package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/DavCode46/wander-whiskers-server/middleware"
	"github.com/DavCode46/wander-whiskers-server/models"
	"github.com/DavCode46/wander-whiskers-server/repository"
)

type PostController struct {
	Posts  repository.PostRepo
	Users  repository.UserRepo
	Logger *zap.Logger
}

func NewPostController(posts repository.PostRepo, users repository.UserRepo, logger *zap.Logger) *PostController {
	return &PostController{
		Posts:  posts,
		Users:  users,
		Logger: logger,
	}
}

type postRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Specie    string `json:"specie" binding:"required"`
	Location  string `json:"location" binding:"required"`
	Condition string `json:"condition" binding:"required"`
	Image     string `json:"image"`
}

// CreatePost publishes a new pet post authored by the authenticated user.
func (pc *PostController) CreatePost(c *gin.Context) {
	authorID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	if !models.ValidSpecie(req.Specie) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid specie"})
		return
	}
	if !models.ValidCondition(req.Condition) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid condition"})
		return
	}

	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Specie:    req.Specie,
		Location:  req.Location,
		Condition: req.Condition,
		Image:     req.Image,
		Author:    authorID,
	}
	if err := pc.Posts.Create(c.Request.Context(), post); err != nil {
		pc.Logger.Error("Failed to create post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetAllPosts lists every post, newest first.
func (pc *PostController) GetAllPosts(c *gin.Context) {
	posts, err := pc.Posts.Find(c.Request.Context(), nil)
	if err != nil {
		pc.Logger.Error("Failed to list posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get posts"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single post by id.
func (pc *PostController) GetPost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	post, err := pc.Posts.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		pc.Logger.Error("Failed to load post", zap.String("post_id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// GetPostsByLocation lists posts for one location.
func (pc *PostController) GetPostsByLocation(c *gin.Context) {
	pc.listFiltered(c, map[string]interface{}{"location": c.Param("location")})
}

// GetPostsBySpecie lists posts for one species.
func (pc *PostController) GetPostsBySpecie(c *gin.Context) {
	pc.listFiltered(c, map[string]interface{}{"specie": c.Param("specie")})
}

// GetPostsByCondition lists posts for one condition.
func (pc *PostController) GetPostsByCondition(c *gin.Context) {
	pc.listFiltered(c, map[string]interface{}{"condition": c.Param("condition")})
}

// GetAuthorPosts lists posts published by one user.
func (pc *PostController) GetAuthorPosts(c *gin.Context) {
	authorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	pc.listFiltered(c, map[string]interface{}{"author": authorID})
}

func (pc *PostController) listFiltered(c *gin.Context, filter map[string]interface{}) {
	posts, err := pc.Posts.Find(c.Request.Context(), filter)
	if err != nil {
		pc.Logger.Error("Failed to list posts", zap.Any("filter", filter), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get posts"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// UpdatePost edits an existing post. Only the author or an admin may edit;
// the image is optional and kept when omitted.
func (pc *PostController) UpdatePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	if !models.ValidSpecie(req.Specie) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid specie"})
		return
	}
	if !models.ValidCondition(req.Condition) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid condition"})
		return
	}

	ctx := c.Request.Context()
	post, err := pc.Posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		pc.Logger.Error("Failed to load post", zap.String("post_id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	if !pc.canModify(c, post) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to edit this post"})
		return
	}

	updates := map[string]interface{}{
		"title":     req.Title,
		"content":   req.Content,
		"specie":    req.Specie,
		"location":  req.Location,
		"condition": req.Condition,
	}
	if req.Image != "" {
		updates["image"] = req.Image
	}
	if err := pc.Posts.Update(ctx, id, updates); err != nil {
		pc.Logger.Error("Failed to update post", zap.String("post_id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	updated, err := pc.Posts.FindByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeletePost removes a post. Only the author or an admin may delete.
func (pc *PostController) DeletePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	ctx := c.Request.Context()
	post, err := pc.Posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		pc.Logger.Error("Failed to load post", zap.String("post_id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	if !pc.canModify(c, post) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this post"})
		return
	}

	if err := pc.Posts.Delete(ctx, id); err != nil {
		pc.Logger.Error("Failed to delete post", zap.String("post_id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// canModify reports whether the caller is the post's author or an admin.
func (pc *PostController) canModify(c *gin.Context, post *models.Post) bool {
	callerID := middleware.GetUserID(c)
	if callerID == post.Author.Hex() {
		return true
	}
	callerOID, err := primitive.ObjectIDFromHex(callerID)
	if err != nil {
		return false
	}
	caller, err := pc.Users.FindByID(c.Request.Context(), callerOID)
	return err == nil && caller.Role == models.RoleAdmin
}
