package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	apperrors "github.com/DavCode46/wander-whiskers-server/errors"
	"github.com/DavCode46/wander-whiskers-server/middleware"
	"github.com/DavCode46/wander-whiskers-server/models"
	"github.com/DavCode46/wander-whiskers-server/repository"
	"github.com/DavCode46/wander-whiskers-server/services"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserController struct {
	Users      repository.UserRepo
	Posts      repository.PostRepo
	Carts      repository.CartRepo
	Tokens     *services.TokenService
	Email      *services.EmailService
	AdminEmail string
	ClientURL  string
	Logger     *zap.Logger
}

func NewUserController(
	users repository.UserRepo,
	posts repository.PostRepo,
	carts repository.CartRepo,
	tokens *services.TokenService,
	email *services.EmailService,
	adminEmail, clientURL string,
	logger *zap.Logger,
) *UserController {
	return &UserController{
		Users:      users,
		Posts:      posts,
		Carts:      carts,
		Tokens:     tokens,
		Email:      email,
		AdminEmail: adminEmail,
		ClientURL:  clientURL,
		Logger:     logger,
	}
}

type registerRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// Register creates a new account. The first registrant using the configured
// admin email becomes the admin.
func (uc *UserController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields"})
		return
	}

	email := strings.ToLower(req.Email)
	ctx := c.Request.Context()

	if _, err := uc.Users.FindByEmail(ctx, email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		uc.Logger.Error("Failed to check email uniqueness", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	if err := services.ValidatePasswordPolicy(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		uc.Logger.Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	role := models.RoleUser
	if _, err := uc.Users.FindByRole(ctx, models.RoleAdmin); errors.Is(err, mongo.ErrNoDocuments) && email == uc.AdminEmail {
		role = models.RoleAdmin
	}

	user := &models.User{
		Username: req.Username,
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	if err := uc.Users.Create(ctx, user); err != nil {
		uc.Logger.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	if role != models.RoleAdmin {
		if err := uc.Email.SendWelcomeEmail(email); err != nil {
			uc.Logger.Warn("Failed to send welcome email", zap.String("email", email), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("User %s registered successfully", user.Email)})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and returns a session token.
func (uc *UserController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields"})
		return
	}

	user, err := uc.Users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(apperrors.ErrInvalidCredentials.Code, gin.H{"error": apperrors.ErrInvalidCredentials.Message})
			return
		}
		uc.Logger.Error("Failed to load user for login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	if !services.CheckPassword(user.Password, req.Password) {
		c.JSON(apperrors.ErrInvalidCredentials.Code, gin.H{"error": apperrors.ErrInvalidCredentials.Message})
		return
	}

	token, err := uc.Tokens.GenerateToken(user.ID.Hex(), user.Username)
	if err != nil {
		uc.Logger.Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"id":           user.ID.Hex(),
		"username":     user.Username,
		"role":         user.Role,
		"isSubscribed": user.IsSubscribed,
	})
}

// GetUser returns a user profile. The password field never serializes.
func (uc *UserController) GetUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	user, err := uc.Users.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		uc.Logger.Error("Failed to load user", zap.String("user_id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUsers lists all users.
func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.Users.FindAll(c.Request.Context())
	if err != nil {
		uc.Logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

type changeImageRequest struct {
	ProfileImage string `json:"profileImage" binding:"required"`
}

// ChangeImage updates the authenticated user's profile image reference.
func (uc *UserController) ChangeImage(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req changeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select an image"})
		return
	}

	ctx := c.Request.Context()
	if err := uc.Users.Update(ctx, userID, map[string]interface{}{"profileImage": req.ProfileImage}); err != nil {
		uc.Logger.Error("Failed to update profile image", zap.String("user_id", userID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change profile image"})
		return
	}

	user, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type editUserRequest struct {
	Username           string `json:"username" binding:"required"`
	Email              string `json:"email" binding:"required"`
	CurrentPassword    string `json:"currentPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
}

// EditUser updates profile fields after re-verifying the current password.
func (uc *UserController) EditUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req editUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields"})
		return
	}

	ctx := c.Request.Context()
	user, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	email := strings.ToLower(req.Email)
	if existing, err := uc.Users.FindByEmail(ctx, email); err == nil && existing.ID != user.ID {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		return
	}

	if !services.CheckPassword(user.Password, req.CurrentPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if services.CheckPassword(user.Password, req.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password cannot be the same as the old one"})
		return
	}
	if req.NewPassword != req.ConfirmNewPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}
	if err := services.ValidatePasswordPolicy(req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := services.HashPassword(req.NewPassword)
	if err != nil {
		uc.Logger.Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to edit profile"})
		return
	}

	updates := map[string]interface{}{
		"username": req.Username,
		"email":    email,
		"password": hashed,
	}
	if err := uc.Users.Update(ctx, userID, updates); err != nil {
		uc.Logger.Error("Failed to update user", zap.String("user_id", userID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to edit profile"})
		return
	}

	updated, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteUser removes an account and cascades its posts and cart. Only the
// owner or an admin may delete.
func (uc *UserController) DeleteUser(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	ctx := c.Request.Context()
	target, err := uc.Users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		uc.Logger.Error("Failed to load user", zap.String("user_id", targetID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	callerID := middleware.GetUserID(c)
	if callerID != targetID.Hex() {
		callerOID, err := primitive.ObjectIDFromHex(callerID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		caller, err := uc.Users.FindByID(ctx, callerOID)
		if err != nil || caller.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this user"})
			return
		}
	}

	if err := uc.Posts.DeleteByAuthor(ctx, target.ID); err != nil {
		uc.Logger.Error("Failed to delete user posts", zap.String("user_id", targetID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if err := uc.Carts.DeleteByUser(ctx, target.ID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		uc.Logger.Error("Failed to delete user cart", zap.String("user_id", targetID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if err := uc.Users.Delete(ctx, target.ID); err != nil {
		uc.Logger.Error("Failed to delete user", zap.String("user_id", targetID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

type forgetPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgetPassword emails a signed, single-use password reset link.
func (uc *UserController) ForgetPassword(c *gin.Context) {
	var req forgetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email not provided"})
		return
	}
	email := strings.ToLower(req.Email)
	if !emailPattern.MatchString(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}

	user, err := uc.Users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		uc.Logger.Error("Failed to load user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send recovery email"})
		return
	}

	token, err := uc.Tokens.GenerateResetToken(user)
	if err != nil {
		uc.Logger.Error("Failed to generate reset token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send recovery email"})
		return
	}

	link := fmt.Sprintf("%s/reset-password/%s/%s", uc.ClientURL, user.ID.Hex(), token)
	if err := uc.Email.SendPasswordResetEmail(email, link); err != nil {
		uc.Logger.Error("Failed to send reset email", zap.String("email", email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send recovery email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recovery email sent successfully"})
}

type resetPasswordRequest struct {
	NewPassword        string `json:"newPassword" binding:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
}

// ResetPassword verifies the reset token and updates the password.
func (uc *UserController) ResetPassword(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	ctx := c.Request.Context()
	user, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		uc.Logger.Error("Failed to load user", zap.String("user_id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	claims, err := uc.Tokens.ParseResetToken(user, c.Param("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset token"})
		return
	}
	if claimed, _ := claims["id"].(string); claimed != user.ID.Hex() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields"})
		return
	}
	if req.NewPassword != req.ConfirmNewPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}
	if err := services.ValidatePasswordPolicy(req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := services.HashPassword(req.NewPassword)
	if err != nil {
		uc.Logger.Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	if err := uc.Users.Update(ctx, user.ID, map[string]interface{}{"password": hashed}); err != nil {
		uc.Logger.Error("Failed to update password", zap.String("user_id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
