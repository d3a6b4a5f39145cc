package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/DavCode46/wander-whiskers-server/config"
	"github.com/DavCode46/wander-whiskers-server/models"
	"github.com/DavCode46/wander-whiskers-server/services"
)

func newUserTestController(users *MockUserRepo) *UserController {
	// SMTP points at a closed local port so accidental sends fail fast.
	email := services.NewEmailService(&config.Config{
		SMTPServer:  "127.0.0.1",
		SMTPPort:    "1",
		SenderEmail: "noreply@example.com",
		SenderName:  "Wander Whiskers",
	})
	return NewUserController(
		users, new(MockPostRepo), new(MockCartRepo),
		services.NewTokenService("test-secret"),
		email,
		"admin@example.com", "http://localhost:5173",
		zap.NewNop(),
	)
}

func newUserTestRouter(uc *UserController) *gin.Engine {
	r := gin.New()
	users := r.Group("/users")
	users.POST("/register", uc.Register)
	users.POST("/login", uc.Login)
	users.GET("/:id", uc.GetUser)
	return r
}

func postJSON(r *gin.Engine, path string, payload gin.H) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegister_EmailAlreadyInUse(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByEmail", mock.Anything, "taken@example.com").Return(&models.User{
		ID:    primitive.NewObjectID(),
		Email: "taken@example.com",
	}, nil)

	r := newUserTestRouter(newUserTestController(users))

	w := postJSON(r, "/users/register", gin.H{
		"username":        "dav",
		"email":           "Taken@Example.com",
		"password":        "Abcdef1$",
		"confirmPassword": "Abcdef1$",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, mongo.ErrNoDocuments)

	r := newUserTestRouter(newUserTestController(users))

	w := postJSON(r, "/users/register", gin.H{
		"username":        "dav",
		"email":           "new@example.com",
		"password":        "Abcdef1$",
		"confirmPassword": "Different1$",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Passwords do not match")
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, mongo.ErrNoDocuments)

	r := newUserTestRouter(newUserTestController(users))

	w := postJSON(r, "/users/register", gin.H{
		"username":        "dav",
		"email":           "new@example.com",
		"password":        "weak",
		"confirmPassword": "weak",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_FirstAdminEmailGetsAdminRole(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByEmail", mock.Anything, "admin@example.com").Return(nil, mongo.ErrNoDocuments)
	users.On("FindByRole", mock.Anything, models.RoleAdmin).Return(nil, mongo.ErrNoDocuments)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleAdmin && u.Email == "admin@example.com"
	})).Return(nil)

	r := newUserTestRouter(newUserTestController(users))

	w := postJSON(r, "/users/register", gin.H{
		"username":        "admin",
		"email":           "Admin@Example.com",
		"password":        "Abcdef1$",
		"confirmPassword": "Abcdef1$",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	users.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	hash, err := services.HashPassword("Abcdef1$")
	assert.NoError(t, err)

	userID := primitive.NewObjectID()
	users := new(MockUserRepo)
	users.On("FindByEmail", mock.Anything, "dav@example.com").Return(&models.User{
		ID:           userID,
		Username:     "dav",
		Email:        "dav@example.com",
		Password:     hash,
		Role:         models.RoleUser,
		IsSubscribed: true,
	}, nil)

	r := newUserTestRouter(newUserTestController(users))

	w := postJSON(r, "/users/login", gin.H{
		"email":    "dav@example.com",
		"password": "Abcdef1$",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, userID.Hex(), body["id"])
	assert.Equal(t, "dav", body["username"])
	assert.Equal(t, true, body["isSubscribed"])
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := services.HashPassword("Abcdef1$")
	assert.NoError(t, err)

	users := new(MockUserRepo)
	users.On("FindByEmail", mock.Anything, "dav@example.com").Return(&models.User{
		ID:       primitive.NewObjectID(),
		Email:    "dav@example.com",
		Password: hash,
	}, nil)

	r := newUserTestRouter(newUserTestController(users))

	w := postJSON(r, "/users/login", gin.H{
		"email":    "dav@example.com",
		"password": "WrongPass1$",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, mongo.ErrNoDocuments)

	r := newUserTestRouter(newUserTestController(users))

	w := postJSON(r, "/users/login", gin.H{
		"email":    "ghost@example.com",
		"password": "Abcdef1$",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUser_PasswordNeverSerialized(t *testing.T) {
	userID := primitive.NewObjectID()
	users := new(MockUserRepo)
	users.On("FindByID", mock.Anything, userID).Return(&models.User{
		ID:       userID,
		Username: "dav",
		Email:    "dav@example.com",
		Password: "$2a$12$secret-hash",
	}, nil)

	r := newUserTestRouter(newUserTestController(users))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/"+userID.Hex(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-hash")
	assert.NotContains(t, w.Body.String(), "password")
}
