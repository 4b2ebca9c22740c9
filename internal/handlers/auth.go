package handlers

import (
	"errors"
	"net/http"
	"strings"

	"blogapi/internal/apperror"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

// AuthHandler serves registration, login and the current-user lookup.
type AuthHandler struct {
	users  repository.UserRepository
	tokens TokenIssuer
	log    logrus.FieldLogger
	newID  func() string
}

func NewAuthHandler(users repository.UserRepository, tokens TokenIssuer, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log, newID: uuid.NewString}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apperror.Validation("A valid email, a username of 3-50 characters and a password of at least 6 characters are required"))
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, h.log, apperror.Internal("Error hashing password", err))
		return
	}

	user := &models.User{
		ID:       h.newID(),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Username: strings.TrimSpace(req.Username),
		Password: hashedPassword,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondError(c, h.log, storeError(err, "User not found", "User with this email or username already exists", "Error creating user"))
		return
	}

	h.respondWithToken(c, http.StatusCreated, "User registered successfully", user)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apperror.Validation("Email and password are required"))
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, h.log, apperror.Unauthorized("Invalid credentials"))
			return
		}
		respondError(c, h.log, apperror.Internal("Error logging in", err))
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		respondError(c, h.log, apperror.Unauthorized("Invalid credentials"))
		return
	}

	h.respondWithToken(c, http.StatusOK, "Login successful", user)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, h.log, apperror.Unauthorized("Unauthorized"))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, storeError(err, "User not found", "", "Error retrieving user"))
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, message string, user *models.User) {
	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		respondError(c, h.log, apperror.Internal("Error generating token", err))
		return
	}

	c.JSON(status, gin.H{
		"message": message,
		"token":   token,
		"user":    user,
	})
}
