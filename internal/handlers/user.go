package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/foodgram/foodgram-api/internal/logger"
	"github.com/foodgram/foodgram-api/internal/service"
	"github.com/foodgram/foodgram-api/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// UserHandler is the handler for user-related requests.
type UserHandler struct {
	Service       *service.UserService
	Subscriptions *service.SubscriptionService
}

// NewUserHandler is the constructor function for initializing a new UserHandler.
func NewUserHandler(userService *service.UserService, subscriptionService *service.SubscriptionService) *UserHandler {
	return &UserHandler{
		Service:       userService,
		Subscriptions: subscriptionService,
	}
}

// CreateUser creates a new user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var newUser struct {
		Username  string `json:"username" binding:"required"`
		Email     string `json:"email" binding:"required"`
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Password  string `json:"password" binding:"required"`
	}

	// Returns error if a required field is not included
	if err := c.ShouldBindJSON(&newUser); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "username, email, first_name, last_name, and password fields are required"})
		return
	}

	user, err := h.Service.CreateUser(newUser.Username, newUser.Email, newUser.FirstName, newUser.LastName, newUser.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, service.ToUserResponse(user, false))
}

// LoginUser checks credentials and issues an access/refresh token pair.
func (h *UserHandler) LoginUser(c *gin.Context) {
	var userCredentials struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&userCredentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "username and password are required"})
		return
	}

	user, err := h.Service.LoginUser(userCredentials.Username, userCredentials.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": err.Error()})
		return
	}

	accessToken, err := generateAccessToken(user.ID, h.Service.Cfg.EnvVars.JwtSecretKey)
	if err != nil {
		logger.Get().Error("failed to generate access token on login", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "failed to generate access token"})
		return
	}
	refreshToken, err := generateRefreshToken(user.ID, h.Service.Cfg.EnvVars.JwtSecretKey)
	if err != nil {
		logger.Get().Error("failed to generate refresh token on login", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "failed to generate refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "refresh_token": refreshToken})
}

// RefreshToken validates a refresh token and issues a new token pair.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var request struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "refresh_token is required"})
		return
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(request.RefreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.Service.Cfg.EnvVars.JwtSecretKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "invalid or expired refresh token"})
		return
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "refresh" {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "invalid token type"})
		return
	}

	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "invalid user_id in token"})
		return
	}
	userID := uint(idFloat)

	accessToken, err := generateAccessToken(userID, h.Service.Cfg.EnvVars.JwtSecretKey)
	if err != nil {
		logger.Get().Error("failed to generate access token on refresh", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "failed to generate access token"})
		return
	}
	newRefreshToken, err := generateRefreshToken(userID, h.Service.Cfg.EnvVars.JwtSecretKey)
	if err != nil {
		logger.Get().Error("failed to generate refresh token on refresh", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "failed to generate refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "refresh_token": newRefreshToken})
}

// GetMe returns the authenticated user's own profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "authentication required"})
		return
	}

	// is_subscribed is always false for the requester's own profile.
	c.JSON(http.StatusOK, service.ToUserResponse(user, false))
}

// GetUser returns a user's profile by id.
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, err := parseUintParam(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid user id"})
		return
	}

	target, err := h.Service.GetUserByID(targetID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	currentUserID, _ := util.GetUserIDFromContext(c)
	c.JSON(http.StatusOK, service.ToUserResponse(target, h.Service.IsSubscribed(currentUserID, targetID)))
}

// ListUsers returns a page of users, optionally narrowed to an exact
// username via ?search=.
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c, h.Service.Cfg)

	users, total, err := h.Service.ListUsers(c.Query("search"), page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	currentUserID, _ := util.GetUserIDFromContext(c)
	results := make([]service.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, service.ToUserResponse(&users[i], h.Service.IsSubscribed(currentUserID, users[i].ID)))
	}

	c.JSON(http.StatusOK, service.PagedResponse{Count: total, Results: results})
}

// SetPassword changes the authenticated user's password.
func (h *UserHandler) SetPassword(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "authentication required"})
		return
	}

	var request struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "current_password and new_password are required"})
		return
	}

	if err := h.Service.SetPassword(user, request.CurrentPassword, request.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSubscriptions returns the users the caller follows, each with a
// capped recipe list (?recipes_limit=N) and total recipe count.
func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "authentication required"})
		return
	}

	page, limit := parsePagination(c, h.Service.Cfg)
	recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit"))

	results, total, err := h.Subscriptions.ListSubscriptions(user, recipesLimit, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, service.PagedResponse{Count: total, Results: results})
}

// Subscribe makes the caller follow the target user.
func (h *UserHandler) Subscribe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "authentication required"})
		return
	}

	targetID, err := parseUintParam(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid user id"})
		return
	}

	recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit"))
	expanded, err := h.Subscriptions.Subscribe(user, targetID, recipesLimit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expanded)
}

// Unsubscribe removes the caller's follow of the target user.
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "authentication required"})
		return
	}

	targetID, err := parseUintParam(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid user id"})
		return
	}

	if err := h.Subscriptions.Unsubscribe(user, targetID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// generateAccessToken generates a short-lived JWT access token for a user.
func generateAccessToken(userID uint, secretKey string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(15 * time.Minute).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "access",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("generateAccessToken: %v", err)
	}
	return tokenString, nil
}

// generateRefreshToken generates a long-lived JWT refresh token for a user.
func generateRefreshToken(userID uint, secretKey string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(30 * 24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "refresh",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("generateRefreshToken: %v", err)
	}
	return tokenString, nil
}
