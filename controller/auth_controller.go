package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"cliniq/models"
	"cliniq/security"
)

// UserStore is the persistence surface the auth endpoints need.
type UserStore interface {
	Create(ctx context.Context, username, email, hashedPassword string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
}

// AuthController handles signup and login.
type AuthController struct {
	users  UserStore
	tokens *security.TokenManager
}

func NewAuthController(users UserStore, tokens *security.TokenManager) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

// Signup is the handler for POST /auth/signup.
func (a *AuthController) Signup(ctx *gin.Context) {
	var req models.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	exists, err := a.users.Exists(ctx.Request.Context(), req.Username, req.Email)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	if exists {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email ou nom d'utilisateur déjà utilisé"})
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user, err := a.users.Create(ctx.Request.Context(), req.Username, req.Email, hash)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	ctx.JSON(http.StatusCreated, models.UserResponse{
		ID:       user.ID,
		PublicID: user.PublicID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login is the handler for POST /auth/login.
func (a *AuthController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	user, err := a.users.GetByUsername(ctx.Request.Context(), req.Username)
	if err != nil || !security.VerifyPassword(req.Password, user.HashedPassword) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Nom d'utilisateur ou mot de passe incorrect"})
		return
	}

	token, err := a.tokens.CreateAccessToken(user.Username)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	ctx.JSON(http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}
