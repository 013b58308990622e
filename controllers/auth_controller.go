package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/store"
	"github.com/quillhq/quill/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController handles registration, login and identity lookups.
type AuthController struct {
	store *store.Store
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(st *store.Store) *AuthController {
	return &AuthController{store: st}
}

// Register creates a new account and returns a bearer token for it.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=64"`
		Email    string `json:"email" binding:"omitempty,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to hash password")
		return
	}

	user, err := a.store.CreateUser(req.Username, req.Email, hash)
	if err != nil {
		respondStoreError(ctx, err, 50011, "user")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Login verifies credentials and returns a bearer token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid request payload")
		return
	}

	user, err := a.store.GetUserByUsername(req.Username)
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		// Same answer for unknown user and wrong password.
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Me returns the authenticated user's own record.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	user, err := a.store.GetUserByID(userID)
	if err != nil {
		respondStoreError(ctx, err, 50014, "user")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// DeleteMe removes the authenticated account. Posts, comments and follow
// edges disappear with it through the schema's cascade rules.
func (a *AuthController) DeleteMe(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	if err := a.store.DeleteUser(userID); err != nil {
		respondStoreError(ctx, err, 50015, "user")
		return
	}
	utils.Success(ctx, gin.H{"message": "account deleted"})
}
