package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/groupfeed/middleware"
	"github.com/cppla/groupfeed/services"
	"github.com/cppla/groupfeed/utils"
)

const tokenTTL = 7 * 24 * time.Hour

// AuthController issues and revokes bearer tokens.
type AuthController struct {
	accounts  *services.AccountService
	secret    string
	blacklist *utils.TokenBlacklist
}

func NewAuthController(accounts *services.AccountService, secret string, blacklist *utils.TokenBlacklist) *AuthController {
	return &AuthController{accounts: accounts, secret: secret, blacklist: blacklist}
}

// Register creates an account and logs it in.
func (a *AuthController) Register(ctx *gin.Context) {
	var form services.RegisterForm
	if !bindJSON(ctx, &form) {
		return
	}
	user, err := a.accounts.Register(ctx.Request.Context(), form)
	if err != nil {
		respondError(ctx, err, 40400, 50001)
		return
	}
	token, err := utils.GenerateToken(a.secret, user.ID, user.Username, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to issue token")
		return
	}
	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Login exchanges credentials for a token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(ctx, &req) {
		return
	}
	user, err := a.accounts.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid username or password")
			return
		}
		respondError(ctx, err, 40400, 50003)
		return
	}
	token, err := utils.GenerateToken(a.secret, user.ID, user.Username, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to issue token")
		return
	}
	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout revokes the presented token until it would have expired anyway.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	claims, err := utils.ParseToken(a.secret, token)
	if err == nil && claims.ExpiresAt != nil {
		if err := a.blacklist.Revoke(ctx.Request.Context(), token, claims.ExpiresAt.Time); err != nil {
			utils.Sugar.Warnf("token revoke failed user=%d err=%v", claims.UserID, err)
		}
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated actor.
func (a *AuthController) Me(ctx *gin.Context) {
	utils.Success(ctx, middleware.CurrentActor(ctx))
}

// DeleteAccount removes the caller's account along with their posts and comments.
func (a *AuthController) DeleteAccount(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	if err := a.accounts.Delete(ctx.Request.Context(), actor.ID); err != nil {
		respondError(ctx, err, 40403, 50004)
		return
	}
	a.Logout(ctx)
}
