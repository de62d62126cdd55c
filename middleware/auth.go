package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/groupfeed/models"
	"github.com/cppla/groupfeed/repositories"
	"github.com/cppla/groupfeed/services"
	"github.com/cppla/groupfeed/utils"
)

const (
	// ContextActorKey stores the authenticated *services.Actor inside Gin context.
	ContextActorKey = "actor"
	// ContextTokenKey stores the raw bearer token so logout can revoke it.
	ContextTokenKey = "token"
	// LoginPath is where unauthenticated requesters are sent.
	LoginPath = "/api/v1/auth/login"
)

// UserLookup loads the account a token was issued for.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// Authenticator verifies bearer tokens and resolves them into actors.
// A token whose account no longer exists is rejected.
type Authenticator struct {
	secret    string
	blacklist *utils.TokenBlacklist
	users     UserLookup
	admins    map[string]struct{}
}

func NewAuthenticator(secret string, blacklist *utils.TokenBlacklist, users UserLookup, adminUsernames []string) *Authenticator {
	admins := make(map[string]struct{}, len(adminUsernames))
	for _, u := range adminUsernames {
		admins[strings.ToLower(strings.TrimSpace(u))] = struct{}{}
	}
	return &Authenticator{secret: secret, blacklist: blacklist, users: users, admins: admins}
}

// Optional attaches the actor when a valid token is present and lets anonymous
// requests through untouched.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token, ok := bearerToken(ctx); ok {
			if actor, err := a.resolve(ctx, token); err == nil {
				ctx.Set(ContextActorKey, actor)
				ctx.Set(ContextTokenKey, token)
			}
		}
		ctx.Next()
	}
}

// Required rejects requests without a valid token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			RespondUnauthenticated(ctx, 40101, "authorization header missing or malformed")
			ctx.Abort()
			return
		}
		actor, err := a.resolve(ctx, token)
		if err != nil {
			RespondUnauthenticated(ctx, 40105, "invalid token")
			ctx.Abort()
			return
		}
		ctx.Set(ContextActorKey, actor)
		ctx.Set(ContextTokenKey, token)
		ctx.Next()
	}
}

// AdminRequired must run after Required.
func (a *Authenticator) AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor := CurrentActor(ctx)
		if actor == nil || !actor.Admin {
			utils.Error(ctx, http.StatusForbidden, 40310, "admin only")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func (a *Authenticator) resolve(ctx *gin.Context, token string) (*services.Actor, error) {
	if a.blacklist != nil && a.blacklist.IsRevoked(ctx.Request.Context(), token) {
		return nil, errTokenRevoked
	}
	claims, err := utils.ParseToken(a.secret, token)
	if err != nil {
		return nil, err
	}
	user, err := a.users.GetByID(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			utils.Sugar.Warnf("actor lookup failed user=%d err=%v", claims.UserID, err)
		}
		return nil, errUnknownUser
	}
	// a reused id under another name is not the token's owner
	if user.Username != claims.Username {
		return nil, errUnknownUser
	}
	_, admin := a.admins[strings.ToLower(user.Username)]
	return &services.Actor{ID: user.ID, Username: user.Username, Admin: admin}, nil
}

// CurrentActor returns the authenticated actor or nil for anonymous requests.
func CurrentActor(ctx *gin.Context) *services.Actor {
	v, ok := ctx.Get(ContextActorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*services.Actor)
	return actor
}

// RespondUnauthenticated answers 401 with the login location, the API form of a
// redirect to the login page.
func RespondUnauthenticated(ctx *gin.Context, code int, message string) {
	loginURL := LoginPath + "?next=" + url.QueryEscape(ctx.Request.URL.RequestURI())
	ctx.Header("Location", loginURL)
	utils.ErrorWithData(ctx, http.StatusUnauthorized, code, message, gin.H{"login_url": loginURL})
}

func bearerToken(ctx *gin.Context) (string, bool) {
	parts := strings.SplitN(ctx.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
