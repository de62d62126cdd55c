package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/groupfeed/middleware"
	"github.com/cppla/groupfeed/services"
	"github.com/cppla/groupfeed/utils"
)

// FollowController toggles subscriptions.
type FollowController struct {
	follows *services.FollowService
}

func NewFollowController(follows *services.FollowService) *FollowController {
	return &FollowController{follows: follows}
}

// Follow subscribes the requester to :username. Self and repeat follows succeed without effect.
func (f *FollowController) Follow(ctx *gin.Context) {
	username := ctx.Param("username")
	if err := f.follows.Follow(ctx.Request.Context(), middleware.CurrentActor(ctx), username); err != nil {
		respondError(ctx, err, 40403, 50030)
		return
	}
	utils.Success(ctx, gin.H{"author": username, "next": "/api/v1/follow"})
}

// Unfollow removes the subscription if it exists.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	username := ctx.Param("username")
	if err := f.follows.Unfollow(ctx.Request.Context(), middleware.CurrentActor(ctx), username); err != nil {
		respondError(ctx, err, 40403, 50031)
		return
	}
	utils.Success(ctx, gin.H{"author": username, "next": "/api/v1/follow"})
}

// ListFollowing returns the authors the requester follows.
func (f *FollowController) ListFollowing(ctx *gin.Context) {
	page, err := f.follows.ListFollowing(ctx.Request.Context(), middleware.CurrentActor(ctx), services.ParsePage(ctx.Query("page")))
	if err != nil {
		respondError(ctx, err, 40400, 50032)
		return
	}
	utils.Success(ctx, page)
}
