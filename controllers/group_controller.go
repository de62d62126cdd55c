package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/groupfeed/services"
	"github.com/cppla/groupfeed/utils"
)

// GroupController lists groups and lets admins manage them.
type GroupController struct {
	groups *services.GroupService
}

func NewGroupController(groups *services.GroupService) *GroupController {
	return &GroupController{groups: groups}
}

func (g *GroupController) ListGroups(ctx *gin.Context) {
	groups, err := g.groups.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, 40400, 50040)
		return
	}
	utils.Success(ctx, gin.H{"items": groups})
}

func (g *GroupController) CreateGroup(ctx *gin.Context) {
	var form services.GroupForm
	if !bindJSON(ctx, &form) {
		return
	}
	group, err := g.groups.Create(ctx.Request.Context(), form)
	if err != nil {
		respondError(ctx, err, 40400, 50041)
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// DeleteGroup removes a group; its posts stay without one.
func (g *GroupController) DeleteGroup(ctx *gin.Context) {
	if err := g.groups.Delete(ctx.Request.Context(), ctx.Param("slug")); err != nil {
		respondError(ctx, err, 40409, 50042)
		return
	}
	utils.Success(ctx, gin.H{"message": "group deleted"})
}
