package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/groupfeed/middleware"
	"github.com/cppla/groupfeed/utils"
)

// CacheController exposes manual invalidation of cached feed pages.
type CacheController struct {
	cache utils.PageCache
}

func NewCacheController(cache utils.PageCache) *CacheController {
	return &CacheController{cache: cache}
}

// Clear drops every cached page. Nothing else invalidates the feed cache.
func (c *CacheController) Clear(ctx *gin.Context) {
	n, err := c.cache.Clear(ctx.Request.Context(), utils.PageCachePrefix)
	if err != nil {
		utils.Logger.Error("page cache clear failed", zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to clear cache")
		return
	}
	actor := middleware.CurrentActor(ctx)
	utils.Logger.Info("page cache cleared", zap.Int("entries", n), zap.String("by", actor.Username))
	utils.Success(ctx, gin.H{"cleared": n})
}
