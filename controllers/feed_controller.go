package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/groupfeed/middleware"
	"github.com/cppla/groupfeed/services"
	"github.com/cppla/groupfeed/utils"
)

// FeedController serves the four post feeds.
type FeedController struct {
	feed *services.FeedService
}

func NewFeedController(feed *services.FeedService) *FeedController {
	return &FeedController{feed: feed}
}

// Index returns the global feed. The route is wrapped by the page cache.
func (f *FeedController) Index(ctx *gin.Context) {
	page, err := f.feed.GlobalFeed(ctx.Request.Context(), services.ParsePage(ctx.Query("page")))
	if err != nil {
		respondError(ctx, err, 40400, 50010)
		return
	}
	utils.Success(ctx, gin.H{
		"title":      "Latest updates",
		"items":      page.Posts,
		"pagination": page.Meta,
	})
}

// GroupPosts returns the feed of one group by slug.
func (f *FeedController) GroupPosts(ctx *gin.Context) {
	group, page, err := f.feed.GroupFeed(ctx.Request.Context(), ctx.Param("slug"), services.ParsePage(ctx.Query("page")))
	if err != nil {
		respondError(ctx, err, 40401, 50011)
		return
	}
	utils.Success(ctx, gin.H{
		"title":      "Posts of group " + group.Title,
		"group":      group,
		"items":      page.Posts,
		"pagination": page.Meta,
	})
}

// Profile returns an author's posts and whether the requester follows them.
func (f *FeedController) Profile(ctx *gin.Context) {
	pf, err := f.feed.ProfileFeed(ctx.Request.Context(), ctx.Param("username"),
		middleware.CurrentActor(ctx), services.ParsePage(ctx.Query("page")))
	if err != nil {
		respondError(ctx, err, 40402, 50012)
		return
	}
	utils.Success(ctx, gin.H{
		"title":      "Profile of " + pf.Author.DisplayName(),
		"author":     pf.Author,
		"following":  pf.IsFollowing,
		"items":      pf.Page.Posts,
		"pagination": pf.Page.Meta,
	})
}

// FollowIndex returns posts by authors the requester follows.
func (f *FeedController) FollowIndex(ctx *gin.Context) {
	page, err := f.feed.FollowFeed(ctx.Request.Context(), middleware.CurrentActor(ctx), services.ParsePage(ctx.Query("page")))
	if err != nil {
		respondError(ctx, err, 40400, 50013)
		return
	}
	utils.Success(ctx, gin.H{
		"title":      "Posts by followed authors",
		"items":      page.Posts,
		"pagination": page.Meta,
	})
}
