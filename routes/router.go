package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/groupfeed/config"
	"github.com/cppla/groupfeed/controllers"
	"github.com/cppla/groupfeed/middleware"
	"github.com/cppla/groupfeed/repositories"
	"github.com/cppla/groupfeed/services"
	"github.com/cppla/groupfeed/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, db *gorm.DB, cache utils.PageCache) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file
	r.Use(utils.RequestID())
	gl, err := utils.NewRollingFileLogger(cfg, cfg.GinPath)
	if err == nil {
		r.Use(ginzap.GinzapWithConfig(gl, &ginzap.Config{
			TimeFormat: time.RFC3339,
			UTC:        true,
			Context:    utils.RequestIDField,
		}))
		r.Use(ginzap.CustomRecoveryWithZap(gl, false, utils.RecoveryResponse))
	} else {
		r.Use(gin.CustomRecovery(utils.RecoveryResponse))
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", utils.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Location", middleware.CacheStatusHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	users := repositories.NewUserRepository(db)
	groups := repositories.NewGroupRepository(db)
	posts := repositories.NewPostRepository(db)
	comments := repositories.NewCommentRepository(db)
	follows := repositories.NewFollowRepository(db)

	blacklist := utils.NewTokenBlacklist(cache)
	auth := middleware.NewAuthenticator(cfg.JWTSecret, blacklist, users, cfg.AdminUsernames)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	if cfg.UploadDir != "" {
		r.Static("/media", cfg.UploadDir)
	}

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	feedController := controllers.NewFeedController(services.NewFeedService(posts, groups, users, follows, cfg.PostsPerPage))
	followController := controllers.NewFollowController(services.NewFollowService(users, follows, cfg.PostsPerPage))
	postController := controllers.NewPostController(services.NewPostService(posts, comments, groups), cfg.UploadDir)
	groupController := controllers.NewGroupController(services.NewGroupService(groups))
	authController := controllers.NewAuthController(services.NewAccountService(users), cfg.JWTSecret, blacklist)
	cacheController := controllers.NewCacheController(cache)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(limiter.Middleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", auth.Required(), authController.Logout)
	authGroup.GET("/me", auth.Required(), authController.Me)
	authGroup.DELETE("/me", auth.Required(), authController.DeleteAccount)

	// Only the global feed is page cached; writes never invalidate it.
	// It does not depend on the requester, so it skips token resolution.
	feedTTL := time.Duration(cfg.FeedCacheSeconds) * time.Second
	api.GET("/posts", middleware.CachePage(cache, feedTTL), feedController.Index)
	api.GET("/group/:slug", feedController.GroupPosts)
	api.GET("/groups", groupController.ListGroups)

	viewer := api.Group("")
	viewer.Use(auth.Optional())
	viewer.GET("/posts/:id", postController.GetPost)
	viewer.GET("/profile/:username", feedController.Profile)

	protected := api.Group("")
	protected.Use(auth.Required())
	protected.GET("/follow", feedController.FollowIndex)
	protected.GET("/following", followController.ListFollowing)

	writes := protected.Group("")
	writes.Use(limiter.Middleware())
	writes.POST("/profile/:username/follow", followController.Follow)
	writes.POST("/profile/:username/unfollow", followController.Unfollow)
	writes.POST("/posts", postController.CreatePost)
	writes.PUT("/posts/:id", postController.UpdatePost)
	writes.DELETE("/posts/:id", postController.DeletePost)
	writes.POST("/posts/:id/comments", postController.CreateComment)
	writes.POST("/upload", postController.UploadImage)

	admin := protected.Group("/admin")
	admin.Use(auth.AdminRequired())
	admin.POST("/groups", groupController.CreateGroup)
	admin.DELETE("/groups/:slug", groupController.DeleteGroup)
	admin.POST("/cache/clear", cacheController.Clear)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/media/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "media not found"})
			return
		}
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
