package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumeapp/plume/config"
	"github.com/plumeapp/plume/controllers"
	"github.com/plumeapp/plume/middleware"
	"github.com/plumeapp/plume/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access and panic logs go to a rolling file instead of gin's console writer
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.RequestID())

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	likeController := controllers.NewLikeController(db)
	followController := controllers.NewFollowController(db)
	preferenceController := controllers.NewPreferenceController(db)
	feedController := controllers.NewFeedController(db)
	userController := controllers.NewUserController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	api.GET("/categories", postController.ListCategories)
	api.GET("/trending", feedController.Trending)
	api.GET("/recommendations", middleware.AuthRequired(), feedController.Recommendations)
	api.GET("/search", postController.SearchPosts)

	postsGroup := api.Group("/posts")
	postsGroup.GET("", postController.ListPosts)
	postsGroup.GET("/drafts", middleware.AuthRequired(), postController.ListDrafts)
	postsGroup.GET("/archived", middleware.AuthRequired(), postController.ListArchived)
	postsGroup.GET("/:id", middleware.AuthOptional(), postController.GetPost)
	postsGroup.POST("", middleware.AuthRequired(), postController.CreatePost)
	postsGroup.PUT("/:id", middleware.AuthRequired(), postController.UpdatePost)
	postsGroup.DELETE("/:id", middleware.AuthRequired(), postController.DeletePost)
	postsGroup.POST("/:id/publish", middleware.AuthRequired(), postController.PublishPost)
	postsGroup.POST("/:id/archive", middleware.AuthRequired(), postController.ArchivePost)
	postsGroup.GET("/:id/comments", middleware.AuthOptional(), commentController.ListComments)
	postsGroup.POST("/:id/comments", middleware.AuthRequired(), commentController.CreateComment)
	postsGroup.POST("/:id/like", middleware.AuthRequired(), likeController.TogglePostLike)
	postsGroup.GET("/:id/likes", middleware.AuthOptional(), likeController.PostLikeCount)

	commentsGroup := api.Group("/comments")
	commentsGroup.PUT("/:id", middleware.AuthRequired(), commentController.EditComment)
	commentsGroup.DELETE("/:id", middleware.AuthRequired(), commentController.DeleteComment)
	commentsGroup.GET("/:id/replies", middleware.AuthOptional(), commentController.ListReplies)
	commentsGroup.POST("/:id/like", middleware.AuthRequired(), likeController.ToggleCommentLike)
	commentsGroup.GET("/:id/likes", middleware.AuthOptional(), likeController.CommentLikeCount)

	usersGroup := api.Group("/users")
	usersGroup.GET("", userController.ListUsers)
	usersGroup.GET("/profile/:username", userController.GetUserProfile)
	usersGroup.POST("/:id/follow", middleware.AuthRequired(), followController.ToggleFollow)
	usersGroup.GET("/:id/follow-status", middleware.AuthRequired(), followController.CheckFollowStatus)
	usersGroup.GET("/:id/followers", followController.ListFollowers)
	usersGroup.GET("/:id/following", followController.ListFollowing)
	usersGroup.GET("/:id/follow-stats", followController.FollowStats)

	preferencesGroup := api.Group("/preferences")
	preferencesGroup.Use(middleware.AuthRequired())
	preferencesGroup.GET("", preferenceController.GetPreferences)
	preferencesGroup.PUT("", preferenceController.SetPreferences)
	preferencesGroup.POST("", preferenceController.AddPreference)
	preferencesGroup.DELETE("/:category", preferenceController.RemovePreference)

	return r
}
