package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/config"
	"github.com/quillhq/quill/controllers"
	"github.com/quillhq/quill/middleware"
	"github.com/quillhq/quill/store"
	"github.com/quillhq/quill/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(st *store.Store) *gin.Engine {
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
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinLogPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Image attachments are served straight from the media root.
	r.Static("/media", cfg.MediaRoot)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(st)
	postController := controllers.NewPostController(st)
	groupController := controllers.NewGroupController(st)
	userController := controllers.NewUserController(st)
	adminController := controllers.NewAdminController(st)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public reads
	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id", postController.GetPost)
	api.GET("/groups", groupController.ListGroups)
	api.GET("/groups/:slug/posts", groupController.GroupPosts)
	api.GET("/users/:username/posts", middleware.OptionalAuth(), userController.Profile)

	// Authenticated writes and the personalized feed
	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.POST("/posts/:id/comments", postController.CreateComment)
	protected.POST("/upload", postController.UploadImage)
	protected.GET("/feed", userController.Feed)
	protected.POST("/users/:username/follow", userController.Follow)
	protected.DELETE("/users/:username/follow", userController.Unfollow)
	protected.DELETE("/users/me", authController.DeleteMe)

	// Administrative paths
	protected.POST("/groups", groupController.CreateGroup)
	protected.DELETE("/groups/:slug", groupController.DeleteGroup)
	protected.POST("/admin/cache/clear", adminController.ClearCache)

	return r
}
