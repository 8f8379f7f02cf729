package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"devconnect/internal/github"
	"devconnect/internal/service"
)

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RepoLister fetches a GitHub user's latest repositories.
type RepoLister interface {
	Repos(ctx context.Context, username string) ([]github.Repo, error)
}

// Options carries the collaborators and settings of the API surface.
type Options struct {
	Users    service.UserService
	Profiles service.ProfileService
	Posts    service.PostService
	Tokens   TokenVerifier
	Github   RepoLister
	Logger   *logrus.Logger

	// APIPrefix is the path every API route is mounted under.
	APIPrefix string
	// MaxAvatarBytes bounds the multipart avatar upload.
	MaxAvatarBytes int64
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	profiles service.ProfileService
	posts    service.PostService
	tokens   TokenVerifier
	github   RepoLister
	logger   *logrus.Logger
	metrics  *metrics

	prefix         string
	maxAvatarBytes int64
}

func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}
	if opts.MaxAvatarBytes <= 0 {
		opts.MaxAvatarBytes = 2 << 20
	}
	return &Handler{
		users:          opts.Users,
		profiles:       opts.Profiles,
		posts:          opts.Posts,
		tokens:         opts.Tokens,
		github:         opts.Github,
		logger:         opts.Logger,
		metrics:        newMetrics(),
		prefix:         opts.APIPrefix,
		maxAvatarBytes: opts.MaxAvatarBytes,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), h.requestLogger(), h.metrics.middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.metrics.registry, promhttp.HandlerOpts{})))

	api := router.Group(h.prefix)
	{
		api.POST("/users", h.register)
		api.POST("/auth/signin", h.login)
		api.GET("/profile", h.listProfiles)
		api.GET("/profile/user/:userId", h.profileByUser)
		api.GET("/profile/github/:username", h.githubRepos)
	}

	protected := api.Group("")
	protected.Use(h.requireAuth())
	{
		protected.GET("/auth", h.currentUser)
		protected.PUT("/users/avatar", h.uploadAvatar)

		protected.GET("/profile/me", h.myProfile)
		protected.POST("/profile", h.upsertProfile)
		protected.DELETE("/profile", h.deleteAccount)
		protected.PUT("/profile/experience", h.addExperience)
		protected.DELETE("/profile/experience/:id", h.deleteExperience)
		protected.PUT("/profile/education", h.addEducation)
		protected.DELETE("/profile/education/:id", h.deleteEducation)

		protected.GET("/posts", h.listPosts)
		protected.GET("/posts/:id", h.getPost)
		protected.POST("/posts", h.createPost)
		protected.DELETE("/posts/:id", h.deletePost)
		protected.PUT("/posts/like/:id", h.likePost)
		protected.PUT("/posts/unlike/:id", h.unlikePost)
		protected.POST("/posts/comment/:id", h.addComment)
		protected.DELETE("/posts/comment/:id/:commentId", h.deleteComment)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, x-auth-token")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "x-auth-token")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
