package router

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/client"
	"github.com/vuongngo/reactive-forum-api/internal/config"
	"github.com/vuongngo/reactive-forum-api/internal/handler"
	"github.com/vuongngo/reactive-forum-api/internal/metrics"
	"github.com/vuongngo/reactive-forum-api/internal/middleware"
	"github.com/vuongngo/reactive-forum-api/internal/notify"
	"github.com/vuongngo/reactive-forum-api/internal/repository"
	"github.com/vuongngo/reactive-forum-api/internal/security"
	"github.com/vuongngo/reactive-forum-api/internal/service"
)

// Config holds the dependencies the router wires into handlers
type Config struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	BasePath string

	JWT         config.JWTConfig
	Auth        config.AuthConfig
	CORSOrigins []string

	// Gatherer backs /metrics; nil means the default registry
	Gatherer prometheus.Gatherer
	// RateLimiter is optional
	RateLimiter *middleware.RateLimiter
	// Sink receives thread events; nil drops them
	Sink notify.Sink
	// Hub serves /ws when set
	Hub *notify.Hub
	// S3Client is optional; presigning fails with 500 when it is nil
	S3Client client.S3ClientInterface
}

// Setup builds the gin engine with every route of the forum API
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Repositories
	store := repository.NewStore(cfg.DB)
	userRepo := store.Users()
	threadRepo := store.Threads()

	// Services
	sanitizer := security.NewContentSanitizer()
	tokens := service.NewTokenManager(cfg.JWT)
	credentialService := service.NewCredentialService(userRepo, threadRepo, service.NewPasswordHasher(), tokens, sanitizer, cfg.Auth, cfg.Metrics, cfg.Logger)
	topicService := service.NewTopicService(store.Topics(), cfg.Logger)
	threadService := service.NewThreadService(store, sanitizer, cfg.Sink, cfg.Metrics, cfg.Logger)
	uploadService := service.NewUploadService(cfg.S3Client, cfg.Logger)

	// Handlers
	authHandler := handler.NewAuthHandler(credentialService, cfg.Logger)
	userHandler := handler.NewUserHandler(credentialService, cfg.Logger)
	topicHandler := handler.NewTopicHandler(topicService, cfg.Logger)
	threadHandler := handler.NewThreadHandler(threadService, cfg.Logger)
	commentHandler := handler.NewCommentHandler(threadService, cfg.Logger)
	uploadHandler := handler.NewUploadHandler(uploadService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)

	metricsHandler := gin.WrapH(promhttp.Handler())
	if cfg.Gatherer != nil {
		metricsHandler = gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// Operations endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", metricsHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authorizer := middleware.NewAuthorizer(middleware.NewRepositoryResolver(threadRepo), cfg.Logger)
	require := authorizer.Require

	api := r.Group(cfg.BasePath)
	if cfg.BasePath != "" && cfg.BasePath != "/" {
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)
		api.GET("/metrics", metricsHandler)
	}

	// Anonymous callers are rate limited by IP, authenticated ones by user id
	public := api.Group("")
	authed := api.Group("")
	authed.Use(middleware.Auth(credentialService))
	if cfg.RateLimiter != nil {
		public.Use(cfg.RateLimiter.Middleware())
		authed.Use(cfg.RateLimiter.Middleware())
	}

	{
		public.POST("/signup", authHandler.SignUp)
		public.POST("/signin", authHandler.SignIn)
		authed.POST("/signout", authHandler.SignOut)
	}

	{
		public.GET("/users", userHandler.ListUsers)
		public.GET("/user/:userId", userHandler.GetUser)
		authed.PUT("/user/:userId", require("self"), userHandler.UpdateUser)
		authed.DELETE("/user/:userId", require("admin", "self"), userHandler.DeleteUser)
		authed.GET("/user/:userId/flag/:threadId", require("self"), userHandler.ToggleFlag)
	}

	{
		public.GET("/topics", topicHandler.ListTopics)
		public.GET("/topic/:id", topicHandler.GetTopic)
		authed.POST("/topic", require("admin"), topicHandler.CreateTopic)
		authed.POST("/topics", require("admin"), topicHandler.CreateTopics)
		authed.PUT("/topic/:id", require("admin"), topicHandler.UpdateTopic)
		authed.DELETE("/topic/:id", require("admin"), topicHandler.DeleteTopic)
	}

	{
		public.GET("/threads", threadHandler.ListThreads)
		public.GET("/thread/:threadId", threadHandler.GetThread)
		authed.GET("/thread/:threadId/like", threadHandler.LikeThread)
		authed.POST("/thread", threadHandler.CreateThread)
		authed.PUT("/thread/:threadId", require("admin", "owner"), threadHandler.UpdateThread)
		authed.DELETE("/thread/:threadId", require("admin", "owner"), threadHandler.DeleteThread)
	}

	{
		comment := "/thread/:threadId/comment/:commentId"
		reply := comment + "/reply/:replyId"

		authed.POST("/thread/:threadId/comment", commentHandler.CreateComment)
		authed.PUT(comment, require("admin", "commentOwner"), commentHandler.UpdateComment)
		authed.DELETE(comment, require("admin", "commentOwner"), commentHandler.DeleteComment)
		authed.GET(comment+"/like", commentHandler.LikeComment)

		authed.POST(comment+"/reply", commentHandler.CreateReply)
		authed.PUT(reply, require("admin", "replyOwner"), commentHandler.UpdateReply)
		authed.DELETE(reply, require("admin", "replyOwner"), commentHandler.DeleteReply)
		authed.GET(reply+"/like", commentHandler.LikeReply)
	}

	authed.POST("/uploads/presigned-url", uploadHandler.GeneratePresignedURL)

	if cfg.Hub != nil {
		wsHandler := handler.NewWSHandler(cfg.Hub, credentialService, cfg.Logger)
		public.GET("/ws", wsHandler.Subscribe)
	}

	return r
}
