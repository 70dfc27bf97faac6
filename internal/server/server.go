package server

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"openhms/api/internal/config"
	"openhms/api/internal/handler"
	"openhms/api/internal/middleware"
	"openhms/api/internal/model"
	"openhms/api/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	config    *config.Config
	db        *gorm.DB
	redis     *redis.Client
	nats      *nats.Conn
	eventHub  *handler.EventHub
	wsHandler *handler.WSHandler
	sweeper   *service.ExpirySweeper
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, natsConn *nats.Conn) *Server {
	return &Server{
		config: cfg,
		db:     db,
		redis:  redisClient,
		nats:   natsConn,
	}
}

// Setup initializes services, handlers and routes
func (s *Server) Setup() {
	s.eventHub = handler.NewEventHub(s.nats)
	s.wsHandler = handler.NewWSHandler(s.eventHub)

	notifier := service.NewNotifier(s.nats)

	authService := service.NewAuthService(s.db)
	hoardingService := service.NewHoardingService(s.db)
	bookingService := service.NewBookingService(s.db, s.redis, notifier)
	rewardService := service.NewRewardService(s.db)
	complaintService := service.NewComplaintService(s.db, rewardService, notifier)
	collectionService := service.NewCollectionService(s.db, notifier)
	statsService := service.NewStatsService(s.db, s.redis)
	reportService := service.NewReportService(s.db)
	qrService := service.NewQRCodeService()

	s.sweeper = service.NewExpirySweeper(s.db, notifier, s.config.SweepInterval)

	authHandler := handler.NewAuthHandler(authService, s.config)
	hoardingHandler := handler.NewHoardingHandler(hoardingService)
	bookingHandler := handler.NewBookingHandler(bookingService, qrService)
	complaintHandler := handler.NewComplaintHandler(complaintService)
	collectionHandler := handler.NewCollectionHandler(collectionService)
	rewardHandler := handler.NewRewardHandler(rewardService)
	pmcHandler := handler.NewPMCHandler(bookingService, complaintService, collectionService, statsService, reportService)
	uploadHandler := handler.NewUploadHandler(s.config.UploadDir)

	go s.eventHub.Run()
	log.Println("[Server] WebSocket hub started")

	s.router = gin.Default()

	// CORS middleware
	s.router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Swagger UI
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// WebSocket routes
	s.router.GET("/ws/events", s.wsHandler.HandleEvents)
	s.router.GET("/ws/stats", s.wsHandler.GetStats)

	// Served upload files
	s.router.Static("/uploads", s.config.UploadDir)

	var limiter *middleware.RedisRateLimiter
	if s.redis != nil && s.config.RateLimit.Enabled {
		limiter = middleware.NewRedisRateLimiter(s.redis)
	}
	limit := func(path string) gin.HandlerFunc {
		if limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule := s.config.GetRateLimitRuleForPath(path)
		return middleware.RateLimitMiddleware(limiter, rule.ToMiddlewareConfig())
	}

	// Public routes
	s.router.POST("/api/v1/auth/signup", authHandler.Signup)
	s.router.POST("/api/v1/auth/login", limit("/api/v1/auth/login"), authHandler.Login)
	s.router.GET("/api/v1/hoardings", hoardingHandler.List)
	s.router.GET("/api/v1/hoardings/available", hoardingHandler.ListAvailable)
	s.router.GET("/api/v1/hoardings/nearby", hoardingHandler.Nearby)
	s.router.GET("/api/v1/hoardings/:id", hoardingHandler.Get)
	s.router.GET("/api/v1/qr/bookings/:booking_id", bookingHandler.LookupQR)

	// Protected routes
	api := s.router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(s.db, s.config.JWTSecret))
	{
		api.GET("/auth/me", authHandler.GetMe)
		api.PUT("/auth/profile", authHandler.UpdateProfile)
		api.POST("/uploads", uploadHandler.Upload)
		api.GET("/rewards/my", rewardHandler.GetMine)

		// Citizen routes
		public := api.Group("/public")
		public.Use(middleware.RequireRole(model.RolePublic))
		{
			public.POST("/complaints", limit("/api/v1/public/complaints"), complaintHandler.Create)
			public.GET("/complaints/my", complaintHandler.ListMine)
			public.GET("/complaints/:id", complaintHandler.Get)
		}

		// Printing press routes
		bookings := api.Group("/bookings")
		bookings.Use(middleware.RequireRole(model.RolePrintingPress))
		{
			bookings.POST("", bookingHandler.Create)
			bookings.GET("/my", bookingHandler.ListMine)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.GET("/:id/qr-code", bookingHandler.GetQRCode)
			bookings.DELETE("/:id", bookingHandler.Cancel)
		}

		// PMC routes
		pmc := api.Group("/pmc")
		pmc.Use(middleware.RequireRole(model.RolePMC))
		{
			pmc.POST("/hoardings", hoardingHandler.Create)
			pmc.PUT("/hoardings/:id", hoardingHandler.Update)
			pmc.DELETE("/hoardings/:id", hoardingHandler.Delete)

			pmc.GET("/bookings", pmcHandler.ListBookings)
			pmc.GET("/bookings/pending", pmcHandler.ListPendingBookings)
			pmc.PUT("/bookings/:id/approve", pmcHandler.ApproveBooking)
			pmc.PUT("/bookings/:id/reject", pmcHandler.RejectBooking)

			pmc.GET("/complaints", pmcHandler.ListComplaints)
			pmc.PUT("/complaints/:id/in-progress", pmcHandler.MarkComplaintInProgress)
			pmc.PUT("/complaints/:id/resolve", pmcHandler.ResolveComplaint)
			pmc.PUT("/complaints/:id/reject", pmcHandler.RejectComplaint)

			pmc.GET("/collections/pending", pmcHandler.ListPendingCollections)
			pmc.PUT("/collections/:id/verify", pmcHandler.VerifyCollection)
			pmc.PUT("/collections/:id/reject", pmcHandler.RejectCollection)

			pmc.PUT("/officers/:id/verify", authHandler.VerifyOfficer)

			pmc.GET("/stats/overview", pmcHandler.StatsOverview)
			pmc.GET("/reports/bookings", pmcHandler.ExportBookings)
		}

		// Recycler routes
		recycler := api.Group("/recycler")
		recycler.Use(middleware.RequireRole(model.RoleRecycler))
		{
			recycler.GET("/bookings/awaiting", collectionHandler.ListAwaiting)
			recycler.POST("/collections", collectionHandler.Submit)
			recycler.GET("/collections/my", collectionHandler.ListMine)
			recycler.GET("/collections/:id", collectionHandler.Get)
		}
	}
}

// StartBackground starts the expiry sweeper
func (s *Server) StartBackground() error {
	return s.sweeper.Start()
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	log.Printf("[Server] HTTP server listening on %s", addr)
	return s.router.Run(addr)
}

// GetRouter returns the gin router for testing
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Shutdown gracefully stops background components
func (s *Server) Shutdown() {
	if s.sweeper != nil {
		s.sweeper.Stop()
		log.Println("[Server] Expiry sweeper stopped")
	}
	if s.eventHub != nil {
		s.eventHub.Stop()
		log.Println("[Server] WebSocket hub stopped")
	}
}
