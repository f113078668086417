package main

import (
	"net/http"

	_ "ecopark/api/swagger" // swagger docs
	"ecopark/internal/auth"
	"ecopark/internal/config"
	"ecopark/internal/handler"
	"ecopark/internal/middleware"
	"ecopark/internal/model"
	"ecopark/internal/notify"
	"ecopark/internal/repository"
	"ecopark/internal/service"
	"ecopark/internal/session"
	"ecopark/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type routerDeps struct {
	cfg       *config.Config
	db        *gorm.DB
	tokens    *auth.TokenManager
	sessions  session.Store
	publisher notify.Publisher
	hub       *websocket.Hub
	rdb       *redis.Client
}

func newRouter(d routerDeps) (*gin.Engine, error) {
	if d.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(d.db)
	requestRepo := repository.NewFundingRequestRepository(d.db)
	auditRepo := repository.NewAuditRepository(d.db)
	donationRepo := repository.NewDonationRepository(d.db)
	statisticsRepo := repository.NewStatisticsRepository(d.db)
	tourRepo := repository.NewTourRepository(d.db)
	applicationRepo := repository.NewServiceApplicationRepository(d.db)
	txManager := repository.NewTransactionManager(d.db)

	userService := service.NewUserService(userRepo, auditRepo, d.tokens, d.sessions)
	requestService := service.NewFundingRequestService(requestRepo, auditRepo, txManager, d.publisher)
	auditService := service.NewAuditService(auditRepo)
	donationService := service.NewDonationService(donationRepo, auditRepo, txManager)
	statisticsService := service.NewStatisticsService(statisticsRepo)
	tourService := service.NewTourService(tourRepo, auditRepo, txManager)
	applicationService := service.NewServiceApplicationService(applicationRepo, auditRepo, txManager)
	loginActivityService := service.NewLoginActivityService(auditRepo)

	userHandler := handler.NewUserHandler(userService, d.cfg.IsProduction())
	auditHandler := handler.NewAuditHandler(auditService)
	donationHandler := handler.NewDonationHandler(donationService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)
	tourHandler := handler.NewTourHandler(tourService)
	applicationHandler := handler.NewServiceApplicationHandler(applicationService)
	loginActivityHandler := handler.NewLoginActivityHandler(loginActivityService)

	limiter, err := middleware.NewLimiter(d.cfg.RateLimit, d.rdb)
	if err != nil {
		return nil, err
	}
	rateLimit := middleware.RateLimit(limiter)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = d.cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(d.hub, c, d.tokens, d.sessions)
	})

	public := router.Group("")
	userHandler.RegisterPublicRoutes(public, rateLimit)
	donationHandler.RegisterPublicRoutes(public, rateLimit)
	tourHandler.RegisterPublicRoutes(public, rateLimit)
	applicationHandler.RegisterPublicRoutes(public, rateLimit)

	protected := router.Group("", middleware.Authenticate(d.tokens, d.sessions))
	userHandler.RegisterRoutes(protected)
	auditHandler.RegisterRoutes(protected)
	donationHandler.RegisterRoutes(protected)
	statisticsHandler.RegisterRoutes(protected)
	tourHandler.RegisterRoutes(protected)
	applicationHandler.RegisterRoutes(protected)
	loginActivityHandler.RegisterRoutes(protected)
	for _, kind := range model.Kinds {
		handler.NewFundingRequestHandler(kind, requestService).RegisterRoutes(protected)
	}

	return router, nil
}
