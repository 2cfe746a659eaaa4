package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ledgerdesk/config"
	"ledgerdesk/internal/handler"
	"ledgerdesk/internal/middleware"
	"ledgerdesk/internal/repository"
	"ledgerdesk/internal/service"
	"ledgerdesk/internal/ws"
)

func Setup(cfg *config.Config, db *gorm.DB, log *logrus.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)))

	// Repositories
	clientRepo := repository.NewClientRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	uow := repository.NewUnitOfWork(db)

	dashboardHub := ws.NewDashboardHub()

	// Services
	authSvc := service.NewAuthService(cfg, adminRepo, log)
	transactionSvc := service.NewTransactionService(uow, clientRepo, transactionRepo, cfg.Ledger.AllowNegativeBalance, log)
	transactionSvc.SetNotifier(dashboardHub)
	clientSvc := service.NewClientService(clientRepo, transactionSvc, log)
	statsSvc := service.NewStatisticsService(statsRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	clientHandler := handler.NewClientHandler(clientSvc, transactionSvc)
	transactionHandler := handler.NewTransactionHandler(transactionSvc)
	statsHandler := handler.NewStatisticsHandler(statsSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, adminMw, authHandler.ChangePassword)
		}

		clients := api.Group("/clients", authMw, adminMw)
		{
			clients.GET("", clientHandler.List)
			clients.POST("", clientHandler.Create)
			clients.GET("/:id", clientHandler.Get)
			clients.PATCH("/:id", clientHandler.Update)
			clients.DELETE("/:id", clientHandler.Delete)
			clients.GET("/:id/transactions", clientHandler.Transactions)
			clients.GET("/:id/balance-history", clientHandler.BalanceHistory)
		}

		api.POST("/transactions", authMw, adminMw, transactionHandler.Create)
		api.GET("/statistics", authMw, adminMw, statsHandler.Overview)

		api.GET("/ws/dashboard", ws.UpgradeDashboardWS(&cfg.JWT, dashboardHub))
	}

	return r
}
