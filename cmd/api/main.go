package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"leadflow/internal/config"
	"leadflow/internal/database"
	"leadflow/internal/middleware"
	"leadflow/internal/modules/auth"
	"leadflow/internal/modules/events"
	"leadflow/internal/modules/lead"
	jwtsvc "leadflow/internal/pkg/jwt"
	"leadflow/internal/pkg/logger"
	"leadflow/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := events.NewHub()
	defer hub.Close()
	notifier := events.NewNotifier(hub)
	eventsHandler := events.NewHandler(hub, j, zlog)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	leadService := lead.NewService(leadRepo, notifier, zlog)
	leadHandler := lead.NewHandler(leadService)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public; the websocket endpoint authenticates via query token
		authHandler.RegisterPublicRoutes(v1)
		eventsHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			leadHandler.RegisterRoutes(protected)
		}
	}

	zlog.Info("listening", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
