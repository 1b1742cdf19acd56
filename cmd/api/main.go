package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"homeclean/internal/config"
	"homeclean/internal/database"
	"homeclean/internal/middleware"
	"homeclean/internal/modules/auth"
	"homeclean/internal/modules/property"
	"homeclean/internal/modules/quote"
	jwtsvc "homeclean/internal/pkg/jwt"
	"homeclean/internal/pkg/response"
	"homeclean/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.Disconnect(); err != nil {
			log.Printf("db close: %v", err)
		}
	}()

	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.SessionTTL)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService, cfg.CookieName, cfg.CookieSecure, cfg.CookieSameSite, cfg.CookiePath, cfg.SessionTTL)

	quoteService := quote.NewService(quoteRepo)
	quoteHandler := quote.NewHandler(quoteService)

	propertyService := property.NewService(propertyRepo)
	propertyHandler := property.NewHandler(propertyService)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), middleware.RequestID(), middleware.CORS(), middleware.ErrorLogger())

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/db", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public; an existing session is picked up when present so owners
		// can edit drafts without re-presenting the key
		public := v1.Group("")
		public.Use(middleware.OptionalSessionAuth(j, cfg.CookieName))
		{
			authHandler.RegisterPublicRoutes(public)
			quoteHandler.RegisterPublicRoutes(public)
		}

		protected := v1.Group("")
		protected.Use(middleware.SessionAuth(j, cfg.CookieName))
		{
			authHandler.RegisterProtectedRoutes(protected)
			quoteHandler.RegisterProtectedRoutes(protected)
			propertyHandler.RegisterProtectedRoutes(protected)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
