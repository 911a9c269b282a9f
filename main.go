package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AndreyPae/storefront/auth"
	"github.com/AndreyPae/storefront/config"
	"github.com/AndreyPae/storefront/events"
	"github.com/AndreyPae/storefront/logger"
	"github.com/AndreyPae/storefront/middleware"
	"github.com/AndreyPae/storefront/routes"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	log, err := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("setup logger")
	}
	log.Info("starting storefront")

	db := initDatabase(cfg, log)
	if err := store.Migrate(db); err != nil {
		log.WithError(err).Fatal("auto-migrate failed")
	}
	s := store.NewGormStore(db)

	if cfg.SuperuserUsername != "" {
		created, err := auth.EnsureSuperuser(context.Background(), s, cfg.SuperuserUsername, cfg.SuperuserEmail, cfg.SuperuserPassword)
		if err != nil {
			log.WithError(err).Fatal("ensure superuser")
		}
		if created {
			log.WithField("username", cfg.SuperuserUsername).Info("superuser created")
		}
	}

	hub := events.NewHub()
	publishers := events.Multi{hub}
	var amqpPub *events.AMQPPublisher
	if cfg.RabbitMQURL != "" {
		amqpPub, err = events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.OrderExchange)
		if err != nil {
			log.WithError(err).Fatal("connect to RabbitMQ")
		}
		publishers = append(publishers, amqpPub)
		log.WithField("exchange", cfg.OrderExchange).Info("publishing order events to RabbitMQ")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.Prometheus())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: !containsWildcard(cfg.Origins()),
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", health(db))

	routes.SetupRoutes(r, routes.Deps{
		Store:        s,
		Sessions:     auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL),
		Publisher:    publishers,
		Hub:          hub,
		SecureCookie: cfg.SecureCookie,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}

	hub.Close()
	if amqpPub != nil {
		if err := amqpPub.Close(); err != nil {
			log.WithError(err).Warn("close RabbitMQ connection")
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("stopped")
}

// initDatabase opens the Postgres pool. Unique violations surface as
// gorm.ErrDuplicatedKey.
func initDatabase(cfg *config.Config, log *logrus.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.WithError(err).Fatal("DB connection failed")
	}
	return db
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
