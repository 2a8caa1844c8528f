package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hel-repo/hel/handlers"
	"github.com/hel-repo/hel/internal/auth"
	"github.com/hel-repo/hel/internal/config"
	"github.com/hel-repo/hel/internal/database"
	"github.com/hel-repo/hel/internal/packages"
	"github.com/hel-repo/hel/internal/resources"
	"github.com/hel-repo/hel/internal/sessions"
	"github.com/hel-repo/hel/internal/users"
	"github.com/hel-repo/hel/pkg/logger"
	"github.com/hel-repo/hel/pkg/metrics"
	"github.com/hel-repo/hel/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v store_side_search=%v", cfg.MongoDB.URI != "", cfg.Redis.Addr() != "", cfg.Search.StoreSide)

	ctx := context.Background()
	r := gin.New()

	// Global middlewares: logging + recovery, then CORS and request ids
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS(), middleware.RequestID())

	// Connect to Redis early so the rate-limiter and sessions can use it when configured
	var redisClient *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err == nil {
			redisClient = client
			logger.Infof("connected to Redis: %s", addr)
		} else {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		}
	}

	// MongoDB with retry/backoff to tolerate startup races; memory stores otherwise
	cols := database.MemoryCollections()
	mongoReady := cfg.MongoDB.URI == ""
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var client *mongo.Client
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v; using in-memory stores", maxAttempts, errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			mc, err := database.MongoCollections(ctx, client.Database(cfg.MongoDB.Database))
			if err != nil {
				logger.Fatalf("failed to prepare MongoDB collections: %v", err)
			}
			cols = mc
			mongoReady = true
		}
	} else {
		logger.Warnf("MONGODB_URI not set; using in-memory stores")
	}

	// Prefer Redis-based sessions when available (fast, expiring)
	var sessionRepo sessions.Repository = sessions.NewCollectionRepository(cols.Sessions)
	if redisClient != nil {
		sessionRepo = sessions.NewRedisRepository(redisClient, "session:")
		logger.Infof("using Redis for session storage")
	}

	tree := resources.NewTree(cols.Packages, cols.Users)
	userSvc := users.NewService(users.NewCollectionRepository(cols.Users), users.Activation{Length: cfg.Activation.Length, TTL: cfg.Activation.Time})
	sessionsSvc := sessions.NewService(sessionRepo)
	authSvc := auth.NewService(cfg, userSvc, sessionsSvc, tree)
	pkgSvc := packages.NewService(cols.Packages, cfg.Search.StoreSide)

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint: 200 only when the configured stores are reachable
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"mongo": mongoReady,
			"redis": !cfg.RateLimit.UseRedis || redisClient != nil,
		}
		ready := true
		for _, ok := range deps {
			ready = ready && ok
		}
		uptime := time.Since(startTime).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})

	handlers.RegisterSwagger(r)
	handlers.RegisterRoutes(r, cfg, handlers.Services{
		Auth:     authSvc,
		Users:    userSvc,
		Packages: pkgSvc,
		Tree:     tree,
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logger.Infof("starting hel on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server failed: %v", err)
	}
}
