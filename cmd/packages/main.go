// Command packages runs the packages API alone, without accounts. All
// package writes are performed with system rights, so it is meant for local
// mirrors and development. Without MONGODB_URI it serves the demo packages
// from memory.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/database"
	"github.com/hel-repo/hel/internal/document/repository"
	"github.com/hel-repo/hel/internal/packages"
	"github.com/hel-repo/hel/internal/samples"
	"github.com/hel-repo/hel/pkg/logger"
	"github.com/hel-repo/hel/pkg/middleware"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	port := os.Getenv("PACKAGES_SERVICE_PORT")
	if port == "" {
		port = "6544"
	}

	ctx := context.Background()
	var col repository.Collection
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		// attempt a connection with a short timeout; fall back to memory on failure
		client, err := database.ConnectMongo(ctx, uri, 10*time.Second)
		if err != nil {
			logger.Warnf("cannot connect to MongoDB (%v); using memory-backed store", err)
		} else {
			dbName := os.Getenv("MONGODB_DATABASE")
			if dbName == "" {
				dbName = "hel"
			}
			cols, err := database.MongoCollections(ctx, client.Database(dbName))
			if err != nil {
				logger.Fatalf("failed to prepare MongoDB collections: %v", err)
			}
			col = cols.Packages
		}
	}
	seed := col == nil
	if seed {
		col = database.MemoryCollections().Packages
	}

	svc := packages.NewService(col, true)
	if seed {
		for _, p := range samples.Packages() {
			if _, err := svc.Create(ctx, p, ""); err != nil {
				logger.Fatalf("failed to seed %v: %v", p["name"], err)
			}
		}
		logger.Infof("seeded %d demo packages", len(samples.Packages()))
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(), middleware.RequestID())
	registerRoutes(r, svc)

	logger.Infof("packages service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

func registerRoutes(r *gin.Engine, svc *packages.Service) {
	r.GET("/packages", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), searchParams(c))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": len(list), "list": list})
	})
	r.POST("/packages", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			middleware.AbortWithError(c, apperr.BadRequest())
			return
		}
		if _, err := svc.Create(c.Request.Context(), body, ""); err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})
	r.GET("/packages/:name", func(c *gin.Context) {
		d, err := svc.Get(c.Request.Context(), c.Param("name"))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	})
	r.PATCH("/packages/:name", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			middleware.AbortWithError(c, apperr.BadRequest())
			return
		}
		if err := svc.Update(c.Request.Context(), c.Param("name"), body); err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.DELETE("/packages/:name", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("name")); err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func searchParams(c *gin.Context) map[string][]string {
	q := c.Request.URL.Query()
	delete(q, "offset")
	return q
}
