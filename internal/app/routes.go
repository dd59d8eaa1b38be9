package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	"github.com/athar-archive/core/internal/modules/auth"
	"github.com/athar-archive/core/internal/modules/content/audio"
	"github.com/athar-archive/core/internal/modules/content/author"
	"github.com/athar-archive/core/internal/modules/content/category"
	"github.com/athar-archive/core/internal/modules/content/contact"
	"github.com/athar-archive/core/internal/modules/content/post"
	"github.com/athar-archive/core/internal/modules/featured"
	"github.com/athar-archive/core/internal/modules/importer"
	"github.com/athar-archive/core/internal/modules/render"
	"github.com/athar-archive/core/internal/modules/storage/upload"
	pkgredis "github.com/athar-archive/core/internal/pkg/redis"
	"github.com/athar-archive/core/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(rc *pkgredis.Client, uploads *upload.Service) {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "athar-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/athar-archive/core",
	}

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw(), a.logger))
	r.Use(middleware.Idempotence(rc.Raw()))

	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(db))
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:       15 * time.Second,
		Disable:   !a.cfg.IsProduction(),
		SkipPaths: []string{apiPrefix + "/auth/*", apiPrefix + "/render/preview"},
	}))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	api.GET("/clean_cache", authMW, middleware.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), rc.Raw())
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.OK(c, gin.H{"deleted": deleted})
	})

	cron := api.Group("/cron", authMW, middleware.RequireRole(models.RoleAdmin))
	cron.GET("", func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	cron.POST("/:name/run", func(c *gin.Context) {
		if err := a.sched.Run(context.Background(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, gin.H{"triggered": c.Param("name")})
	})

	// Auth & users
	authSvc := auth.NewService(db)
	auth.NewHandler(authSvc).RegisterRoutes(api, authMW)
	auth.NewUsersHandler(authSvc).RegisterRoutes(api, authMW)

	// Content
	postSvc := post.NewService(db)
	post.NewHandler(postSvc).RegisterRoutes(api, authMW)
	category.NewHandler(category.NewService(db)).RegisterRoutes(api, authMW)
	author.NewHandler(author.NewService(db)).RegisterRoutes(api, authMW)
	audio.NewHandler(audio.NewService(db)).RegisterRoutes(api, authMW)
	contact.NewHandler(contact.NewService(db)).RegisterRoutes(api, authMW)

	// Editors' picks
	featured.NewHandler(featured.NewService(db)).RegisterRoutes(api, authMW)

	// Rendering
	render.NewHandler(db).RegisterRoutes(api, authMW)

	// Markdown import
	importer.NewHandler(db, postSvc).RegisterRoutes(api, authMW)

	// Uploads (only when object storage is configured)
	if uploads != nil {
		upload.NewHandler(uploads).RegisterRoutes(api, authMW)
	}
}
