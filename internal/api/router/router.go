package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"surat-portal/config"
	"surat-portal/internal/api/handler"
	"surat-portal/internal/api/middleware"
	"surat-portal/internal/model"
	"surat-portal/pkg/jwt"
	"surat-portal/pkg/redis"
)

// Setup builds the Gin engine. rdb may be nil.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidators()

	r := gin.New()

	// ── global middleware ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	cookie := cfg.Auth.Cookie.Name
	session := middleware.SessionAuth(jwtMgr, rdb, cookie)
	optional := middleware.OptionalAuth(jwtMgr, rdb, cookie)
	adminOnly := middleware.RoleAuth(string(model.RoleAdmin))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, "login", cfg.Feature.LoginRateLimit, cfg.Feature.LoginRateWindow), h.Auth.Login)
			auth.POST("/logout", session, h.Auth.Logout)
			auth.GET("/me", session, h.Auth.Me)
		}

		// bootstrap: the first account needs no session
		v1.POST("/users", optional, h.User.Create)
		v1.PATCH("/me", session, h.User.UpdateProfile)

		templates := v1.Group("/templates")
		{
			templates.GET("", optional, h.Template.List)
			templates.GET("/:key", optional, h.Template.Get)
			templates.POST("", session, adminOnly, h.Template.Create)
			templates.PATCH("/:key", session, adminOnly, h.Template.Update)
			templates.DELETE("/:key", session, adminOnly, h.Template.Delete)
		}

		submissions := v1.Group("/submissions", session)
		{
			submissions.POST("", h.Submission.Create)
			submissions.GET("", h.Submission.List)
			submissions.GET("/export", adminOnly, h.Export.ExportSubmissions)
			submissions.GET("/:id", h.Submission.Get)
			// role is checked in the service so a student gets 403 even for unknown ids
			submissions.PATCH("/:id", h.Submission.UpdateStatus)
			submissions.GET("/:id/pdf", h.Submission.PDF)
		}

		v1.POST("/uploads/sign", session, h.Upload.Sign)
	}

	return r
}
