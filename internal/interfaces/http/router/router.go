// Package router 提供 HTTP 路由配置
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ai-course-builder-api/internal/config"
	"ai-course-builder-api/internal/interfaces/http/handler"
	"ai-course-builder-api/internal/interfaces/http/middleware"
	"ai-course-builder-api/pkg/utils"
)

// Handlers 路由依赖的处理器集合
type Handlers struct {
	Health *handler.HealthHandler
	Auth   *handler.AuthHandler
	Course *handler.CourseHandler
	Export *handler.ExportHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers *Handlers
	jwt      *utils.JWTManager
	limiter  middleware.RateLimiter
}

// New 创建新的路由器；limiter 为 nil 时不限流
func New(cfg *config.Config, handlers *Handlers, jwt *utils.JWTManager, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		jwt:      jwt,
		limiter:  limiter,
	}
	r.setupMiddleware()
	r.setupRoutes()
	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置全局中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

// rateLimits 返回通用限流与生成接口专用限流
func (r *Router) rateLimits() (gin.HandlerFunc, gin.HandlerFunc) {
	rl := r.cfg.Security.RateLimit
	limiter := r.limiter
	if !rl.Enabled {
		limiter = nil
	}

	general := middleware.RateLimit(middleware.RateLimitRule{
		Scope:  "api",
		Limit:  rl.RequestsPerSecond + rl.Burst,
		Window: time.Second,
	}, limiter)
	generation := middleware.RateLimit(middleware.RateLimitRule{
		Scope:  "generation",
		Limit:  rl.GenerationPerMinute,
		Window: time.Minute,
	}, limiter)
	return general, generation
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	h := r.handlers

	// 系统端点
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	general, generation := r.rateLimits()
	authRequired := middleware.Auth(r.jwt)

	v1 := r.engine.Group("/v1", general)

	// 认证
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", authRequired, h.Auth.Me)
	}

	// 公开分享，无需认证
	v1.GET("/share/:shareId", h.Course.GetShared)

	courses := v1.Group("/courses", authRequired)
	{
		courses.POST("/generate", generation, h.Course.Generate)
		courses.GET("", h.Course.List)
		courses.GET("/:id", h.Course.Get)
		courses.PUT("/:id", h.Course.Update)
		courses.PATCH("/:id", h.Course.Patch)
		courses.DELETE("/:id", h.Course.Delete)

		// 章节内容生成
		courses.POST("/:id/chapters/:chapterId/generate", generation, h.Course.GenerateChapter)
		courses.POST("/:id/chapters/generate", generation, h.Course.GenerateAllChapters)
		courses.POST("/:id/chapters/generate-async", generation, h.Course.GenerateAllChaptersAsync)

		// 分享
		courses.POST("/:id/share", h.Course.Share)
		courses.DELETE("/:id/share", h.Course.Unshare)

		// 导出
		courses.POST("/:id/export", h.Export.JSON)
		courses.POST("/:id/export/pdf", h.Export.PDF)
	}
}
