package app

import (
	"career_os_backend/docs"
	"career_os_backend/internal/config"
	"career_os_backend/internal/middleware"
	"career_os_backend/internal/model"
	"career_os_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 学习路径
		paths := authGroup.Group("/learning-paths")
		{
			paths.POST("/generate", c.learningPath.GeneratePath)
			paths.GET("", c.learningPath.ListPaths)
			paths.GET("/:id", c.learningPath.GetPath)
			paths.PATCH("/:id", middleware.RoleMiddleware(model.Mentor, model.Admin), c.learningPath.UpdatePath)
			paths.POST("/:id/adaptive", c.learningPath.RegenerateAdaptivePath)

			// 入组与状态流转
			paths.POST("/:id/enroll", c.enrollment.Enroll)
			paths.GET("/:id/enrollment", c.enrollment.GetEnrollment)
			paths.DELETE("/:id/enrollment", c.enrollment.Unenroll)
			paths.POST("/:id/pause", c.enrollment.Pause)
			paths.POST("/:id/resume", c.enrollment.Resume)
			paths.POST("/:id/drop", c.enrollment.Drop)

			// 推进与分析
			paths.GET("/:id/next-step", c.progress.GetNextStep)
			paths.GET("/:id/analytics", c.analytics.AnalyzePath)
		}

		authGroup.GET("/enrollments", c.enrollment.ListEnrollments)

		// 步骤进度
		steps := authGroup.Group("/steps")
		{
			steps.PUT("/:id/progress", c.progress.UpdateStepProgress)
			steps.POST("/:id/attempts", c.progress.IncrementAttempt)
			steps.POST("/:id/skip", c.progress.SkipStep)
			steps.POST("/:id/fail", c.progress.FailStep)
			steps.POST("/:id/reopen", c.progress.ReopenStep)
		}
	}

	// 管理员路由
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/users/:userId/learning-paths/:id/expire", c.enrollment.ExpireEnrollment)
	}
}
