package app

import (
	"career_os_backend/internal/config"
	"career_os_backend/internal/controller"
	"career_os_backend/internal/repository"
	"career_os_backend/internal/service"
	"career_os_backend/pkg/configwatcher"
	"career_os_backend/pkg/database"
	"career_os_backend/pkg/logger"
	"career_os_backend/pkg/monitoring"
	"career_os_backend/pkg/security"
	"career_os_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	skill        *repository.SkillRepository
	learningPath *repository.LearningPathRepository
	enrollment   *repository.EnrollmentRepository
	stepProgress *repository.StepProgressRepository
}

type services struct {
	auth        *service.AuthService
	ai          *service.AIService
	performance *service.PerformanceService
	progress    *service.ProgressService
	builder     *service.PathBuilderService
	adaptive    *service.AdaptiveService
	pathQuery   *service.PathQueryService
}

type controllers struct {
	auth         *controller.AuthController
	learningPath *controller.LearningPathController
	enrollment   *controller.EnrollmentController
	progress     *controller.ProgressController
	analytics    *controller.AnalyticsController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		skill:        repository.NewSkillRepository(db),
		learningPath: repository.NewLearningPathRepository(db),
		enrollment:   repository.NewEnrollmentRepository(db),
		stepProgress: repository.NewStepProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.ai = service.NewAIService(cfg.AI)
	s.performance = service.NewPerformanceService(repos.enrollment, repos.stepProgress, rdb, cfg)
	s.progress = service.NewProgressService(repos.learningPath, repos.enrollment, repos.stepProgress, s.performance, cfg)
	s.builder = service.NewPathBuilderService(repos.learningPath, repos.skill, s.progress, s.ai, cfg)
	s.adaptive = service.NewAdaptiveService(repos.learningPath, repos.enrollment, s.performance)
	s.pathQuery = service.NewPathQueryService(repos.learningPath)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		learningPath: controller.NewLearningPathController(s.builder, s.adaptive, s.pathQuery),
		enrollment:   controller.NewEnrollmentController(s.progress),
		progress:     controller.NewProgressController(s.progress),
		analytics:    controller.NewAnalyticsController(s.performance),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig 监听配置文件变更并热更新分析阈值等可调参数
func (a *App) watchConfig() {
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		a.Config.ApplyHotReload(newCfg)
		logger.Log.Info("Config reloaded",
			zap.Int("struggle_attempts", newCfg.Analytics.StruggleAttempts),
			zap.Int("struggle_minutes", newCfg.Analytics.StruggleMinutes))
	})

	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(cfg interface{}) {
		newCfg, ok := cfg.(*config.Config)
		if !ok {
			return
		}
		for _, callback := range a.configCallbacks {
			callback(newCfg)
		}
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("path-engine", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)
	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
