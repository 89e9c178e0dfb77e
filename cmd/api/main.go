package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"conceptme/internal/adapter"
	"conceptme/internal/adapter/explainer"
	"conceptme/internal/adapter/leaderboard"
	"conceptme/internal/cache"
	"conceptme/internal/config"
	"conceptme/internal/database"
	"conceptme/internal/domain"
	"conceptme/internal/handler"
	"conceptme/internal/logger"
	"conceptme/internal/metrics"
	"conceptme/internal/middleware"
	"conceptme/internal/repository"
	"conceptme/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		}
		if ownerID, ok := c.Locals(middleware.UserIDKey).(string); ok {
			fields = append(fields, zap.String("owner_id", ownerID))
		}
		logger.Get().Info("HTTP Request", fields...)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()
	metrics.Init()

	db, err := database.NewSQLXOracleDB(ctx, cfg.DB, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	llmHTTPClient := &http.Client{Timeout: 120 * time.Second}
	generator, err := explainer.NewOpenAIExplainer(cfg.LLM, llmHTTPClient, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create explanation generator", zap.Error(err))
	}

	// Repositories
	quizRepository := repository.NewQuizDatabaseAdapter(db)
	noteRepository := repository.NewNoteDatabaseAdapter(db)
	userRepository := repository.NewSQLXUserRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	var scoreBoard domain.Leaderboard
	switch cfg.Leaderboard.Backend {
	case "sql":
		scoreBoard = repository.NewSQLLeaderboard(db)
	default:
		// fold markers outlive the grading session they belong to
		scoreBoard = leaderboard.NewRedisLeaderboard(redisClient, 2*cfg.Session.TTL)
	}
	appLogger.Info("Leaderboard initialized", zap.String("backend", cfg.Leaderboard.Backend))

	// Services
	limiter := service.NewOwnerRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, 30*time.Minute)
	defer limiter.Stop()

	explanationService := service.NewExplanationService(generator, quizRepository, limiter, cfg.LLM.Timeout)
	sessionStore := service.NewGradingSessionStore(cacheAdapter, cfg.Session.TTL)
	gradingService := service.NewGradingService(quizRepository, sessionStore, scoreBoard, txManager)
	noteService := service.NewNoteService(noteRepository)
	userService := service.NewUserService(userRepository, scoreBoard, 100)

	authService, err := service.NewAuthService(userRepository, cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "conceptme",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(metrics.Middleware())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))

	app.Get("/metrics", metrics.Handler())

	handler.Routes{
		Auth:        handler.NewAuthHandler(authService, cfg.JWT.TTL),
		Explanation: handler.NewExplanationHandler(explanationService),
		Quiz:        handler.NewQuizHandler(gradingService),
		Note:        handler.NewNoteHandler(noteService),
		User:        handler.NewUserHandler(userService),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"db":    handler.PingerFunc(db.PingContext),
			"redis": cacheAdapter,
		}),
		AuthService:      authService,
		LeaderboardLimit: cfg.Leaderboard.Limit,
	}.Register(app)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
