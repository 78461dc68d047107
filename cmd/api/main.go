// @title Quiz Bank API
// @version 1.0
// @description Question bank: authoring, answer checking and AI-assisted drafting of multiple-choice questions.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quiz-bank/internal/adapter"
	"quiz-bank/internal/adapter/media"
	"quiz-bank/internal/adapter/quizgen"
	"quiz-bank/internal/cache"
	"quiz-bank/internal/config"
	"quiz-bank/internal/database"
	"quiz-bank/internal/domain"
	"quiz-bank/internal/handler"
	"quiz-bank/internal/logger"
	"quiz-bank/internal/middleware"
	"quiz-bank/internal/repository"
	"quiz-bank/internal/service"
	"quiz-bank/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		)

		return err
	}
}

// stores bundles the repositories of the configured backend.
type stores struct {
	questions domain.QuestionRepository
	users     domain.UserRepository
	close     func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
	defer cancel()

	if cfg.Store.Driver == "mongo" {
		client, err := database.NewMongoClient(ctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Store.MongoDatabase)
		questions := repository.NewQuestionMongoAdapter(db.Collection("questions"))
		users := repository.NewUserMongoAdapter(db.Collection("users"))
		if err := questions.EnsureIndexes(ctx); err != nil {
			logger.Get().Warn("Could not ensure question indexes", zap.Error(err))
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			logger.Get().Warn("Could not ensure user indexes", zap.Error(err))
		}
		return &stores{
			questions: questions,
			users:     users,
			close:     func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}

	db, err := database.NewSQLXDB(ctx, cfg.Store.Driver, cfg.Store.SQLDSN)
	if err != nil {
		return nil, err
	}
	tm := repository.NewTransactionManagerAdapter(db)
	return &stores{
		questions: repository.NewQuestionDatabaseAdapter(db, tm),
		users:     repository.NewUserDatabaseAdapter(db),
		close:     func() { _ = db.Close() },
	}, nil
}

func newUploader(cfg config.MediaConfig) (domain.MediaUploader, string, error) {
	if cfg.Provider == "supabase" {
		up, err := media.NewSupabaseUploader(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
		return up, "", err
	}
	up, err := media.NewFSUploader(cfg.FSBaseDir, cfg.FSPublicBaseURL)
	if err != nil {
		return nil, "", err
	}
	return up, up.BaseDir(), nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to question store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer st.close()

	// The cache only serves generation results, so the service runs without it.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, generation cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
			appLogger.Info("Successfully connected to Redis")
		}
	}

	generator, err := quizgen.New(ctx, cfg.Generation)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.String("provider", cfg.Generation.Provider), zap.Error(err))
	}

	uploader, mediaDir, err := newUploader(cfg.Media)
	if err != nil {
		appLogger.Fatal("Failed to create media uploader", zap.String("provider", cfg.Media.Provider), zap.Error(err))
	}

	validator := validation.NewValidator()
	questionService := service.NewQuestionService(st.questions, uploader, validator, service.QuestionServiceConfig{
		MediaFolder:  cfg.Media.Folder,
		MediaTimeout: cfg.Media.Timeout,
	})
	generationService := service.NewGenerationService(generator, cacheAdapter, service.GenerationConfig{
		MaxQuestions: cfg.Generation.MaxQuestions,
		RichPrompt:   cfg.Generation.RichPrompt,
		Timeout:      cfg.Generation.Timeout,
		CacheTTL:     cfg.Generation.CacheTTL,
	})

	var authService service.AuthService
	if cfg.Auth.JWTSecret != "" {
		authService, err = service.NewAuthService(st.users, cfg)
		if err != nil {
			appLogger.Fatal("Failed to create AuthService", zap.Error(err))
		}
	}

	var cachePinger handler.Pinger
	if cacheAdapter != nil {
		cachePinger = cacheAdapter
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestid.New())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PATCH,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	if mediaDir != "" {
		app.Static("/media", mediaDir)
	}

	setupRoutes(app, routeDeps{
		authEnabled:    cfg.Auth.Enabled,
		requestTimeout: cfg.Server.RequestTimeout,
		authService:    authService,
		questions:      handler.NewQuestionHandler(questionService),
		generation:     handler.NewGenerationHandler(generationService),
		health:         handler.NewHealthHandler(st.questions, cachePinger),
		auth:           authHandlerOrNil(authService, validator),
	})

	go func() {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver),
			zap.Bool("auth", cfg.Auth.Enabled),
			zap.String("env", cfg.Logger.Env))
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

func authHandlerOrNil(authService service.AuthService, validator *validation.Validator) *handler.AuthHandler {
	if authService == nil {
		return nil
	}
	return handler.NewAuthHandler(authService, validator)
}
