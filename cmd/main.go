package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/mkoval7/contacts-api/internal/facades"
	"github.com/mkoval7/contacts-api/internal/handlers"
	"github.com/mkoval7/contacts-api/internal/jwt"
	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/middlewares"
	"github.com/mkoval7/contacts-api/internal/repositories"
	"github.com/mkoval7/contacts-api/internal/services"
	"github.com/mkoval7/contacts-api/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"

	_ "github.com/mkoval7/contacts-api/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds all application settings parsed from the environment.
type config struct {
	appHost  string
	appPort  string
	logLevel string

	pgHost         string
	pgPort         int
	pgUser         string
	pgPassword     string
	pgDB           string
	pgMaxOpenConns int
	pgMaxIdleConns int

	redisHost     string
	redisPort     int
	redisDB       int
	redisPassword string

	cacheTTLSecond   int
	rateLimit        int
	rateWindowSecond int

	jwtSecretKey     string
	accessExpSecond  int
	refreshExpSecond int
	emailExpSecond   int
	resetExpSecond   int

	smtpHost string
	smtpPort int
	smtpUser string
	smtpPass string
	mailFrom string
	baseURL  string

	kafkaBrokers string
	kafkaTopic   string

	minioEndpoint  string
	minioAccessKey string
	minioSecretKey string
	minioBucket    string
	minioPublicURL string
	minioUseSSL    bool
}

// @title contacts-api
// @version 1.0.0
// @description REST service for user accounts and personal contact lists
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the full
// application configuration with defaults applied.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getEnvInt := func(key string, defaultValue int) (int, error) {
		return strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	}

	// Application config
	cfg.appHost = getEnv("APP_HOST", "localhost")
	cfg.appPort = getEnv("APP_PORT", "8080")
	cfg.logLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.baseURL = getEnv("APP_BASE_URL", fmt.Sprintf("http://%s:%s", cfg.appHost, cfg.appPort))

	// PostgreSQL config
	cfg.pgHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.pgUser = getEnv("POSTGRES_USER", "user")
	cfg.pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.pgDB = getEnv("POSTGRES_DB", "contacts")
	if cfg.pgPort, err = getEnvInt("POSTGRES_PORT", 5432); err != nil {
		return
	}
	if cfg.pgMaxOpenConns, err = getEnvInt("POSTGRES_MAX_OPEN_CONNS", 16); err != nil {
		return
	}
	if cfg.pgMaxIdleConns, err = getEnvInt("POSTGRES_MAX_IDLE_CONNS", 8); err != nil {
		return
	}

	// Redis config
	cfg.redisHost = getEnv("REDIS_HOST", "localhost")
	cfg.redisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.redisPort, err = getEnvInt("REDIS_PORT", 6379); err != nil {
		return
	}
	if cfg.redisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return
	}
	if cfg.cacheTTLSecond, err = getEnvInt("USER_CACHE_TTL_SECOND", 300); err != nil {
		return
	}
	if cfg.rateLimit, err = getEnvInt("RATE_LIMIT_REQUESTS", 10); err != nil {
		return
	}
	if cfg.rateWindowSecond, err = getEnvInt("RATE_LIMIT_WINDOW_SECOND", 60); err != nil {
		return
	}

	// JWT config
	cfg.jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if cfg.accessExpSecond, err = getEnvInt("JWT_ACCESS_EXP_SECOND", 900); err != nil {
		return
	}
	if cfg.refreshExpSecond, err = getEnvInt("JWT_REFRESH_EXP_SECOND", 259200); err != nil {
		return
	}
	if cfg.emailExpSecond, err = getEnvInt("JWT_EMAIL_EXP_SECOND", 604800); err != nil {
		return
	}
	if cfg.resetExpSecond, err = getEnvInt("JWT_RESET_EXP_SECOND", 3600); err != nil {
		return
	}

	// SMTP config; mail is skipped when host or sender is missing
	cfg.smtpHost = getEnv("SMTP_HOST", "")
	cfg.smtpUser = getEnv("SMTP_USER", "")
	cfg.smtpPass = getEnv("SMTP_PASSWORD", "")
	cfg.mailFrom = getEnv("MAIL_FROM", "")
	if cfg.smtpPort, err = getEnvInt("SMTP_PORT", 587); err != nil {
		return
	}

	// Kafka config; publishing is skipped when brokers are missing
	cfg.kafkaBrokers = getEnv("KAFKA_BROKERS", "")
	cfg.kafkaTopic = getEnv("KAFKA_TOPIC", "auth-events")

	// Object storage config
	cfg.minioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	cfg.minioAccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	cfg.minioSecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")
	cfg.minioBucket = getEnv("MINIO_BUCKET", "avatars")
	cfg.minioPublicURL = getEnv("MINIO_PUBLIC_URL", "http://localhost:9000")
	cfg.minioUseSSL = getEnv("MINIO_USE_SSL", "false") == "true"

	return
}

// run initializes the logger, database, Redis, Kafka, mail and object storage
// collaborators and the HTTP server. It sets up routes, applies middleware,
// and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.pgUser, cfg.pgPassword, cfg.pgHost, cfg.pgPort, cfg.pgDB)
	logger.Log.Infof("Connecting to PostgreSQL: %s:%d/%s", cfg.pgHost, cfg.pgPort, cfg.pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Errorw("PostgreSQL connection error", "error", err)
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.pgMaxOpenConns)
	db.SetMaxIdleConns(cfg.pgMaxIdleConns)

	// Apply embedded schema migrations
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		logger.Log.Errorw("failed to apply migrations", "error", err)
		return err
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.redisHost, cfg.redisPort),
		Password: cfg.redisPassword,
		DB:       cfg.redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Errorw("Redis connection error", "error", err)
		return err
	}
	defer rdb.Close()

	// Kafka writer for auth events, optional
	var kafkaWriter services.KafkaWriter
	if cfg.kafkaBrokers != "" {
		writer := &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(cfg.kafkaBrokers, ",")...),
			Topic:    cfg.kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer writer.Close()
		kafkaWriter = writer
		logger.Log.Infof("Kafka writer initialized for topic %s", cfg.kafkaTopic)
	} else {
		logger.Log.Warn("Kafka brokers not configured, auth events will not be published")
	}

	// Object storage for avatars
	avatarFacade, err := facades.NewAvatarFacade(ctx,
		cfg.minioEndpoint, cfg.minioAccessKey, cfg.minioSecretKey,
		cfg.minioBucket, cfg.minioPublicURL, cfg.minioUseSSL)
	if err != nil {
		logger.Log.Errorw("object storage initialization error", "error", err)
		return err
	}

	// Mail facade; skips delivery when SMTP is not configured
	emailFacade := facades.NewEmailFacade(facades.EmailConfig{
		SMTPHost: cfg.smtpHost,
		SMTPPort: cfg.smtpPort,
		SMTPUser: cfg.smtpUser,
		SMTPPass: cfg.smtpPass,
		From:     cfg.mailFrom,
		BaseURL:  cfg.baseURL,
	})

	// Initialize JWT service
	tokens := jwt.New(
		jwt.WithSecretKey(cfg.jwtSecretKey),
		jwt.WithAccessExpiration(time.Duration(cfg.accessExpSecond)*time.Second),
		jwt.WithRefreshExpiration(time.Duration(cfg.refreshExpSecond)*time.Second),
		jwt.WithEmailExpiration(time.Duration(cfg.emailExpSecond)*time.Second),
		jwt.WithResetExpiration(time.Duration(cfg.resetExpSecond)*time.Second),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	userCacheRepo := repositories.NewUserCacheRepository(rdb, time.Duration(cfg.cacheTTLSecond)*time.Second)
	contactReadRepo := repositories.NewContactReadRepository(db)
	contactWriteRepo := repositories.NewContactWriteRepository(db, middlewares.GetTxFromContext)

	// Initialize services
	userService := services.NewUserService(userReadRepo, userWriteRepo, userCacheRepo)
	authService := services.NewAuthService(userService, userReadRepo, tokens, emailFacade, kafkaWriter)
	contactService := services.NewContactService(contactReadRepo, contactWriteRepo)

	// Initialize middlewares
	authMiddleware := middlewares.AuthMiddleware(tokens, userService)
	adminMiddleware := middlewares.AdminMiddleware(userReadRepo)
	txMiddleware := middlewares.TxMiddleware(db)
	rateLimitMiddleware := middlewares.RateLimitMiddleware(rdb,
		cfg.rateLimit, time.Duration(cfg.rateWindowSecond)*time.Second)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Public routes
	r.Get("/public", handlers.NewPublicHandler())
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handlers.NewRegisterHandler(authService))
		r.Post("/login", handlers.NewLoginHandler(authService))
		r.Post("/refresh", handlers.NewRefreshHandler(tokens, authService))
		r.Get("/confirmed_email/{token}", handlers.NewConfirmEmailHandler(authService))
		r.Post("/request_email", handlers.NewRequestEmailHandler(authService))
		r.Post("/password-reset/request", handlers.NewPasswordResetRequestHandler(authService))
		r.Post("/password-reset/confirm", handlers.NewPasswordResetConfirmHandler(authService))
	})

	// Protected routes with JWT middleware
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(rateLimitMiddleware).Get("/users/me", handlers.NewGetMeHandler())
		r.Put("/users/me", handlers.NewUpdateMeHandler(userService))
		r.With(adminMiddleware).Patch("/users/avatar", handlers.NewUpdateAvatarHandler(avatarFacade, userService))
		r.With(adminMiddleware).Get("/admin", handlers.NewAdminHandler())

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", handlers.NewListContactsHandler(contactService))
			r.With(txMiddleware).Post("/", handlers.NewCreateContactHandler(contactService))
			r.Get("/search", handlers.NewSearchContactsHandler(contactService))
			r.Get("/upcoming-birthdays", handlers.NewUpcomingBirthdaysHandler(contactService))
			r.Get("/{id}", handlers.NewGetContactHandler(contactService))
			r.With(txMiddleware).Put("/{id}", handlers.NewUpdateContactHandler(contactService))
			r.With(txMiddleware).Delete("/{id}", handlers.NewDeleteContactHandler(contactService))
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
