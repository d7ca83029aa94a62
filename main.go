package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bacnet-commissioning/internal/audit"
	"bacnet-commissioning/internal/auth"
	"bacnet-commissioning/internal/logging"
	masterdataapp "bacnet-commissioning/internal/masterdata/application"
	masterdata "bacnet-commissioning/internal/masterdata/domain"
	masterdatamemory "bacnet-commissioning/internal/masterdata/infrastructure/memory"
	masterdatarepo "bacnet-commissioning/internal/masterdata/infrastructure/postgres"
	masterdatahttp "bacnet-commissioning/internal/masterdata/interfaces/http"
	matchingapp "bacnet-commissioning/internal/matching/application"
	matching "bacnet-commissioning/internal/matching/domain"
	matchingmemory "bacnet-commissioning/internal/matching/infrastructure/memory"
	matchingrepo "bacnet-commissioning/internal/matching/infrastructure/postgres"
	matchinghttp "bacnet-commissioning/internal/matching/interfaces/http"
	"bacnet-commissioning/internal/observability/metrics"
	semanticapp "bacnet-commissioning/internal/semantic/application"
	"bacnet-commissioning/internal/semantic/dictionary"
	semanticredis "bacnet-commissioning/internal/semantic/infrastructure/redis"
	semantichttp "bacnet-commissioning/internal/semantic/interfaces/http"
	"bacnet-commissioning/internal/semantic/normalizer"
)

func main() {
	cfg := loadConfig()
	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat, "bacnet-mapper")
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db open error", zap.Error(err))
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatal("db ping error", zap.Error(err))
		}
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
	}

	metrics.Init(db, logger)
	repos := buildRepositories(db)
	var auditLogger audit.Logger = audit.NewZapLogger(logger)
	if db != nil {
		auditLogger = audit.NewRepository(db)
	}

	dict, err := dictionary.Load(cfg.DictionaryPath)
	if err != nil {
		logger.Fatal("dictionary load error", zap.Error(err))
	}
	logger.Info("dictionary loaded", zap.String("version", dict.Version()), zap.String("path", cfg.DictionaryPath))

	normalizeOpts := []semanticapp.Option{
		semanticapp.WithWorkers(cfg.NormalizeWorkers),
		semanticapp.WithLogger(logger),
		semanticapp.WithInventory(repos.equipment, repos.points),
	}
	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer client.Close()
		cache, err := semanticredis.NewCache(client, semanticredis.WithTTL(cfg.RedisCacheTTL))
		if err != nil {
			logger.Fatal("redis cache error", zap.Error(err))
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cache.Ping(pingCtx); err != nil {
			logger.Warn("redis ping failed, cache errors will be ignored", zap.Error(err))
		}
		cancel()
		normalizeOpts = append(normalizeOpts, semanticapp.WithCache(cache))
	}
	normalizationService, err := semanticapp.NewNormalizationService(normalizer.New(dict), normalizeOpts...)
	if err != nil {
		logger.Fatal("normalization service error", zap.Error(err))
	}

	matchingCfg, err := matchingapp.LoadConfig()
	if err != nil {
		logger.Fatal("matching config error", zap.Error(err))
	}
	autoMapper := matchingapp.NewAutoMapper(
		matchingapp.WithSuggestionThreshold(matchingCfg.SuggestionThreshold),
		matchingapp.WithTypeBonus(matchingCfg.TypeBonus),
	)
	mappingService, err := matchingapp.NewEquipmentMappingService(repos.equipment, repos.mappings,
		matchingapp.WithAutoMapper(autoMapper),
		matchingapp.WithMappingLogger(logger),
	)
	if err != nil {
		logger.Fatal("equipment mapping service error", zap.Error(err))
	}
	templateService, err := matchingapp.NewTemplateService(repos.equipment, repos.points, repos.mappings, repos.templates, repos.applications,
		matchingapp.WithConfig(matchingCfg),
		matchingapp.WithTemplateLogger(logger),
	)
	if err != nil {
		logger.Fatal("template service error", zap.Error(err))
	}
	inventoryService, err := masterdataapp.NewInventoryService(repos.equipment, repos.points)
	if err != nil {
		logger.Fatal("inventory service error", zap.Error(err))
	}

	inventoryHandler, err := masterdatahttp.NewHandler(inventoryService, auditLogger)
	if err != nil {
		logger.Fatal("inventory handler error", zap.Error(err))
	}
	normalizeHandler, err := semantichttp.NewHandler(normalizationService, repos.equipment)
	if err != nil {
		logger.Fatal("normalization handler error", zap.Error(err))
	}
	matchingHandler, err := matchinghttp.NewHandler(mappingService, templateService, auditLogger)
	if err != nil {
		logger.Fatal("matching handler error", zap.Error(err))
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)
	if authMiddleware == nil {
		logger.Warn("AUTH_JWT_SECRET not set, API is unauthenticated")
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/equipment", inventoryHandler)
	mux.Handle("/api/v1/equipment/", inventoryHandler)
	mux.Handle("/api/v1/points/", inventoryHandler)
	mux.Handle("/api/v1/points/normalize", normalizeHandler)
	mux.Handle("/api/v1/equipment/{id}/normalize", normalizeHandler)
	mux.Handle("/api/v1/equipment/{id}/points/normalized.xlsx", normalizeHandler)
	mux.Handle("/api/v1/mappings", matchingHandler)
	mux.Handle("/api/v1/mappings/", matchingHandler)
	mux.Handle("/api/v1/templates", matchingHandler)
	mux.Handle("/api/v1/templates/", matchingHandler)
	mux.Handle("/api/v1/applications/", matchingHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(authMiddleware.Wrap(mux), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server error", zap.Error(err))
	}
}

type repositories struct {
	equipment    masterdata.EquipmentRepository
	points       masterdata.PointRepository
	mappings     matching.EquipmentMappingRepository
	templates    matching.TemplateRepository
	applications matching.ApplicationRepository
}

func buildRepositories(db *sql.DB) repositories {
	if db == nil {
		return repositories{
			equipment:    masterdatamemory.NewEquipmentRepository(),
			points:       masterdatamemory.NewPointRepository(),
			mappings:     matchingmemory.NewEquipmentMappingRepository(),
			templates:    matchingmemory.NewTemplateRepository(),
			applications: matchingmemory.NewApplicationRepository(),
		}
	}
	return repositories{
		equipment:    masterdatarepo.NewEquipmentRepository(db),
		points:       masterdatarepo.NewPointRepository(db),
		mappings:     matchingrepo.NewEquipmentMappingRepository(db),
		templates:    matchingrepo.NewTemplateRepository(db),
		applications: matchingrepo.NewApplicationRepository(db),
	}
}

type config struct {
	DatabaseURL      string
	HTTPAddr         string
	JWTSecret        string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisCacheTTL    time.Duration
	DictionaryPath   string
	NormalizeWorkers int
	LogLevel         string
	LogFormat        string
}

func loadConfig() config {
	return config{
		DatabaseURL:      getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:         getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:        getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		RedisAddr:        getenvDefault("REDIS_ADDR", ""),
		RedisPassword:    getenvDefault("REDIS_PASSWORD", ""),
		RedisDB:          getenvIntDefault("REDIS_DB", 0),
		RedisCacheTTL:    getenvDuration("REDIS_CACHE_TTL", 24*time.Hour),
		DictionaryPath:   getenvDefault("DICTIONARY_PATH", ""),
		NormalizeWorkers: getenvIntDefault("NORMALIZE_WORKERS", 0),
		LogLevel:         getenvDefault("LOG_LEVEL", "info"),
		LogFormat:        getenvDefault("LOG_FORMAT", "json"),
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", resp.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
