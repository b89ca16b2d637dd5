package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/mindjourney-backend/internal/analysis"
	"github.com/AnshRaj112/mindjourney-backend/internal/auth"
	"github.com/AnshRaj112/mindjourney-backend/internal/config"
	"github.com/AnshRaj112/mindjourney-backend/internal/database"
	"github.com/AnshRaj112/mindjourney-backend/internal/handlers"
	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/internal/middleware"
	"github.com/AnshRaj112/mindjourney-backend/internal/recommend"
	"github.com/AnshRaj112/mindjourney-backend/internal/routes"
	"github.com/AnshRaj112/mindjourney-backend/internal/services"
	"github.com/AnshRaj112/mindjourney-backend/internal/storage"
	"github.com/AnshRaj112/mindjourney-backend/pkg/clientip"
	"github.com/AnshRaj112/mindjourney-backend/pkg/utils"
)

// backend is the set of stores and shared infrastructure chosen at start-up.
type backend struct {
	users     storage.UserStore
	journal   storage.JournalStore
	sessions  auth.SessionRegistry
	cache     services.Cache
	publisher services.StatsPublisher
	rdb       *redis.Client
	closers   []func()
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		logging.Info().Msg("No .env file found")
	}
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Journal text is sealed at rest only when a key is configured
	var sealer *utils.Sealer
	if cfg.EncryptionKey == "" {
		logging.Warn().Msg("⚠️  ENCRYPTION_KEY not set. Journal text will be stored unencrypted.")
	} else {
		s, err := utils.NewSealer(cfg.EncryptionKey)
		if err != nil {
			logging.Fatal().Err(err).Msg("ENCRYPTION_KEY is invalid (must be base64-encoded 32 bytes, generate with: openssl rand -base64 32)")
		}
		sealer = s
		logging.Info().Msg("✅ Encryption key configured")
	}

	hub := services.NewStatsHub()
	be, err := openBackend(cfg, sealer, hub)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open store backend")
	}
	defer be.close()

	if be.rdb != nil {
		go services.RunStatsSubscriber(ctx, be.rdb, hub)
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid JWT configuration")
	}
	authenticators := []auth.Authenticator{auth.NewJWTAuthenticator(jwtManager, be.sessions)}
	if cfg.OIDCEnabled() {
		verifier, err := auth.NewZitadelVerifier(ctx, auth.OIDCConfig{
			IssuerURL:    cfg.OIDCIssuer,
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
		})
		if err != nil {
			logging.Warn().Err(err).Msg("OIDC discovery failed, external sign-in disabled")
		} else {
			authenticators = append(authenticators, auth.NewOIDCAuthenticator(verifier, be.users))
			logging.Info().Str("issuer", cfg.OIDCIssuer).Msg("✅ OIDC verifier initialized")
		}
	}
	authn := auth.NewMultiAuthenticator(authenticators...)
	authService := auth.NewService(be.users, jwtManager, be.sessions)

	analyzer := newAnalyzer(cfg)
	images, uploadDir := newImageStore(cfg)

	stats := services.NewStatsService(be.journal, be.cache, be.publisher)
	journal := services.NewJournalService(be.journal, analyzer, stats, images, be.cache)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(logging.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	ips := clientip.Resolver{TrustProxy: cfg.TrustProxy}
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost, middleware.NewIPRateLimiter(ips)) {
			r.Use(mw)
		}
		logging.Info().Msg("✅ Production security enabled (security headers, host check, per-IP + login rate limiting)")
	} else if be.rdb != nil {
		r.Use(middleware.NewRedisRateLimiter(be.rdb, ips).Handler)
	} else {
		r.Use(middleware.NewIPRateLimiter(ips).Global)
	}

	routes.SetupRoutes(r, routes.Deps{
		Authenticator:   authn,
		Auth:            handlers.NewAuthHandler(authService, be.users),
		Journal:         handlers.NewJournalHandler(journal),
		Insights:        handlers.NewInsightsHandler(stats, be.users),
		Recommendations: handlers.NewRecommendationHandler(recommend.Default()),
		StatsSocket:     handlers.NewStatsSocketHandler(hub, stats, cfg.AllowedOrigins),
		WriteLimiter:    middleware.NewUserWriteLimiter(),
		UploadDir:       uploadDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("🚀 MindJourney backend running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// openBackend connects the configured stores. The memory backend needs no
// external services and keeps everything in process.
func openBackend(cfg *config.Config, sealer *utils.Sealer, hub *services.StatsHub) (*backend, error) {
	if cfg.StoreBackend == config.BackendMemory {
		mem := storage.NewMemory()
		logging.Info().Msg("✅ Using in-memory store (data is lost on restart)")
		return &backend{
			users:     mem,
			journal:   mem,
			sessions:  auth.NewMemorySessions(),
			cache:     services.NewMemoryCache(),
			publisher: hub,
		}, nil
	}

	be := &backend{}

	logging.Info().Msg("Connecting to PostgreSQL...")
	pg, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		return nil, err
	}
	be.closers = append(be.closers, func() { pg.Close() })
	be.users = storage.NewPostgresUsers(pg)

	logging.Info().Msg("Connecting to Redis...")
	rdb, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		be.close()
		return nil, err
	}
	be.closers = append(be.closers, func() { rdb.Close() })
	be.rdb = rdb
	be.sessions = auth.NewRedisSessions(rdb)
	be.cache = services.NewRedisCache(rdb)
	be.publisher = services.NewRedisStatsPublisher(rdb)

	logging.Info().Str("uri", maskURI(cfg.MongoURI)).Msg("Connecting to MongoDB...")
	client, db, err := database.ConnectMongo(cfg.MongoURI)
	if err != nil {
		logging.Error().Msg("Check that your IP is whitelisted, the connection string is valid and the cluster is running")
		be.close()
		return nil, err
	}
	be.closers = append(be.closers, func() { database.DisconnectMongo(client) })

	store := storage.NewMongo(db, sealer)
	ictx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureIndexes(ictx); err != nil {
		logging.Warn().Err(err).Msg("⚠️  Failed to ensure MongoDB indexes")
	} else {
		logging.Info().Msg("✅ MongoDB indexes ensured")
	}
	be.journal = store

	return be, nil
}

func newAnalyzer(cfg *config.Config) *analysis.Analyzer {
	if !cfg.ClassifierEnabled() {
		logging.Info().Msg("No classifier configured, using keyword mood scoring")
		return analysis.New()
	}
	gemini := analysis.NewGeminiClassifier(analysis.GeminiConfig{
		Endpoint:     cfg.ClassifierURL,
		Model:        cfg.ClassifierModel,
		APIKey:       cfg.ClassifierAPIKey,
		TokenURL:     cfg.ClassifierTokenURL,
		ClientID:     cfg.ClassifierClientID,
		ClientSecret: cfg.ClassifierClientSecret,
	})
	logging.Info().Str("model", cfg.ClassifierModel).Msg("✅ Mood classifier configured")
	return analysis.New(analysis.WithClassifier(analysis.NewBreakerClassifier("mood-classifier", gemini)))
}

// newImageStore prefers Cloudinary and falls back to local disk. The returned
// directory is non-empty only for local storage.
func newImageStore(cfg *config.Config) (services.ImageStore, string) {
	if cfg.CloudinaryEnabled() {
		images, err := services.NewCloudinaryImages(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err == nil {
			logging.Info().Msg("✅ Cloudinary service initialized")
			return images, ""
		}
		logging.Warn().Err(err).Msg("Failed to initialize Cloudinary, falling back to local uploads")
	}

	local, err := services.NewLocalImages(cfg.UploadDir, strings.TrimRight(cfg.Host, "/")+"/uploads/")
	if err != nil {
		logging.Warn().Err(err).Msg("Image uploads will not be available")
		return nil, ""
	}
	logging.Info().Str("dir", local.Dir()).Msg("✅ Storing uploads on local disk")
	return local, local.Dir()
}

// maskURI hides the password of a connection string.
func maskURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at == -1 {
		return uri
	}
	scheme := strings.Index(uri, "://")
	if scheme == -1 || scheme+3 > at {
		return uri
	}
	creds := uri[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon != -1 {
		return uri[:scheme+3] + creds[:colon] + ":***" + uri[at:]
	}
	return uri
}
