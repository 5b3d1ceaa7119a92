package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/config"
	"github.com/upb/casting-agency/handlers"
	"github.com/upb/casting-agency/jwks"
	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/repositories/postgres"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Actors     repositories.ActorRepository
	Movies     repositories.MovieRepository
	Drinks     repositories.DrinkRepository
	Categories repositories.CategoryRepository
	Questions  repositories.QuestionRepository
	Venues     repositories.VenueRepository
	Artists    repositories.ArtistRepository
	Shows      repositories.ShowRepository
	TxManager  repositories.TransactionManager

	// Auth; KeyProvider is nil when no identity provider is configured
	KeyProvider    *jwks.Provider
	AuthMiddleware *middleware.AuthMiddleware

	// HealthChecks gate /readyz; OptionalChecks are only reported
	HealthChecks   map[string]handlers.HealthChecker
	OptionalChecks map[string]handlers.HealthChecker

	redis *redis.Client
}

// NewDependencies opens the database and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := newDependencies(ctx, cfg, factory, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}
	return deps, nil
}

// NewDependenciesFromDB wires the application over an already opened pool.
func NewDependenciesFromDB(ctx context.Context, cfg *config.Config, db *postgres.DB, logger *zap.Logger) (*Dependencies, error) {
	return newDependencies(ctx, cfg, postgres.NewRepositoryFactoryFromDB(db, logger), logger)
}

func newDependencies(ctx context.Context, cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:         cfg,
		Logger:         logger,
		RepoFactory:    factory,
		DB:             factory.GetDB(),
		HealthChecks:   make(map[string]handlers.HealthChecker),
		OptionalChecks: make(map[string]handlers.HealthChecker),
	}
	deps.HealthChecks["database"] = deps.DB

	deps.initRepositories()

	if err := deps.initAuth(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Actors = repos.Actors
	d.Movies = repos.Movies
	d.Drinks = repos.Drinks
	d.Categories = repos.Categories
	d.Questions = repos.Questions
	d.Venues = repos.Venues
	d.Artists = repos.Artists
	d.Shows = repos.Shows
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initAuth(ctx context.Context, cfg *config.Config) error {
	if !cfg.Auth.Enabled() {
		d.Logger.Warn("identity provider not configured, protected routes will reject every request")
		d.AuthMiddleware = middleware.NewAuthMiddleware(rejectAllVerifier{}, d.Logger)
		return nil
	}

	cache, err := d.newKeyCache(ctx, cfg)
	if err != nil {
		return err
	}

	d.KeyProvider = jwks.NewProvider(jwks.Config{
		URL:                cfg.Auth.KeySetURL(),
		Timeout:            cfg.Auth.JWKSTimeout,
		MinRefreshInterval: cfg.Auth.JWKSMinRefresh,
		Cache:              cache,
		CacheTTL:           cfg.Auth.JWKSCacheTTL,
	}, d.Logger)

	verifier := auth.NewVerifier(auth.VerifierConfig{
		Audience:   cfg.Auth.Audience,
		Issuer:     cfg.Auth.Issuer(),
		Algorithms: cfg.Auth.Algorithms,
		Leeway:     cfg.Auth.Leeway,
	}, d.KeyProvider)
	d.AuthMiddleware = middleware.NewAuthMiddleware(verifier, d.Logger)

	d.Logger.Info("token verification initialized",
		zap.String("issuer", cfg.Auth.Issuer()),
		zap.String("audience", cfg.Auth.Audience),
		zap.String("jwks_url", cfg.Auth.KeySetURL()),
		zap.Strings("algorithms", cfg.Auth.Algorithms))
	return nil
}

// newKeyCache shares key sets through Redis when REDIS_URL is set
func (d *Dependencies) newKeyCache(ctx context.Context, cfg *config.Config) (jwks.Cache, error) {
	if cfg.Redis.URL == "" {
		return jwks.NewMemoryCache(1, cfg.Auth.JWKSCacheTTL), nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	cache := jwks.NewRedisCache(client, cfg.Redis.KeyPrefix, cfg.Auth.JWKSCacheTTL)
	if err := cache.HealthCheck(ctx); err != nil {
		// the provider falls back to fetching, so this is not fatal
		d.Logger.Warn("redis key-set cache unreachable", zap.Error(err))
	}

	d.redis = client
	d.OptionalChecks["jwks_cache"] = cache
	d.Logger.Info("redis key-set cache enabled", zap.String("addr", opts.Addr))
	return cache, nil
}

// rejectAllVerifier rejects all tokens (used when no identity provider is configured)
type rejectAllVerifier struct{}

func (rejectAllVerifier) Verify(context.Context, string) (*auth.Claims, error) {
	return nil, errors.New("authentication not configured")
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
