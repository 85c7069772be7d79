package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	cartRepo "github.com/ridloal/e-commerce-go-storefront/internal/cart/repository"
	cartService "github.com/ridloal/e-commerce-go-storefront/internal/cart/service"
	catalogService "github.com/ridloal/e-commerce-go-storefront/internal/catalog/service"
	"github.com/ridloal/e-commerce-go-storefront/internal/localstate"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/apiclient"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/config"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/database"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/status"
	"github.com/ridloal/e-commerce-go-storefront/internal/storefront"
	storefrontAPI "github.com/ridloal/e-commerce-go-storefront/internal/storefront/api"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load Config
	config.LoadDotEnv()
	cfg := config.LoadStorefrontConfig()

	// Setup Logger
	logger.Init(logger.Options{Service: "storefront", Env: cfg.AppEnv, Level: cfg.LogLevel})
	logger.Info("Starting Storefront...")

	if err := run(cfg); err != nil {
		logger.Error("Storefront stopped with error", err)
		os.Exit(1)
	}
}

func run(cfg config.StorefrontConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Setup local state
	store, closeStore, err := openStateStore(ctx, cfg.State)
	if err != nil {
		return err
	}
	defer closeStore()

	// Setup Dependencies
	api := apiclient.New(cfg.API.BaseURL, apiclient.Options{
		Timeout:        cfg.API.Timeout,
		CircuitBreaker: cfg.API.CircuitBreaker,
	})
	shared := status.New()
	catalogStore := catalogService.NewStore(catalogService.NewHTTPCatalogClient(api), shared, cfg.ImageFetchConcurrency)
	cartStore := cartService.NewStore(cartService.NewHTTPCartClient(api), cartRepo.NewLocalCartCache(store), shared)
	theme := localstate.NewThemePreference(store)

	state := storefront.NewAppState(catalogStore, cartStore, theme, shared)
	state.Init(ctx)

	syncer, err := storefront.NewSyncer(state, cfg.SyncSchedule)
	if err != nil {
		return err
	}
	syncer.Start()

	// Setup Gin Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.RedirectTrailingSlash = false

	storefrontAPI.NewStorefrontHandler(state).RegisterRoutes(router.Group(""))

	proxy, err := newSingleHostReverseProxy(cfg.API.BaseURL)
	if err != nil {
		return err
	}
	router.Any("/api/*path", proxyHandler(proxy))
	logger.Info("Routing /api/* to %s", cfg.API.BaseURL)

	server := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           newCORS(cfg.CORSAllowedOrigins).Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Storefront running on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			syncer.Stop(context.Background())
			return fmt.Errorf("storefront server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	syncer.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Storefront stopped")
	return nil
}

// newCORS allows the configured origins. There is no auth, so credentials
// are never allowed.
func newCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
}

// openStateStore opens the durable store for the cached cart and theme.
func openStateStore(ctx context.Context, cfg config.StateConfig) (localstate.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("Local state stored in redis at %s (db %d)", cfg.RedisAddr, cfg.RedisDB)
		return localstate.NewRedisStore(client), func() { client.Close() }, nil
	case "sqlite", "":
		db, err := database.Connect(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Local state stored in sqlite file %s", cfg.DBPath)
		return localstate.NewSQLiteStore(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown STATE_BACKEND %q", cfg.Backend)
	}
}
