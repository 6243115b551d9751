package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adventure_hunt/internal/api"
	"adventure_hunt/internal/app/service"
	"adventure_hunt/internal/common"
	"adventure_hunt/internal/common/security"
	"adventure_hunt/internal/domain/repository"
	"adventure_hunt/internal/platform/cache"
	"adventure_hunt/internal/platform/config"
	"adventure_hunt/internal/platform/database"
	"adventure_hunt/internal/provider"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	config.Load()

	// 2. Initialize Logger
	common.InitLogger()
	defer common.Logger.Sync()
	common.Logger.Info("Configuration loaded")

	// 3. Initialize JWT
	security.InitJWT()

	// 4. Initialize Database
	database.Connect()
	defer database.Close()
	if err := database.Migrate(context.Background()); err != nil {
		common.Logger.Fatal("Database migration failed", zap.Error(err))
	}
	common.Logger.Info("Database connected")

	// 5. Initialize Cache Store
	var store cache.Store
	switch config.AppConfig.CacheBackend {
	case "memory":
		store = cache.NewMemoryStore()
		common.Logger.Info("Using in-memory cache store")
	default:
		cache.ConnectRedis()
		defer cache.CloseRedis()
		store = cache.NewRedisStore(cache.RDB)
		common.Logger.Info("Redis connected")
	}

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	challengeRepo := repository.NewPgChallengeRepository(database.DB)
	progressRepo := repository.NewPgProgressRepository(database.DB)

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo)
	challengeService := service.NewChallengeService(challengeRepo, progressRepo)

	// 8. Initialize Provider Adapters
	cfg := config.AppConfig
	client := provider.NewClient(cfg.ProviderTimeout)
	providers := api.Providers{
		Pokemon: provider.NewPokemonAdapter(client, store, cfg.PokeAPIBaseURL,
			cfg.ProviderCacheTTL, cfg.PokemonRateLimit, cfg.PokemonRateWindow),
		Weather: provider.NewWeatherAdapter(client, cfg.OpenWeatherURL, cfg.OpenWeatherKey),
		News:    provider.NewNewsAdapter(client, cfg.NewsAPIBaseURL, cfg.NewsAPIKey),
		Jokes:   provider.NewJokeAdapter(client, cfg.JokeAPIBaseURL),
		Gifs:    provider.NewGiphyAdapter(client, cfg.GiphyBaseURL, cfg.GiphyKey),
		Coins:   provider.NewCoinGeckoAdapter(client, cfg.CoinGeckoBaseURL),
	}

	// 9. Initialize Router & HTTP Server
	router := api.NewRouter(authService, challengeService, providers)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		common.Logger.Info("Server starting", zap.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.Logger.Fatal("Could not listen", zap.String("port", cfg.APIPort), zap.Error(err))
		}
	}()

	<-stop

	common.Logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		common.Logger.Fatal("Server shutdown failed", zap.Error(err))
	}

	common.Logger.Info("Server stopped gracefully")
}
