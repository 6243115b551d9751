package api

import (
	"net/http"
	"time"

	"adventure_hunt/internal/api/handler"
	"adventure_hunt/internal/api/middleware"
	"adventure_hunt/internal/app/service"
	"adventure_hunt/internal/common/security"
	"adventure_hunt/internal/platform/config"
	"adventure_hunt/internal/provider"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

// Providers bundles the external API adapters mounted under /api/v1.
type Providers struct {
	Pokemon *provider.PokemonAdapter
	Weather *provider.WeatherAdapter
	News    *provider.NewsAdapter
	Jokes   *provider.JokeAdapter
	Gifs    *provider.GiphyAdapter
	Coins   *provider.CoinGeckoAdapter
}

func NewRouter(
	authService *service.AuthService,
	challengeService *service.ChallengeService,
	providers Providers,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.RateLimit(config.AppConfig.APIRatePerSecond, config.AppConfig.APIRateBurst))

	// Verifies the Bearer token and puts claims in context; enforcement
	// happens per-route via middleware.Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(authService, challengeService)
		v1.Route("/users", userHandler.RegisterRoutes)

		challengeHandler := handler.NewChallengeHandler(challengeService)
		v1.Route("/challenges", challengeHandler.RegisterRoutes)

		pokemonHandler := handler.NewPokemonHandler(providers.Pokemon)
		v1.Route("/pokemon", pokemonHandler.RegisterRoutes)

		weatherHandler := handler.NewWeatherHandler(providers.Weather)
		v1.Route("/weather", weatherHandler.RegisterRoutes)

		newsHandler := handler.NewNewsHandler(providers.News)
		v1.Route("/news", newsHandler.RegisterRoutes)

		jokeHandler := handler.NewJokeHandler(providers.Jokes)
		v1.Route("/jokes", jokeHandler.RegisterRoutes)

		giphyHandler := handler.NewGiphyHandler(providers.Gifs)
		v1.Route("/gifs", giphyHandler.RegisterRoutes)

		coinHandler := handler.NewCoinHandler(providers.Coins)
		v1.Route("/coins", coinHandler.RegisterRoutes)
	})

	return r
}
