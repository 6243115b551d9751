package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CacheBackend selects the keyed store implementation: "redis" or "memory".
	CacheBackend string

	ProviderTimeout  time.Duration
	ProviderCacheTTL time.Duration

	PokeAPIBaseURL   string
	OpenWeatherURL   string
	OpenWeatherKey   string
	NewsAPIBaseURL   string
	NewsAPIKey       string
	JokeAPIBaseURL   string
	GiphyBaseURL     string
	GiphyKey         string
	CoinGeckoBaseURL string

	// Fixed-window quota applied to the Pokemon adapter per client IP.
	PokemonRateLimit  int
	PokemonRateWindow time.Duration

	// Token-bucket limit applied to the whole API surface per client IP.
	APIRatePerSecond float64
	APIRateBurst     int
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort: getEnv("API_PORT", "8080"),
		JWTKey:  []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:  time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "adventure_hunt_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheBackend:  getEnv("CACHE_BACKEND", "redis"),

		ProviderTimeout:  time.Duration(getEnvAsInt("PROVIDER_TIMEOUT_SECONDS", 10)) * time.Second,
		ProviderCacheTTL: time.Duration(getEnvAsInt("PROVIDER_CACHE_TTL_SECONDS", 3600)) * time.Second,

		PokeAPIBaseURL:   getEnv("POKEAPI_BASE_URL", "https://pokeapi.co/api/v2"),
		OpenWeatherURL:   getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		OpenWeatherKey:   getEnv("OPENWEATHER_API_KEY", ""),
		NewsAPIBaseURL:   getEnv("NEWS_BASE_URL", "https://newsapi.org/v2"),
		NewsAPIKey:       getEnv("NEWS_API_KEY", ""),
		JokeAPIBaseURL:   getEnv("JOKE_API_BASE_URL", "https://v2.jokeapi.dev"),
		GiphyBaseURL:     getEnv("GIPHY_BASE_URL", "https://api.giphy.com/v1/gifs"),
		GiphyKey:         getEnv("GIPHY_API_KEY", ""),
		CoinGeckoBaseURL: getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),

		PokemonRateLimit:  getEnvAsInt("POKEMON_RATE_LIMIT", 100),
		PokemonRateWindow: time.Duration(getEnvAsInt("POKEMON_RATE_WINDOW_SECONDS", 600)) * time.Second,

		APIRatePerSecond: float64(getEnvAsInt("API_RATE_PER_SECOND", 20)),
		APIRateBurst:     getEnvAsInt("API_RATE_BURST", 40),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
