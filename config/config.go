package config

import (
	"os"
	"strconv"

	"github.com/klixid/movie-booking/internal/util"
)

type Config struct {
	Env         string
	Addr        string
	DatabaseDSN string
	CacheURL    string
	MQURL       string

	JWTSecret string

	TMDBBaseURL string
	TMDBAPIKey  string

	PaymentSuccessRate float64
}

func LoadConfig() (*Config, error) {
	if err := util.LoadEnv(); err != nil {
		return nil, err
	}
	return &Config{
		Env:                getEnv("APP_ENV", "development"),
		Addr:               getEnv("ADDR", ":4000"),
		DatabaseDSN:        os.Getenv("DATABASE_DSN"),
		CacheURL:           os.Getenv("CACHE_URL"),
		MQURL:              os.Getenv("RABBIT_MQ_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TMDBBaseURL:        getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBAPIKey:         os.Getenv("TMDB_READ_API_KEY"),
		PaymentSuccessRate: getEnvFloat("PAYMENT_SUCCESS_RATE", 0.95),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}
