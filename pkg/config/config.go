package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Session  SessionConfig
	Cache    CacheConfig
	Payments PaymentsConfig
	Address  AddressConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// BackendConfig points at the hotel API this edge fronts.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
	Enabled  bool
}

type NATSConfig struct {
	URL     string
	Enabled bool
}

type SessionConfig struct {
	JWTSecret     string
	CookieTTL     time.Duration
	CookieSecure  bool
	AccessCookie  string
	RefreshCookie string
	ProfileCookie string
	BookingCookie string
}

type CacheConfig struct {
	StalenessHorizon time.Duration
	RetryAttempts    int
}

type PaymentsConfig struct {
	PollInterval time.Duration
	MaxWait      time.Duration
}

type AddressConfig struct {
	BaseURL string
	Timeout time.Duration
}

func Load() *Config {
	// Best effort: a missing .env is normal outside local development.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:3000/api"),
			Timeout: getDuration("BACKEND_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
			Enabled:  getBool("REDIS_ENABLED", false),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getBool("NATS_ENABLED", false),
		},
		Session: SessionConfig{
			JWTSecret:     getEnv("JWT_SECRET", "dev-only-secret-change-in-prod"),
			CookieTTL:     getDuration("SESSION_COOKIE_TTL", 365*24*time.Hour),
			CookieSecure:  getBool("SESSION_COOKIE_SECURE", true),
			AccessCookie:  getEnv("ACCESS_COOKIE_NAME", "accessToken"),
			RefreshCookie: getEnv("REFRESH_COOKIE_NAME", "refreshToken"),
			ProfileCookie: getEnv("PROFILE_COOKIE_NAME", "user"),
			BookingCookie: getEnv("BOOKING_COOKIE_NAME", "booking"),
		},
		Cache: CacheConfig{
			StalenessHorizon: getDuration("CACHE_STALENESS_HORIZON", 60*time.Second),
			RetryAttempts:    getInt("CACHE_RETRY_ATTEMPTS", 3),
		},
		Payments: PaymentsConfig{
			PollInterval: getDuration("PAYMENT_POLL_INTERVAL", 3*time.Second),
			MaxWait:      getDuration("PAYMENT_MAX_WAIT", 2*time.Minute),
		},
		Address: AddressConfig{
			BaseURL: getEnv("ADDRESS_BASE_URL", "https://provinces.open-api.vn/api"),
			Timeout: getDuration("ADDRESS_TIMEOUT", 5*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
