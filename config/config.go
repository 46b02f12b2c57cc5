package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const devSecret = "dev-secret-change-in-production"

type Config struct {
	Port string
	Env  string

	MongoURI     string
	DBUser       string
	DBPass       string
	DBCluster    string
	DBName       string
	MongoMaxPool uint64
	StoreTimeout time.Duration

	TokenSecret string
	TokenTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitRPS   float64
	RateLimitBurst int

	// Hardening switches, all off by default.
	BookingSchemaValidation bool
	RequireAuthForMutations bool
	ScopeUnfilteredBookings bool

	CORSOrigins []string
}

// Load reads the process environment. Call godotenv.Load first if a .env file should apply.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "5000"),
		Env:          getEnv("ENV", "development"),
		MongoURI:     os.Getenv("MONGO_URI"),
		DBUser:       os.Getenv("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBCluster:    getEnv("DB_CLUSTER", "cluster0.6jia9zl.mongodb.net"),
		DBName:       getEnv("DB_NAME", "carDoctor"),
		MongoMaxPool: uint64(getInt("MONGO_MAX_POOL", 100)),
		StoreTimeout: getDuration("STORE_TIMEOUT", 10*time.Second),

		TokenSecret: getEnv("ACCESS_TOKEN_SECRET", devSecret),
		TokenTTL:    getDuration("TOKEN_TTL", time.Hour),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 10),

		BookingSchemaValidation: getBool("BOOKING_SCHEMA_VALIDATION"),
		RequireAuthForMutations: getBool("REQUIRE_AUTH_FOR_MUTATIONS"),
		ScopeUnfilteredBookings: getBool("SCOPE_UNFILTERED_BOOKINGS"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}

	if cfg.Env == "production" && cfg.TokenSecret == devSecret {
		return cfg, errors.New("ACCESS_TOKEN_SECRET must be set in production")
	}
	if cfg.MongoURI == "" && (cfg.DBUser == "" || cfg.DBPass == "") {
		return cfg, errors.New("either MONGO_URI or DB_USER and DB_PASS must be set")
	}
	return cfg, nil
}

// MongoConnectionString returns MONGO_URI when set, otherwise the Atlas SRV string
// assembled from the credentials and cluster host.
func (c Config) MongoConnectionString() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBCluster,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

// Addr is the listen address for net/http.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func getBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
