package config

import (
	"os"
	"strconv"
	"strings"

	"raccoon_ledger/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	// Role bootstrap
	RootAdminID     int64
	AdminIDs        []int64
	PlannerIDs      []int64
	UpgradeAdminIDs []int64

	// Life purchases
	LifePriceCoins uint64

	// Redis rate limiter (optional, fail-open when empty)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	APIRateLimit  int
	APIRateWindow int // seconds

	LogLevel string
	LogJSON  bool
}

// Load reads the configuration from the environment (.env honored).
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	rootID := parseInt64(os.Getenv("ROOT_ADMIN_ID"), 0)
	if rootID == 0 {
		logger.Fatal("ROOT_ADMIN_ID is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	lifePrice := uint64(100)
	if v := os.Getenv("LIFE_PRICE_COINS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			lifePrice = n
		}
	}

	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}
	apiRateWindow := 60
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = n
		}
	}

	return &Config{
		AppPort:         port,
		DatabaseURL:     dbURL,
		JWTSecret:       jwtSecret,
		RootAdminID:     rootID,
		AdminIDs:        parseIDList(os.Getenv("ADMIN_IDS")),
		PlannerIDs:      parseIDList(os.Getenv("PLANNER_IDS")),
		UpgradeAdminIDs: parseIDList(os.Getenv("UPGRADE_ADMIN_IDS")),
		LifePriceCoins:  lifePrice,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         int(parseInt64(os.Getenv("REDIS_DB"), 0)),
		APIRateLimit:    apiRateLimit,
		APIRateWindow:   apiRateWindow,
		LogLevel:        getDefault("LOG_LEVEL", "info"),
		LogJSON:         os.Getenv("LOG_JSON") == "true",
	}
}

func getDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt64(s string, fallback int64) int64 {
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// parseIDList parses a comma-separated identity list; malformed entries
// are skipped.
func parseIDList(s string) []int64 {
	if s == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
