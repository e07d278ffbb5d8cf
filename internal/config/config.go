package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration. It is built once at startup and
// passed by injection; core logic never reads the environment directly.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	OTLPEndpoint string

	// Chat platform.
	DiscordToken string
	GuildID      string
	FreeRoleName string

	// Storefront catalog.
	StoreBaseURL   string
	StoreKey       string
	StoreSecret    string
	CatalogTimeout time.Duration

	// Ops HTTP server.
	HTTPAddr string

	// Claim audit store.
	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	// Optional claim lock.
	RedisAddr     string
	RedisPassword string
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewTierTableHolder),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "rolesync"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DiscordToken: strings.TrimSpace(getenv("DISCORD_TOKEN", "")),
		GuildID:      strings.TrimSpace(getenv("GUILD_ID", "")),
		FreeRoleName: getenv("FREE_ROLE", "Free"),

		StoreBaseURL:   strings.TrimRight(getenv("WOOCOMMERCE_URL", "https://academiadecienciasdelejercicio.com"), "/"),
		StoreKey:       strings.TrimSpace(getenv("WOOCOMMERCE_KEY", "")),
		StoreSecret:    strings.TrimSpace(getenv("WOOCOMMERCE_SECRET", "")),
		CatalogTimeout: getenvDuration("WOOCOMMERCE_TIMEOUT", 10*time.Second),

		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		DBType:            getenv("DATABASE_TYPE", "sqlite"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "rolesync"),
		DBUser:            getenv("DATABASE_USER", "rolesync"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
