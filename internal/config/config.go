package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends selectable through STORE_BACKEND.
const (
	BackendMongo    = "mongo"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Collections holds the Mongo collection names.
type Collections struct {
	Stores    string
	Menus     string
	Accounts  string
	Likes     string
	Donations string
	Counters  string
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr           string
	AppEnv         string
	LogLevel       string
	BasePath       string
	StoreBackend   string
	MongoURI       string
	MongoDatabase  string
	Collections    Collections
	DatabaseURL    string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	JWTConfigs     []JWTConfig
	JWTAudience    string
	AdminJWT       JWTConfig
	AllowedOrigins []string
}

// Load reads .env (when present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load(".env", ".env.local")
	return load(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("API_BASE_PATH", "/api/v1")
	v.SetDefault("STORE_BACKEND", BackendSQLite)
	v.SetDefault("MONGO_URI", "mongodb://mongo:27017/?replicaSet=rs0")
	v.SetDefault("MONGO_DB", "mymoo")
	v.SetDefault("STORE_COLLECTION", "stores")
	v.SetDefault("MENU_COLLECTION", "menus")
	v.SetDefault("ACCOUNT_COLLECTION", "accounts")
	v.SetDefault("LIKE_COLLECTION", "store_likes")
	v.SetDefault("DONATION_COLLECTION", "donations")
	v.SetDefault("COUNTER_COLLECTION", "counters")
	v.SetDefault("DATABASE_URL", "mymoo.db")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")
	v.SetDefault("REQUEST_TIMEOUT", "5s")
	v.SetDefault("AUTH_LINE_JWT_ISSUER", "mymoo-auth")
	v.SetDefault("AUTH_TWITTER_JWT_ISSUER", "auth-twitter")
	v.SetDefault("ADMIN_JWT_ISSUER", "mymoo-admin")
	v.SetDefault("API_ALLOWED_ORIGINS", "*")
	return v
}

func load(v *viper.Viper) (Config, error) {
	backend := strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND")))
	switch backend {
	case BackendMongo, BackendSQLite, BackendPostgres:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_BACKEND %q", backend)
	}

	connectTimeout, err := parseDuration(v, "MONGO_CONNECT_TIMEOUT")
	if err != nil {
		return Config{}, err
	}
	requestTimeout, err := parseDuration(v, "REQUEST_TIMEOUT")
	if err != nil {
		return Config{}, err
	}

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(v.GetString("AUTH_LINE_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{Issuer: v.GetString("AUTH_LINE_JWT_ISSUER"), Secret: []byte(secret)})
	}
	if secret := strings.TrimSpace(v.GetString("AUTH_TWITTER_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{Issuer: v.GetString("AUTH_TWITTER_JWT_ISSUER"), Secret: []byte(secret)})
	}

	jwtAudience := strings.TrimSpace(v.GetString("AUTH_JWT_AUDIENCE"))
	if jwtAudience == "" {
		jwtAudience = strings.TrimSpace(v.GetString("AUTH_LINE_JWT_AUDIENCE"))
	}

	return Config{
		Addr:          v.GetString("HTTP_ADDR"),
		AppEnv:        strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		LogLevel:      v.GetString("LOG_LEVEL"),
		BasePath:      normaliseBasePath(v.GetString("API_BASE_PATH")),
		StoreBackend:  backend,
		MongoURI:      v.GetString("MONGO_URI"),
		MongoDatabase: v.GetString("MONGO_DB"),
		Collections: Collections{
			Stores:    v.GetString("STORE_COLLECTION"),
			Menus:     v.GetString("MENU_COLLECTION"),
			Accounts:  v.GetString("ACCOUNT_COLLECTION"),
			Likes:     v.GetString("LIKE_COLLECTION"),
			Donations: v.GetString("DONATION_COLLECTION"),
			Counters:  v.GetString("COUNTER_COLLECTION"),
		},
		DatabaseURL:    v.GetString("DATABASE_URL"),
		ConnectTimeout: connectTimeout,
		RequestTimeout: requestTimeout,
		JWTConfigs:     jwtConfigs,
		JWTAudience:    jwtAudience,
		AdminJWT: JWTConfig{
			Issuer: v.GetString("ADMIN_JWT_ISSUER"),
			Secret: []byte(strings.TrimSpace(v.GetString("ADMIN_JWT_SECRET"))),
		},
		AllowedOrigins: parseList(v.GetString("API_ALLOWED_ORIGINS"), []string{"*"}),
	}, nil
}

// ValidateAuth reports whether the API server can verify caller tokens.
func (c Config) ValidateAuth() error {
	if len(c.JWTConfigs) == 0 {
		return errors.New("JWT secrets not configured. Set AUTH_TWITTER_JWT_SECRET or AUTH_LINE_JWT_SECRET")
	}
	return nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return parsed, nil
}

func normaliseBasePath(input string) string {
	trimmed := strings.Trim(strings.TrimSpace(input), "/")
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}

func parseList(raw string, fallback []string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
