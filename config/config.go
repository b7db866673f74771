package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowedOrigins    string `mapstructure:"ALLOWED_ORIGINS"`

	// Analysis backend.
	BackendURL            string `mapstructure:"BACKEND_URL"`
	BackendTimeoutSeconds int    `mapstructure:"BACKEND_TIMEOUT_SECONDS"`

	// Firebase identity.
	FirebaseAPIKey            string `mapstructure:"FIREBASE_API_KEY"`
	FirebaseCredentialsFile   string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	TokenRefreshMarginSeconds int    `mapstructure:"TOKEN_REFRESH_MARGIN_SECONDS"`

	// Redis session persistence. Empty RedisAddr keeps sessions in memory.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB  int    `mapstructure:"REDIS_SESSION_DB"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`

	VisitorCacheSize      int    `mapstructure:"VISITOR_CACHE_SIZE"`
	ProfileMaritalDefault string `mapstructure:"PROFILE_MARITAL_DEFAULT"`
}

var AppConfig Config

// LoadConfig reads config.yaml from "." or "./config" (or cfgFile when set)
// and overlays environment variables.
func LoadConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("BACKEND_URL", "http://127.0.0.1:5000")
	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 90)
	viper.SetDefault("FIREBASE_API_KEY", "")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("TOKEN_REFRESH_MARGIN_SECONDS", 300)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("SESSION_TTL_HOURS", 24*30)
	viper.SetDefault("VISITOR_CACHE_SIZE", 1024)
	viper.SetDefault("PROFILE_MARITAL_DEFAULT", "na")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// BackendTimeout is the bound applied to every backend call.
func (c Config) BackendTimeout() time.Duration {
	if c.BackendTimeoutSeconds <= 0 {
		return 90 * time.Second
	}
	return time.Duration(c.BackendTimeoutSeconds) * time.Second
}

// TokenRefreshMargin is how long before expiry a bearer token is renewed.
func (c Config) TokenRefreshMargin() time.Duration {
	return time.Duration(c.TokenRefreshMarginSeconds) * time.Second
}

// SessionTTL bounds how long a persisted sign-in survives.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// Origins splits ALLOWED_ORIGINS on commas. An empty setting allows any
// origin.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
