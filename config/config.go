package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Carrier gateway.
	CarrierAPIBaseURL string `mapstructure:"CARRIER_API_BASE_URL"`
	CarrierAPIKey     string `mapstructure:"CARRIER_API_KEY"`

	// Seconds the carrier needs to settle a reservation before a label
	// can be requested.
	LabelSettleDelaySec int `mapstructure:"LABEL_SETTLE_DELAY_SEC"`

	// Session TTL in minutes for draft editing sessions cached in Redis.
	SessionTTLMin int `mapstructure:"SESSION_TTL_MIN"`

	// Firebase service account for push notifications (optional).
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "soluship")
	viper.SetDefault("CARRIER_API_BASE_URL", "http://localhost:9090")
	viper.SetDefault("CARRIER_API_KEY", "")
	viper.SetDefault("LABEL_SETTLE_DELAY_SEC", 10)
	viper.SetDefault("SESSION_TTL_MIN", 60)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")

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

// LabelSettleDelay returns the mandatory wait between a carrier reservation
// and a label generation request.
func LabelSettleDelay() time.Duration {
	return time.Duration(AppConfig.LabelSettleDelaySec) * time.Second
}

// SessionTTL returns how long an idle draft editing session is kept in Redis.
func SessionTTL() time.Duration {
	return time.Duration(AppConfig.SessionTTLMin) * time.Minute
}
