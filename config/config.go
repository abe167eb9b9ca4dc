package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Live capability credentials. Any of these may be empty: the
	// owning component then runs in fallback mode instead of failing.
	GoogleAPIKey          string `mapstructure:"GOOGLE_API_KEY"`
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	GoogleCalendarID      string `mapstructure:"GOOGLE_CALENDAR_ID"`

	// Redis configuration (proposal session cache + reminder queue).
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Mongo booking-record archive (optional).
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Pipeline tuning.
	MaxBookingRetries  int     `mapstructure:"MAX_BOOKING_RETRIES"`
	CapabilityTimeoutS int     `mapstructure:"CAPABILITY_TIMEOUT_S"`
	DefaultRadiusKm    float64 `mapstructure:"DEFAULT_RADIUS_KM"`
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
	viper.SetDefault("GOOGLE_API_KEY", "")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	viper.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_NAME", "bookpilot")
	viper.SetDefault("MAX_BOOKING_RETRIES", 3)
	viper.SetDefault("CAPABILITY_TIMEOUT_S", 5)
	viper.SetDefault("DEFAULT_RADIUS_KM", 10)

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

// LiveSearchConfigured reports whether the Places capability has credentials.
func LiveSearchConfigured() bool {
	return AppConfig.GoogleAPIKey != ""
}

// LiveCalendarConfigured reports whether the Calendar capability has credentials.
func LiveCalendarConfigured() bool {
	return AppConfig.GoogleCredentialsFile != ""
}

// RedisConfigured reports whether a Redis address was provided.
func RedisConfigured() bool {
	return AppConfig.RedisAddr != ""
}

// MongoConfigured reports whether a Mongo URL was provided.
func MongoConfigured() bool {
	return AppConfig.DatabaseURL != ""
}
