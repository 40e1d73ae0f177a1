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

	// Booking store.
	StoreDriver  string `mapstructure:"STORE_DRIVER"`
	DataFile     string `mapstructure:"DATA_FILE"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis / dispatch queue.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisQueueDB     int    `mapstructure:"REDIS_QUEUE_DB"`
	QueueDriver      string `mapstructure:"QUEUE_DRIVER"`
	QueueConcurrency int    `mapstructure:"QUEUE_CONCURRENCY"`

	// Email notifications.
	EmailUser string `mapstructure:"EMAIL_USER"`
	EmailPass string `mapstructure:"EMAIL_PASS"`
	SMTPHost  string `mapstructure:"SMTP_HOST"`
	SMTPPort  int    `mapstructure:"SMTP_PORT"`

	// Venue details used in outbound messages.
	ClinicName    string `mapstructure:"CLINIC_NAME"`
	ClinicAddress string `mapstructure:"CLINIC_ADDRESS"`
	ClinicPhone   string `mapstructure:"CLINIC_PHONE"`
	ClinicWebsite string `mapstructure:"CLINIC_WEBSITE"`

	// Google Calendar.
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRefreshToken string `mapstructure:"GOOGLE_REFRESH_TOKEN"`
	GoogleCalendarID   string `mapstructure:"GOOGLE_CALENDAR_ID"`
	CalendarTimeZone   string `mapstructure:"CALENDAR_TIME_ZONE"`

	// Business hours.
	OpenHour             int  `mapstructure:"OPEN_HOUR"`
	CloseHour            int  `mapstructure:"CLOSE_HOUR"`
	SlotMinutes          int  `mapstructure:"SLOT_MINUTES"`
	SlotStepMinutes      int  `mapstructure:"SLOT_STEP_MINUTES"`
	EnforceSlotAlignment bool `mapstructure:"ENFORCE_SLOT_ALIGNMENT"`
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

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "3000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)

	viper.SetDefault("STORE_DRIVER", "file")
	viper.SetDefault("DATA_FILE", "data/bookings.json")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_NAME", "appointly")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_QUEUE_DB", 0)
	viper.SetDefault("QUEUE_DRIVER", "inline")
	viper.SetDefault("QUEUE_CONCURRENCY", 4)

	viper.SetDefault("EMAIL_USER", "")
	viper.SetDefault("EMAIL_PASS", "")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 465)

	viper.SetDefault("CLINIC_NAME", "NY Manual Physical Therapy")
	viper.SetDefault("CLINIC_ADDRESS", "5608 New Utrecht Avenue, Brooklyn, NY 11219")
	viper.SetDefault("CLINIC_PHONE", "(929) 705-0376")
	viper.SetDefault("CLINIC_WEBSITE", "https://newyorkmanualpt.com")

	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REFRESH_TOKEN", "")
	viper.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	viper.SetDefault("CALENDAR_TIME_ZONE", "America/New_York")

	viper.SetDefault("OPEN_HOUR", 10)
	viper.SetDefault("CLOSE_HOUR", 18)
	viper.SetDefault("SLOT_MINUTES", 20)
	viper.SetDefault("SLOT_STEP_MINUTES", 20)
	viper.SetDefault("ENFORCE_SLOT_ALIGNMENT", true)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// EmailEnabled reports whether SMTP credentials were provided.
func EmailEnabled() bool {
	return AppConfig.EmailUser != "" && AppConfig.EmailPass != ""
}

// CalendarEnabled reports whether Google Calendar credentials were provided.
func CalendarEnabled() bool {
	return AppConfig.GoogleClientID != "" && AppConfig.GoogleClientSecret != "" && AppConfig.GoogleRefreshToken != ""
}
