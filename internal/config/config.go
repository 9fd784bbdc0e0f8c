package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config carries everything the server reads from the environment.
type Config struct {
	Port             string
	MongoURI         string
	DatabaseName     string
	JWTSecret        string
	JWTExpiry        time.Duration
	MQTTBrokerURL    string
	TelegramBotToken string
	GeminiAPIKey     string
}

// Load reads .env when present and assembles the runtime configuration.
// A missing .env is not an error; deployed environments inject variables
// directly.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:     getEnv("MONGO_DATABASE", "workshop"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTExpiry:        getDuration("JWT_EXPIRY", 24*time.Hour),
		MQTTBrokerURL:    getEnv("MQTT_BROKER_URL", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Invalid duration, using default")
		return fallback
	}
	return d
}
