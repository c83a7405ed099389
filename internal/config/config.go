package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken     string
	OwnerID      int64
	AdminGroupID int64

	MongoURI  string
	MongoDB   string
	RedisAddr string

	Port string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:  os.Getenv("BOT_TOKEN"),
		MongoURI:  getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "mlbb_bot"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		Port:      getEnv("PORT", "8080"),
	}

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}

	ownerID, err := strconv.ParseInt(getEnv("OWNER_ID", "0"), 10, 64)
	if err != nil || ownerID == 0 {
		return nil, errors.New("OWNER_ID must be a Telegram user id")
	}
	cfg.OwnerID = ownerID

	// Group notifications are optional. Zero means "no admin group".
	cfg.AdminGroupID, _ = strconv.ParseInt(getEnv("ADMIN_GROUP_ID", "0"), 10, 64)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
