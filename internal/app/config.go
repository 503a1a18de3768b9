package app

import (
	"time"

	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
	"github.com/ampolabs/batchweigh-backend/internal/utils"
)

type Config struct {
	Port         string
	JWTSecretKey string
	TokenTTL     time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	tokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 28800, log)
	return Config{
		Port:         port,
		JWTSecretKey: jwtSecretKey,
		TokenTTL:     time.Duration(tokenTTLSeconds) * time.Second,
	}
}
