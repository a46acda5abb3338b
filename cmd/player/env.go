package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Environment struct {
	Environment    string
	ServerURL      string
	DeviceID       string
	ScreenID       int
	CacheDir       string
	ControlAddress string
	MQTTBrokerURL  string
}

// LoadEnvironment reads and validates env vars
func LoadEnvironment() Environment {
	_ = godotenv.Load()

	env := Environment{
		Environment:    os.Getenv("APP_ENV"),
		ServerURL:      os.Getenv("SERVER_URL"),
		DeviceID:       os.Getenv("DEVICE_ID"),
		CacheDir:       os.Getenv("CACHE_DIR"),
		ControlAddress: os.Getenv("CONTROL_ADDRESS"),
		MQTTBrokerURL:  os.Getenv("MQTT_BROKER_URL"),
	}

	if raw := os.Getenv("SCREEN_ID"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatal().Str("screen_id", raw).Msg("SCREEN_ID must be an integer")
		}
		env.ScreenID = parsed
	}

	if env.CacheDir == "" {
		env.CacheDir = "cache"
	}
	if env.ControlAddress == "" {
		env.ControlAddress = "127.0.0.1:8089"
	}

	if env.ServerURL == "" {
		log.Fatal().Msg("missing required environment variable: SERVER_URL")
	}
	if env.ScreenID == 0 && env.DeviceID == "" {
		log.Fatal().Msg("set SCREEN_ID or DEVICE_ID so the player knows which screen it drives")
	}

	return env
}
