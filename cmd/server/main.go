package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/db"
	"github.com/vitrine-signage/vitrine/internal/http/middleware"
	"github.com/vitrine-signage/vitrine/internal/redis"
)

func main() {
	env := LoadEnvironment()

	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("could not run migrations")
	}

	redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)

	if env.MQTTBrokerURL != "" {
		middleware.SetBrokerURL(env.MQTTBrokerURL)
	}
	if err := middleware.InitMQTT("vitrine-server"); err != nil {
		// Schedule pushes are an optimization; polling still works.
		log.Warn().Err(err).Msg("MQTT unavailable, schedule pushes disabled")
	}
	defer middleware.CleanupMQTT()

	store := db.NewStore(nil)
	storageSystem := InitStorage(env)

	router := gin.Default()
	RegisterRoutes(router, env, store, storageSystem)

	log.Info().Str("address", env.ServerAddress).Msg("starting server")
	if err := router.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
