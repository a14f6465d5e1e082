package main

import (
	"flag"
	"time"

	"github.com/rs/zerolog"

	"sensormesh/pkg/config"
	"sensormesh/pkg/logger"
	"sensormesh/pkg/station"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	appLogger := logger.ComponentLogger("main")

	configFile := flag.String("config", "config.yaml", "Configuration file path")
	flag.Parse()

	cfg, err := config.LoadStationConfig(*configFile)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	app := station.NewApp(cfg)

	appLogger.Info().Msg("starting sensormesh station")
	if err := app.Run(); err != nil {
		appLogger.Fatal().Err(err).Msg("application error")
	}
}
