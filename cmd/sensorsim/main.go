// sensorsim plays the remote sensor role: it seals measurement reports
// with the shared key and publishes them on the primary radio domain at a
// fixed interval. Useful for exercising a station without radio hardware.
package main

import (
	"flag"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"sensormesh/pkg/config"
	"sensormesh/pkg/domain"
	"sensormesh/pkg/factory"
	"sensormesh/pkg/logger"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	appLogger := logger.ComponentLogger("sensorsim")

	configFile := flag.String("config", "config.yaml", "Configuration file path")
	node := flag.Uint("node", 1, "Source node address (0-254)")
	interval := flag.Duration("interval", 10*time.Second, "Delay between reports")
	count := flag.Int("count", 0, "Number of reports to send (0 = run until interrupted)")
	repeat := flag.Int("repeat", 2, "Transmissions per report, for lossy-link reliability")
	flag.Parse()

	cfg, err := config.LoadStationConfig(*configFile)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		appLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	f := factory.NewFactory(cfg)
	authenticator := f.CreateAuthenticator()

	tr := f.CreateMQTTTransport(cfg.GetStationConfig().GetPrimaryDomain())
	if err := tr.Connect(); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect transport")
	}
	defer tr.Close()

	// Truncated Unix time as the starting sequence keeps the counter
	// increasing across sensor restarts without persisted state.
	seq := uint32(time.Now().Unix())
	source := uint8(*node)
	volts := 4.1
	tempF := 70.0

	for sent := 0; *count == 0 || sent < *count; sent++ {
		seq++
		volts -= rand.Float64() * 0.002
		tempF += (rand.Float64() - 0.5) * 2

		m := domain.Measurement{Source: source, Sequence: seq, Volts: volts, TempF: tempF}
		frame := authenticator.Seal(m)
		header := domain.Header{Dst: domain.BroadcastAddr, Src: source, ID: uint8(sent)}

		for i := 0; i < *repeat; i++ {
			if err := tr.Send(frame, header); err != nil {
				appLogger.Warn().Err(err).Msg("send failed")
			}
		}

		appLogger.Info().
			Uint8("node", source).
			Uint32("seq", seq).
			Float64("volts", volts).
			Float64("temp_f", tempF).
			Msg("tx")

		time.Sleep(*interval)
	}
}
