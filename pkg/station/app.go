// Package station runs the base-station application: one control loop
// that polls the primary transport, feeds received frames through the
// packet pipeline and keeps the status display fresh. All protocol state
// (replay tracker, history) is owned by this loop; nothing else writes it.
package station

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"sensormesh/pkg/aggregate"
	"sensormesh/pkg/domain"
	"sensormesh/pkg/errors"
	"sensormesh/pkg/factory"
	"sensormesh/pkg/infrastructure"
	"sensormesh/pkg/logger"
)

type App struct {
	config     domain.Config
	factory    *factory.Factory
	collector  domain.MetricsCollector
	aggregator *aggregate.Aggregator
	processor  domain.PacketProcessor
	display    domain.Display
	primary    domain.Transport
	uplink     domain.Transport
	broker     *infrastructure.EmbeddedBroker
	metrics    *infrastructure.MetricsServer
	logger     zerolog.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewApp(config domain.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		config:  config,
		factory: factory.NewFactory(config),
		display: NewLogDisplay(),
		logger:  logger.ComponentLogger("station"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (a *App) Run() error {
	if err := a.config.Validate(); err != nil {
		return errors.NewConfigError("invalid configuration", err)
	}

	if a.config.GetMQTTConfig().GetEmbeddedBroker() {
		a.broker = a.factory.CreateEmbeddedBroker()
		if err := a.broker.Start(); err != nil {
			return err
		}
	}

	if err := a.setupComponents(); err != nil {
		return err
	}

	a.metrics = a.factory.CreateMetricsServer(a.collector)
	if err := a.metrics.Start(a.ctx); err != nil {
		return errors.NewTransportError("failed to start metrics server", err)
	}

	go a.controlLoop()
	a.logger.Info().Msg("station started")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	return a.Shutdown()
}

func (a *App) setupComponents() error {
	station := a.config.GetStationConfig()

	primary := a.factory.CreateMQTTTransport(station.GetPrimaryDomain())
	if err := primary.Connect(); err != nil {
		return err
	}
	a.primary = primary

	if uplinkDomain := station.GetUplinkDomain(); uplinkDomain != "" {
		uplink := a.factory.CreateMQTTTransport(uplinkDomain)
		if err := uplink.Connect(); err != nil {
			return err
		}
		a.uplink = uplink
	}

	a.collector = a.factory.CreateMetricsCollector("station")
	a.aggregator = a.factory.CreateAggregator(time.Now())

	r := a.factory.CreateRelay(a.primary, a.uplink, a.collector)
	a.processor = a.factory.CreatePipeline(a.aggregator, r, a.collector)

	a.display.Show(a.aggregator.Summarize(time.Now()))
	return nil
}

// controlLoop is the single thread of control touching protocol state. A
// receive timeout is not an error: it triggers a display refresh so
// freshness tags age even without traffic.
func (a *App) controlLoop() {
	timeout := a.config.GetStationConfig().GetReceiveTimeout()

	for {
		select {
		case <-a.ctx.Done():
			return
		default:
		}

		in, err := a.primary.Receive(timeout)
		if err != nil {
			a.logger.Error().Err(err).Msg("receive failed")
			continue
		}

		now := time.Now()
		if in != nil {
			if err := a.processor.Process(a.ctx, in.Payload, in.Header, in.Signal, a.primary.Name(), now); err != nil {
				a.logger.Error().Err(err).Msg("packet processing failed")
			}
		}
		a.display.Show(a.aggregator.Summarize(now))
	}
}

func (a *App) Shutdown() error {
	a.logger.Info().Msg("shutting down")
	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), domain.DefaultTimeout/domain.ShutdownTimeoutDivider)
	defer cancel()

	if stateFile := a.config.GetMetricsConfig().GetStateFile(); stateFile != "" && a.collector != nil {
		if err := a.collector.SaveState(stateFile); err != nil {
			a.logger.Error().Err(err).Msg("state save failed")
		}
	}

	if a.metrics != nil {
		if err := a.metrics.Shutdown(ctx); err != nil {
			a.logger.Error().Err(err).Msg("metrics server shutdown error")
		}
	}
	if a.primary != nil {
		_ = a.primary.Close()
	}
	if a.uplink != nil {
		_ = a.uplink.Close()
	}
	if a.broker != nil {
		_ = a.broker.Close()
	}

	a.logger.Info().Msg("shutdown completed")
	return nil
}
