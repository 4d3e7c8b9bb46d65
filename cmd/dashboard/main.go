/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/telemetry-dashboard/pkg/api"
	"github.com/carverauto/telemetry-dashboard/pkg/config"
	"github.com/carverauto/telemetry-dashboard/pkg/dashboard"
	"github.com/carverauto/telemetry-dashboard/pkg/lifecycle"
	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/natsink"
	"github.com/carverauto/telemetry-dashboard/pkg/poller"
	"github.com/carverauto/telemetry-dashboard/pkg/render"
	"github.com/carverauto/telemetry-dashboard/pkg/tui"
	"github.com/carverauto/telemetry-dashboard/pkg/version"
	"github.com/carverauto/telemetry-dashboard/pkg/web"
)

var (
	errFailedToLoadConfig = errors.New("failed to load config")
)

const (
	serviceName = "telemetry-dashboard"

	// logPanelSize is the virtual panel the log surface maps positions onto.
	logPanelSize = 100
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/telemetry-dashboard/dashboard.json", "Path to dashboard config file")
	baseURL := flag.String("base-url", "", "Override base_url from the config file")
	surface := flag.String("surface", "", "Override surface (tui, log or web)")
	device := flag.String("device", "", "Alias of the device to select on startup")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(serviceName, version.GetFullVersion())
		return nil
	}

	ctx, stop := lifecycle.SignalContext(context.Background())
	defer stop()

	var cfg dashboard.Config

	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	if applyOverrides(&cfg, *baseURL, *surface, *device) {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
		}
	}

	dashLogger, err := lifecycle.CreateComponentLogger(ctx, "dashboard", loggingConfig(&cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			log.Printf("Failed to shutdown logger: %v", err)
		}
	}()

	if _, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName: serviceName,
		OTel:        cfg.Metrics,
	}); err != nil && !errors.Is(err, logger.ErrOTelMetricsDisabled) {
		dashLogger.Warn().Err(err).Msg("Metrics export disabled")
	}

	if _, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName: serviceName,
		OTel:        cfg.Tracing,
	}); err != nil && !errors.Is(err, logger.ErrOTelTracingDisabled) {
		dashLogger.Warn().Err(err).Msg("Trace export disabled")
	}

	return runDashboard(ctx, &cfg, dashLogger)
}

func applyOverrides(cfg *dashboard.Config, baseURL, surface, device string) bool {
	changed := false

	if baseURL != "" {
		cfg.BaseURL = baseURL
		changed = true
	}

	if surface != "" {
		cfg.Surface = surface
		changed = true
	}

	if device != "" {
		cfg.InitialAlias = device
		changed = true
	}

	return changed
}

// loggingConfig keeps log lines off the terminal while the TUI owns it.
func loggingConfig(cfg *dashboard.Config) *logger.Config {
	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stdout",
		}
	}

	if cfg.Surface == dashboard.SurfaceTUI &&
		(logConfig.Output == "" || logConfig.Output == "stdout" || logConfig.Output == "stderr") {
		logConfig.Output = "file:" + filepath.Join(os.TempDir(), serviceName+".log")
	}

	return logConfig
}

func runDashboard(ctx context.Context, cfg *dashboard.Config, log logger.Logger) error {
	client, err := api.NewClient(cfg.BaseURL, log, api.WithTimeout(time.Duration(cfg.RequestTimeout)))
	if err != nil {
		return err
	}

	var (
		surface  render.Surface
		selector dashboard.Selector
		term     *tui.Surface
		server   *web.Server
	)

	switch cfg.Surface {
	case dashboard.SurfaceWeb:
		server = web.NewServer(*cfg.Web, log)
		surface, selector = server, server
	case dashboard.SurfaceLog:
		surface = render.NewLogSurface(log, logPanelSize, logPanelSize)
	default:
		term = tui.NewSurface()
		surface, selector = term, term
	}

	presenter := render.Presenter(render.NewBinder(surface, nil))

	if cfg.NATSEnabled() {
		publisher, err := natsink.Connect(ctx, *cfg.NATS, log)
		if err != nil {
			return err
		}
		defer publisher.Close()

		presenter = render.Multi(presenter, publisher)
	}

	controller, err := poller.NewController(client, presenter, poller.Config{
		Interval: time.Duration(cfg.PollInterval),
	}, nil, log)
	if err != nil {
		return err
	}
	defer controller.Close()

	app := dashboard.NewApp(client, controller, presenter, selector, dashboard.Options{
		InitialAlias:      cfg.InitialAlias,
		DisableAutoSelect: cfg.DisableAutoSelect,
	}, log)

	log.Info().
		Str("base_url", client.BaseURL()).
		Str("surface", cfg.Surface).
		Dur("poll_interval", time.Duration(cfg.PollInterval)).
		Msg("Starting telemetry dashboard")

	switch {
	case server != nil:
		return runWeb(ctx, app, server)
	case term != nil:
		return runTUI(ctx, app, term)
	default:
		if err := app.Init(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		log.Info().Msg("Shutting down")

		return nil
	}
}

func runWeb(ctx context.Context, app *dashboard.App, server *web.Server) error {
	server.OnSelect(app.SelectAlias)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	g.Go(func() error {
		return app.Init(gctx)
	})

	return g.Wait()
}

// runTUI leaves an init failure on screen until the user quits, then
// reports it.
func runTUI(ctx context.Context, app *dashboard.App, term *tui.Surface) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tui.NewProgram(runCtx, term, tui.Options{
		OnSelect: app.SelectAlias,
		Lookup:   app.Device,
	})

	initErr := make(chan error, 1)

	go func() {
		initErr <- app.Init(runCtx)
	}()

	runErr := program.Run()

	cancel()

	if err := <-initErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return runErr
}
