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

	"github.com/carverauto/telemetry-dashboard/pkg/config"
	"github.com/carverauto/telemetry-dashboard/pkg/lifecycle"
	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/simulator"
)

var (
	errFailedToLoadConfig = errors.New("failed to load config")
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/telemetry-dashboard/simulator.json", "Path to simulator config file")
	devicesFile := flag.String("devices", "", "Override devices_file from the config file")
	flag.Parse()

	ctx, stop := lifecycle.SignalContext(context.Background())
	defer stop()

	var cfg simulator.Config

	// CONFIG_SOURCE=env reads SIMULATOR_TARGET_URL, SIMULATOR_INTERVAL and so on.
	cfgLoader := config.NewConfig(nil).WithEnvPrefix("SIMULATOR_")

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	if *devicesFile != "" {
		cfg.DevicesFile = *devicesFile
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stdout",
		}
	}

	simLogger, err := lifecycle.CreateComponentLogger(ctx, "simulator", logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			log.Printf("Failed to shutdown logger: %v", err)
		}
	}()

	devices, err := simulator.LoadDevices(ctx, cfg.DevicesFile, simLogger)
	if err != nil {
		return err
	}

	return simulator.New(cfg, devices, simLogger).Run(ctx)
}
