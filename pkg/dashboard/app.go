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

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/carverauto/telemetry-dashboard/pkg/api"
	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/models"
	"github.com/carverauto/telemetry-dashboard/pkg/render"
)

//go:generate mockgen -destination=mock_dashboard.go -package=dashboard github.com/carverauto/telemetry-dashboard/pkg/dashboard Selector,DeviceSelector

// ErrUnknownAlias is returned by SelectAlias for an alias not in the directory.
var ErrUnknownAlias = errors.New("unknown device alias")

// Selector is the device selection surface.
type Selector interface {
	SetOptions(aliases []string)
	SetSelected(alias string)
}

// DeviceSelector starts polling a device. poller.Controller implements it.
type DeviceSelector interface {
	SelectDevice(ctx context.Context, device *models.Device) error
}

// Options tune the startup selection.
type Options struct {
	InitialAlias      string
	DisableAutoSelect bool
}

// App holds the device directory for the session and routes selections to
// the polling controller.
type App struct {
	lister    api.DeviceLister
	poller    DeviceSelector
	presenter render.Presenter
	selector  Selector
	opts      Options
	logger    logger.Logger

	mu      sync.RWMutex
	devices []models.Device
}

// NewApp creates an App. selector may be nil for headless surfaces.
func NewApp(
	lister api.DeviceLister,
	poller DeviceSelector,
	presenter render.Presenter,
	selector Selector,
	opts Options,
	log logger.Logger,
) *App {
	return &App{
		lister:    lister,
		poller:    poller,
		presenter: presenter,
		selector:  selector,
		opts:      opts,
		logger:    log,
	}
}

// Init loads the directory, fills the selector and starts polling the
// initial device. A directory failure is reported through RenderInitError
// and returned; the selector is left empty.
func (a *App) Init(ctx context.Context) error {
	devices, err := a.lister.ListDevices(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to initialize telemetry dashboard")
		a.presenter.RenderInitError(err)

		return fmt.Errorf("failed to load devices: %w", err)
	}

	a.mu.Lock()
	a.devices = devices
	a.mu.Unlock()

	if a.selector != nil {
		a.selector.SetOptions(models.Aliases(devices))
	}

	initial := a.initialDevice(devices)
	if initial == nil {
		a.logger.Info().Int("devices", len(devices)).Msg("No device selected")

		return nil
	}

	return a.selectDevice(ctx, initial)
}

func (a *App) initialDevice(devices []models.Device) *models.Device {
	if a.opts.InitialAlias != "" {
		if device := api.FindDeviceByAlias(devices, a.opts.InitialAlias); device != nil {
			return device
		}

		a.logger.Warn().Str("alias", a.opts.InitialAlias).Msg("Configured initial alias not found in devices")
	}

	if a.opts.DisableAutoSelect || len(devices) == 0 {
		return nil
	}

	return &devices[0]
}

// SelectAlias switches polling to the device with the given alias. An empty
// alias is ignored. An unknown alias leaves the current session running.
func (a *App) SelectAlias(ctx context.Context, alias string) error {
	if alias == "" {
		return nil
	}

	a.mu.RLock()
	device := api.FindDeviceByAlias(a.devices, alias)
	a.mu.RUnlock()

	if device == nil {
		a.logger.Warn().Str("alias", alias).Msg("Selected alias not found in devices")

		return fmt.Errorf("%w: %q", ErrUnknownAlias, alias)
	}

	return a.selectDevice(ctx, device)
}

func (a *App) selectDevice(ctx context.Context, device *models.Device) error {
	if err := a.poller.SelectDevice(ctx, device); err != nil {
		return err
	}

	if a.selector != nil {
		a.selector.SetSelected(device.Alias)
	}

	return nil
}

// Devices returns the directory loaded by Init.
func (a *App) Devices() []models.Device {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return append([]models.Device(nil), a.devices...)
}

// Device returns the directory entry for alias, or nil.
func (a *App) Device(alias string) *models.Device {
	a.mu.RLock()
	defer a.mu.RUnlock()

	device := api.FindDeviceByAlias(a.devices, alias)
	if device == nil {
		return nil
	}

	d := *device

	return &d
}
