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

package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/telemetry-dashboard/pkg/api"
	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/models"
	"github.com/carverauto/telemetry-dashboard/pkg/render"
)

const (
	testInterval = time.Second
	waitFor      = 2 * time.Second
	waitTick     = 5 * time.Millisecond
)

var (
	deviceA = &models.Device{DeviceID: "uuid-a", Alias: "a", APIKey: "a"}
	deviceB = &models.Device{DeviceID: "uuid-b", Alias: "b", APIKey: "b"}
)

type harness struct {
	ctrl       *gomock.Controller
	clock      *MockClock
	fetcher    *api.MockTelemetryFetcher
	presenter  *render.CaptureSurface
	controller *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)
	h := &harness{
		ctrl:      ctrl,
		clock:     NewMockClock(ctrl),
		fetcher:   api.NewMockTelemetryFetcher(ctrl),
		presenter: render.NewCaptureSurface(100, 100),
	}

	c, err := NewController(h.fetcher, h.presenter, Config{Interval: testInterval}, h.clock, logger.NewTestLogger())
	require.NoError(t, err)

	h.controller = c
	t.Cleanup(c.Close)

	return h
}

// expectTicker wires the next Ticker call to a manually driven channel.
func (h *harness) expectTicker() (chan time.Time, *MockTicker) {
	ch := make(chan time.Time)
	ticker := NewMockTicker(h.ctrl)
	ticker.EXPECT().Chan().Return((<-chan time.Time)(ch)).AnyTimes()
	ticker.EXPECT().Stop().Times(1)

	h.clock.EXPECT().Ticker(testInterval).Return(ticker)

	return ch, ticker
}

func sampleFor(device *models.Device, x float64) *models.TelemetrySample {
	return &models.TelemetrySample{Alias: device.Alias, X: x, Y: -x, Timestamp: "2025-05-01T00:00:00Z"}
}

func TestNewController_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := api.NewMockTelemetryFetcher(ctrl)
	presenter := render.NewCaptureSurface(1, 1)
	log := logger.NewTestLogger()

	_, err := NewController(fetcher, presenter, Config{}, nil, log)
	require.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewController(fetcher, presenter, Config{Interval: -time.Second}, nil, log)
	require.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewController(nil, presenter, Config{Interval: time.Second}, nil, log)
	require.ErrorIs(t, err, errNilFetcher)

	_, err = NewController(fetcher, nil, Config{Interval: time.Second}, nil, log)
	require.ErrorIs(t, err, errNilPresenter)

	c, err := NewController(fetcher, presenter, Config{Interval: time.Second}, nil, log)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.ActiveDevice())
}

func TestSelectDevice_FetchesImmediatelyThenOnTick(t *testing.T) {
	h := newHarness(t)
	ticks, _ := h.expectTicker()

	gomock.InOrder(
		h.fetcher.EXPECT().FetchLatest(gomock.Any(), deviceA).Return(sampleFor(deviceA, 1), nil),
		h.fetcher.EXPECT().FetchLatest(gomock.Any(), deviceA).Return(sampleFor(deviceA, 2), nil),
	)

	require.NoError(t, h.controller.SelectDevice(context.Background(), deviceA))
	assert.Equal(t, StatePolling, h.controller.State())
	assert.Equal(t, "a", h.controller.ActiveDevice().Alias)

	require.Eventually(t, func() bool { return len(h.presenter.Samples()) == 1 }, waitFor, waitTick)

	ticks <- time.Now()

	require.Eventually(t, func() bool { return len(h.presenter.Samples()) == 2 }, waitFor, waitTick)

	last, ok := h.presenter.LastSample()
	require.True(t, ok)
	assert.InDelta(t, 2.0, last.X, 1e-9)
}

func TestSelectDevice_DiscardsStaleResult(t *testing.T) {
	h := newHarness(t)
	h.expectTicker()
	h.expectTicker()

	startedA := make(chan struct{})
	releaseA := make(chan struct{})

	h.fetcher.EXPECT().FetchLatest(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, device *models.Device) (*models.TelemetrySample, error) {
			if device.Alias == deviceA.Alias {
				close(startedA)
				<-releaseA

				return sampleFor(deviceA, 10), nil
			}

			return sampleFor(deviceB, 20), nil
		}).Times(2)

	require.NoError(t, h.controller.SelectDevice(context.Background(), deviceA))
	<-startedA

	require.NoError(t, h.controller.SelectDevice(context.Background(), deviceB))
	require.Eventually(t, func() bool { return len(h.presenter.Samples()) == 1 }, waitFor, waitTick)

	close(releaseA)
	h.controller.Close()

	samples := h.presenter.Samples()
	require.Len(t, samples, 1)
	assert.Equal(t, "b", samples[0].Alias)
	assert.Equal(t, StateIdle, h.controller.State())
}

func TestPoll_ErrorKeepsPolling(t *testing.T) {
	h := newHarness(t)
	ticks, _ := h.expectTicker()

	fetchErr := &api.TelemetryFetchError{FetchError: api.FetchError{StatusCode: 503}}

	gomock.InOrder(
		h.fetcher.EXPECT().FetchLatest(gomock.Any(), deviceA).Return(nil, fetchErr),
		h.fetcher.EXPECT().FetchLatest(gomock.Any(), deviceA).Return(sampleFor(deviceA, 5), nil),
	)

	require.NoError(t, h.controller.SelectDevice(context.Background(), deviceA))
	require.Eventually(t, func() bool { return len(h.presenter.Errors()) == 1 }, waitFor, waitTick)
	assert.ErrorIs(t, h.presenter.Errors()[0], api.ErrTelemetryFetch)
	assert.Equal(t, StatePolling, h.controller.State())

	ticks <- time.Now()

	require.Eventually(t, func() bool { return len(h.presenter.Samples()) == 1 }, waitFor, waitTick)
}

func TestPoll_NilSampleIsSkipped(t *testing.T) {
	h := newHarness(t)
	ticks, _ := h.expectTicker()

	done := make(chan struct{})

	gomock.InOrder(
		h.fetcher.EXPECT().FetchLatest(gomock.Any(), deviceA).Return(nil, nil),
		h.fetcher.EXPECT().FetchLatest(gomock.Any(), deviceA).DoAndReturn(
			func(context.Context, *models.Device) (*models.TelemetrySample, error) {
				defer close(done)

				return nil, nil
			}),
	)

	require.NoError(t, h.controller.SelectDevice(context.Background(), deviceA))

	ticks <- time.Now()
	<-done

	h.controller.Close()

	assert.Empty(t, h.presenter.Samples())
	assert.Empty(t, h.presenter.Errors())
}

func TestStop_IsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.expectTicker()

	h.fetcher.EXPECT().FetchLatest(gomock.Any(), deviceA).Return(sampleFor(deviceA, 1), nil)

	h.controller.Stop()
	assert.Equal(t, StateIdle, h.controller.State())

	require.NoError(t, h.controller.SelectDevice(context.Background(), deviceA))
	require.Eventually(t, func() bool { return len(h.presenter.Samples()) == 1 }, waitFor, waitTick)

	h.controller.Stop()
	h.controller.Stop()

	assert.Equal(t, StateIdle, h.controller.State())
	assert.Nil(t, h.controller.ActiveDevice())
}

func TestStop_CancelsInFlightFetch(t *testing.T) {
	h := newHarness(t)
	h.expectTicker()

	started := make(chan struct{})

	h.fetcher.EXPECT().FetchLatest(gomock.Any(), deviceA).DoAndReturn(
		func(ctx context.Context, _ *models.Device) (*models.TelemetrySample, error) {
			close(started)
			<-ctx.Done()

			return nil, &api.TelemetryFetchError{FetchError: api.FetchError{Err: ctx.Err()}}
		})

	require.NoError(t, h.controller.SelectDevice(context.Background(), deviceA))
	<-started

	h.controller.Close()

	assert.Empty(t, h.presenter.Errors())
	assert.Empty(t, h.presenter.Samples())
}

func TestSelectDevice_NilDeviceGoesIdle(t *testing.T) {
	h := newHarness(t)
	h.expectTicker()

	h.fetcher.EXPECT().FetchLatest(gomock.Any(), deviceA).Return(sampleFor(deviceA, 1), nil)

	require.NoError(t, h.controller.SelectDevice(context.Background(), deviceA))
	require.Eventually(t, func() bool { return len(h.presenter.Samples()) == 1 }, waitFor, waitTick)

	require.NoError(t, h.controller.SelectDevice(context.Background(), nil))
	assert.Equal(t, StateIdle, h.controller.State())
	assert.Nil(t, h.controller.ActiveDevice())
}

func TestSelectDevice_AfterClose(t *testing.T) {
	h := newHarness(t)

	h.controller.Close()

	err := h.controller.SelectDevice(context.Background(), deviceA)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrControllerClosed))
}

func TestSelectDevice_ParentContextEndsSession(t *testing.T) {
	h := newHarness(t)
	h.expectTicker()

	started := make(chan struct{})

	h.fetcher.EXPECT().FetchLatest(gomock.Any(), deviceA).DoAndReturn(
		func(ctx context.Context, _ *models.Device) (*models.TelemetrySample, error) {
			close(started)
			<-ctx.Done()

			return nil, ctx.Err()
		})

	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, h.controller.SelectDevice(ctx, deviceA))
	<-started

	cancel()

	require.Eventually(t, func() bool { return h.controller.State() == StateIdle }, waitFor, waitTick)
	assert.Nil(t, h.controller.ActiveDevice())

	h.controller.Close()

	assert.Empty(t, h.presenter.Errors())
	assert.Empty(t, h.presenter.Samples())
}

func TestSelectDevice_ParentCancelAfterRenderReleasesTicker(t *testing.T) {
	h := newHarness(t)
	h.expectTicker()

	h.fetcher.EXPECT().FetchLatest(gomock.Any(), deviceA).Return(sampleFor(deviceA, 1), nil)

	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, h.controller.SelectDevice(ctx, deviceA))
	require.Eventually(t, func() bool { return len(h.presenter.Samples()) == 1 }, waitFor, waitTick)

	cancel()

	require.Eventually(t, func() bool { return h.controller.State() == StateIdle }, waitFor, waitTick)
	assert.Empty(t, h.presenter.Errors())
}

func TestRealClock_Ticks(t *testing.T) {
	ticker := RealClock().Ticker(time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.Chan():
	case <-time.After(waitFor):
		t.Fatal("ticker did not fire")
	}

	assert.WithinDuration(t, time.Now(), RealClock().Now(), time.Second)
}
