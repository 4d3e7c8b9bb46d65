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

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/models"
)

const devicesJSON = `[
	{"device_uuid": "11111111-1111-1111-1111-111111111111", "alias": "d1", "created_at": "2025-01-01T00:00:00Z", "updated_at": "2025-01-02T00:00:00Z"},
	{"device_uuid": "22222222-2222-2222-2222-222222222222", "alias": "d2", "created_at": "2025-01-01T00:00:00Z", "updated_at": "2025-01-02T00:00:00Z"}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/", logger.NewTestLogger(), opts...)
	require.NoError(t, err)

	return client
}

func TestNewClient_RejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "ftp://example.com", "http://", "://bad"} {
		_, err := NewClient(raw, logger.NewTestLogger())
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, errInvalidBaseURL, raw)
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client, err := NewClient("http://localhost:8000/", logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", client.BaseURL())
}

func TestListDevices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, devicesPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		_, _ = w.Write([]byte(devicesJSON))
	})

	devices, err := client.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, "11111111-1111-1111-1111-111111111111", devices[0].DeviceID)
	assert.Equal(t, "d1", devices[0].Alias)
	assert.Equal(t, "d1", devices[0].APIKey)
	assert.Equal(t, "d2", devices[1].APIKey)
	assert.Equal(t, "2025-01-01T00:00:00Z", devices[0].CreatedAt)

	created, err := time.Parse(time.RFC3339, devices[0].CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, 2025, created.Year())
}

func TestListDevices_RecordsClientSpan(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("traceparent"))
		http.Error(w, "boom", http.StatusBadGateway)
	}, WithTracerProvider(tp))

	_, err := client.ListDevices(context.Background())
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET "+devicesPath, spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int("http.response.status_code", http.StatusBadGateway))
}

func TestListDevices_EmptyDirectory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	devices, err := client.ListDevices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestListDevices_SkipsIncompleteRecords(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"device_uuid": "abc", "alias": ""}, {"alias": "orphan"}, {"device_uuid": "def", "alias": "ok"}]`))
	})

	devices, err := client.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "ok", devices[0].Alias)
}

func TestListDevices_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	devices, err := client.ListDevices(context.Background())
	require.Error(t, err)
	assert.Nil(t, devices)
	assert.ErrorIs(t, err, ErrDirectoryFetch)
	assert.NotErrorIs(t, err, ErrTelemetryFetch)

	var fetchErr *DirectoryFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Body, "boom")
}

func TestListDevices_InvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"`))
	})

	_, err := client.ListDevices(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDirectoryFetch)
	assert.ErrorIs(t, err, errInvalidJSON)
}

func TestListDevices_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := NewClient(baseURL, logger.NewTestLogger(), WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = client.ListDevices(context.Background())
	require.Error(t, err)

	var fetchErr *DirectoryFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
}

func TestListDevices_CustomCredential(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(devicesJSON))
	}, WithCredentialFunc(func(record models.DeviceRecord) string {
		return "key-" + record.DeviceUUID[:4]
	}))

	devices, err := client.ListDevices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "key-1111", devices[0].APIKey)
}

func TestFindDeviceByAlias(t *testing.T) {
	devices := []models.Device{
		{DeviceID: "u1", Alias: "d1"},
		{DeviceID: "u2", Alias: "d2"},
		{DeviceID: "u3", Alias: "d1"},
	}

	found := FindDeviceByAlias(devices, "d2")
	require.NotNil(t, found)
	assert.Equal(t, "u2", found.DeviceID)

	first := FindDeviceByAlias(devices, "d1")
	require.NotNil(t, first)
	assert.Equal(t, "u1", first.DeviceID)

	assert.Nil(t, FindDeviceByAlias(devices, "unknown"))
	assert.Nil(t, FindDeviceByAlias(nil, "d1"))
}

func TestFetchLatest(t *testing.T) {
	device := &models.Device{DeviceID: "u1", Alias: "d1", APIKey: "d1"}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, latestTelemetryPath+"u1", r.URL.Path)
		assert.Equal(t, "d1", r.Header.Get(APIKeyHeader))

		_, _ = w.Write([]byte(`{"device_uuid": "u1", "alias": "server-alias", "x_coord": 12.5, "y_coord": -40,
			"system_time_utc": "2025-05-01T12:00:00Z", "device_time": "2025-05-01T11:59:59Z"}`))
	})

	sample, err := client.FetchLatest(context.Background(), device)
	require.NoError(t, err)
	require.NotNil(t, sample)

	assert.Equal(t, "server-alias", sample.Alias)
	assert.InDelta(t, 12.5, sample.X, 1e-9)
	assert.InDelta(t, -40.0, sample.Y, 1e-9)
	assert.Equal(t, "2025-05-01T11:59:59Z", sample.Timestamp)
}

func TestFetchLatest_FallsBackToDeviceAliasAndSystemTime(t *testing.T) {
	device := &models.Device{DeviceID: "u1", Alias: "d1", APIKey: "d1"}

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"x_coord": 0, "y_coord": 0, "system_time_utc": "2025-05-01T12:00:00Z"}`))
	})

	sample, err := client.FetchLatest(context.Background(), device)
	require.NoError(t, err)
	require.NotNil(t, sample)
	assert.Equal(t, "d1", sample.Alias)
	assert.Equal(t, "2025-05-01T12:00:00Z", sample.Timestamp)
}

func TestFetchLatest_NonNumericCoordinates(t *testing.T) {
	device := &models.Device{DeviceID: "u1", Alias: "d1", APIKey: "d1"}

	for name, body := range map[string]string{
		"string":  `{"x_coord": "bad", "y_coord": 1}`,
		"quoted":  `{"x_coord": "1.5", "y_coord": 1}`,
		"null":    `{"x_coord": null, "y_coord": 1}`,
		"missing": `{"y_coord": 1}`,
		"bool":    `{"x_coord": 1, "y_coord": true}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			sample, err := client.FetchLatest(context.Background(), device)
			require.NoError(t, err)
			assert.Nil(t, sample)
		})
	}
}

func TestFetchLatest_EscapesDeviceID(t *testing.T) {
	device := &models.Device{DeviceID: "a/b c", Alias: "d1", APIKey: "d1"}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, latestTelemetryPath+"a%2Fb%20c", r.URL.EscapedPath())

		_, _ = w.Write([]byte(`{"x_coord": 1, "y_coord": 2}`))
	})

	sample, err := client.FetchLatest(context.Background(), device)
	require.NoError(t, err)
	require.NotNil(t, sample)
}

func TestFetchLatest_Unauthorized(t *testing.T) {
	device := &models.Device{DeviceID: "u1", Alias: "d1", APIKey: "wrong"}

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail": "invalid api key"}`, http.StatusUnauthorized)
	})

	sample, err := client.FetchLatest(context.Background(), device)
	require.Error(t, err)
	assert.Nil(t, sample)
	assert.ErrorIs(t, err, ErrTelemetryFetch)

	var fetchErr *TelemetryFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)
	assert.True(t, errors.Is(err, errUnexpectedStatus))
}

func TestFetchLatest_NilDeviceSkipsRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := NewMockHTTPDoer(ctrl)

	client, err := NewClient("http://localhost:8000", logger.NewTestLogger(), WithHTTPClient(doer))
	require.NoError(t, err)

	sample, err := client.FetchLatest(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, sample)
}

func TestFetchLatest_CanceledContext(t *testing.T) {
	device := &models.Device{DeviceID: "u1", Alias: "d1", APIKey: "d1"}

	ctrl := gomock.NewController(t)
	doer := NewMockHTTPDoer(ctrl)
	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		return nil, req.Context().Err()
	})

	client, err := NewClient("http://localhost:8000", logger.NewTestLogger(), WithHTTPClient(doer))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.FetchLatest(ctx, device)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTelemetryFetch)
	assert.ErrorIs(t, err, context.Canceled)
}
