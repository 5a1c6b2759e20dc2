package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/internal/testhelpers"
	"github.com/02loveslollipop/guardian-views/services/api/config"
	"github.com/02loveslollipop/guardian-views/services/api/db"
)

type fakeWarehouse struct {
	tables map[string]models.TableData
	names  []string
	err    error
}

func (f *fakeWarehouse) FetchData(_ context.Context, table string) (models.TableData, error) {
	if f.err != nil {
		return models.TableData{}, f.err
	}
	data, ok := f.tables[table]
	if !ok {
		return models.TableData{}, db.ErrTableNotFound
	}
	return data, nil
}

func (f *fakeWarehouse) FetchTableNames(_ context.Context) ([]string, error) {
	return f.names, f.err
}

type fakeConfigs struct {
	blobs   map[string]string
	updated map[string]models.ViewConfig
	added   []string
	removed []string
}

func (f *fakeConfigs) FetchConfig(_ context.Context) (map[string]models.ViewConfig, error) {
	out := make(map[string]models.ViewConfig, len(f.blobs))
	for table, blob := range f.blobs {
		vc, err := models.ParseViewConfig(blob)
		if err != nil {
			continue
		}
		out[table] = vc
	}
	return out, nil
}

func (f *fakeConfigs) UpdateConfig(_ context.Context, table string, vc models.ViewConfig) error {
	if f.updated == nil {
		f.updated = make(map[string]models.ViewConfig)
	}
	f.updated[table] = vc
	return nil
}

func (f *fakeConfigs) AddNewTable(_ context.Context, table string) error {
	f.added = append(f.added, table)
	return nil
}

func (f *fakeConfigs) RemoveTable(_ context.Context, table string) error {
	f.removed = append(f.removed, table)
	return nil
}

func testConfig() config.Config {
	ext := models.DefaultAllowedFileExtensions()
	return config.Config{
		Port:                   8080,
		RequestTimeout:         time.Second,
		AllowedImageExtensions: ext.Image,
		AllowedAudioExtensions: ext.Audio,
		AllowedVideoExtensions: ext.Video,
	}
}

func newTestServer(cfg config.Config) (*Server, *fakeWarehouse, *fakeConfigs) {
	wh := &fakeWarehouse{
		tables: map[string]models.TableData{
			"mapeo": {MainData: testhelpers.MapeoRows()},
			"fake_alerts": {
				MainData: testhelpers.AlertRows(),
				Metadata: testhelpers.AlertsMetadata(),
			},
			"empty_alerts": {MainData: []models.Row{}},
		},
		names: []string{"mapeo", "fake_alerts", "kobo_responses"},
	}
	cs := &fakeConfigs{blobs: map[string]string{
		"mapeo":        `{"VIEWS": "map,gallery", "FRONT_END_FILTER_COLUMN": "category"}`,
		"fake_alerts":  `{"VIEWS": "alerts", "MAPEO_TABLE": "mapeo", "MAPEO_CATEGORY_IDS": "lake"}`,
		"empty_alerts": `{"VIEWS": "alerts"}`,
		"missing":      `{"VIEWS": "map"}`,
		"inactive":     `{}`,
	}}
	return New(cfg, wh, cs), wh, cs
}

func do(t *testing.T, s *Server, method, path, body string, header map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(testConfig())

	rec, body := do(t, s, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _, _ := newTestServer(testConfig())

	rec, _ := do(t, s, http.MethodGet, "/healthz", "", map[string]string{requestIDHeader: "abc-123"})

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestMapRoute(t *testing.T) {
	s, _, _ := newTestServer(testConfig())

	rec, body := do(t, s, http.MethodGet, "/api/mapeo/map", "", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "mapeo", body["table"])
	assert.Equal(t, "category", body["filterColumn"])
	assert.Len(t, body["data"], 2)
	assert.Contains(t, body, "mapboxAccessToken")
	assert.Nil(t, body["mapboxZoom"])
}

func TestGalleryRoute(t *testing.T) {
	s, _, _ := newTestServer(testConfig())

	rec, body := do(t, s, http.MethodGet, "/api/mapeo/gallery", "", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "mapeo", body["table"])
	assert.Len(t, body["data"], 1)
}

func TestAlertsRoute(t *testing.T) {
	s, _, _ := newTestServer(testConfig())

	rec, body := do(t, s, http.MethodGet, "/api/fake_alerts/alerts", "", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	alerts, ok := body["alertsData"].(map[string]any)
	require.True(t, ok)
	recent, ok := alerts["mostRecentAlerts"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "FeatureCollection", recent["type"])
	assert.Len(t, recent["features"], 2)
	assert.Len(t, body["mapeoData"], 1)

	stats, ok := body["alertsStatistics"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Mountain valley", stats["territory"])
}

func TestDataRoute(t *testing.T) {
	s, _, _ := newTestServer(testConfig())

	rec, body := do(t, s, http.MethodGet, "/api/mapeo/data", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 3)
	assert.Nil(t, body["columns"])
}

func TestTableRouteErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
		want int
	}{
		{"unconfigured table", "/api/kobo_responses/map", nil, http.StatusNotFound},
		{"config without views", "/api/inactive/map", nil, http.StatusNotFound},
		{"view not enabled", "/api/mapeo/alerts", nil, http.StatusNotFound},
		{"missing warehouse table", "/api/missing/map", nil, http.StatusNotFound},
		{"no alerts", "/api/empty_alerts/alerts", nil, http.StatusNotFound},
		{"missing data table", "/api/nope/data", nil, http.StatusNotFound},
		{"breaker open", "/api/mapeo/map", gobreaker.ErrOpenState, http.StatusServiceUnavailable},
		{"storage failure", "/api/mapeo/data", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, wh, _ := newTestServer(testConfig())
			wh.err = tt.err

			rec, body := do(t, s, http.MethodGet, tt.path, "", nil)

			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestGetConfig(t *testing.T) {
	s, _, _ := newTestServer(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)

	var cfgs map[string]map[string]any
	require.NoError(t, json.Unmarshal(body[0], &cfgs))
	assert.Equal(t, "map,gallery", cfgs["mapeo"]["VIEWS"])

	var names []string
	require.NoError(t, json.Unmarshal(body[1], &names))
	assert.Equal(t, []string{"kobo_responses"}, names)
}

func TestConfigMutations(t *testing.T) {
	s, _, cs := newTestServer(testConfig())

	rec, body := do(t, s, http.MethodPost, "/api/config/new_table/kobo_responses", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New table added successfully", body["message"])
	assert.Equal(t, []string{"kobo_responses"}, cs.added)

	rec, _ = do(t, s, http.MethodPost, "/api/config/update_config/kobo_responses",
		`{"VIEWS": ["map", "gallery"], "MAPBOX_ZOOM": 6, "EMBED_MEDIA": true}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	vc := cs.updated["kobo_responses"]
	assert.True(t, vc.Enabled(models.ViewGallery))
	assert.Equal(t, "6", vc.MapboxZoom.String())

	rec, _ = do(t, s, http.MethodPost, "/api/config/delete_table/kobo_responses", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"kobo_responses"}, cs.removed)
}

func TestUpdateConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"VIEWS":`},
		{"unknown view", `{"VIEWS": "map,timeline"}`},
		{"non numeric zoom", `{"VIEWS": "map", "MAPBOX_ZOOM": "close"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, cs := newTestServer(testConfig())

			rec, _ := do(t, s, http.MethodPost, "/api/config/update_config/mapeo", tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, cs.updated)
		})
	}
}

func TestConfigRoutesRequireToken(t *testing.T) {
	cfg := testConfig()
	cfg.BearerToken = "s3cret"
	s, _, _ := newTestServer(cfg)

	rec, _ := do(t, s, http.MethodGet, "/api/config", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/config", "", map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/config", "", map[string]string{"Authorization": "Bearer s3cret"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// view routes stay public
	rec, _ = do(t, s, http.MethodGet, "/api/mapeo/map", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	s, _, _ := newTestServer(cfg)

	rec, _ := do(t, s, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := do(t, s, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", body["error"])
}

func TestCORSPreflight(t *testing.T) {
	s, _, _ := newTestServer(testConfig())

	rec, _ := do(t, s, http.MethodOptions, "/api/mapeo/map", "", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s, _, _ := newTestServer(testConfig())
	do(t, s, http.MethodGet, "/healthz", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "guardian_http_requests_total")
}
