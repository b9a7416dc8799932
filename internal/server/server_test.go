package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/smartcarbon/internal/engine"
	"github.com/rshade/smartcarbon/internal/model"
	"github.com/rshade/smartcarbon/internal/stage"
	"github.com/rshade/smartcarbon/internal/store"
)

type fixture struct {
	srv     *Server
	store   *store.Store
	handler http.Handler
	saves   int
}

func newFixture(t *testing.T, reg *model.Registry) *fixture {
	t.Helper()
	st := store.New()
	est, err := engine.NewEstimator(reg, st, engine.DefaultThresholds())
	require.NoError(t, err)

	promReg := prometheus.NewRegistry()
	srv, err := NewWithRegistry(context.Background(), DefaultConfig(), est, st, promReg, promReg)
	require.NoError(t, err)

	f := &fixture{srv: srv, store: st}
	srv.SetPersister(func(context.Context, *store.Store) error {
		f.saves++
		return nil
	})
	f.handler = srv.Handler()
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNewWithRegistry_Errors(t *testing.T) {
	_, err := NewWithRegistry(context.Background(), nil, nil, store.New(), nil, nil)
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, model.Default())
	rec := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, f.store.ID(), body["session_id"])
	assert.InDelta(t, 0.0, body["total_kg"], 1e-9)

	require.NoError(t, f.store.Set(stage.Production, 1200))
	require.NoError(t, f.store.Set(stage.Construction, 30))
	body = decode(t, f.do(t, http.MethodGet, "/health", ""))
	assert.InDelta(t, 1230.0, body["total_kg"], 1e-9)
	assert.InDelta(t, 2.0, body["stages_set"], 1e-9)
}

func TestListStages(t *testing.T) {
	f := newFixture(t, model.Default())
	require.NoError(t, f.store.Set(stage.Manufacturing, 600_000))

	rec := f.do(t, http.MethodGet, "/api/v1/stages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Trace-Id"))

	var body struct {
		Stages []stageView `json:"stages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Stages, 5)
	assert.Equal(t, stage.Production, body.Stages[0].Stage)
	assert.False(t, body.Stages[0].Set)
	assert.Equal(t, engine.LevelAverage, body.Stages[2].Level)
	assert.True(t, body.Stages[2].Set)
	assert.Equal(t, "Umat", body.Stages[2].Code)
}

func TestGetStageAndCatalog(t *testing.T) {
	f := newFixture(t, model.Default())

	rec := f.do(t, http.MethodGet, "/api/v1/stages/A4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "transportation_to_site", decode(t, rec)["stage"])

	rec = f.do(t, http.MethodGet, "/api/v1/stages/construction/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Machinery", body["option_label"])
	assert.Len(t, body["options"], 10)

	rec = f.do(t, http.MethodGet, "/api/v1/stages/demolition", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPredict(t *testing.T) {
	f := newFixture(t, model.Default())

	rec := f.do(t, http.MethodPost, "/api/v1/stages/production/predict", `{"option":"Steel","mass":1000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var p engine.Prediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.InDelta(t, 1800.0, p.KgCO2e, 1e-9)
	assert.Equal(t, engine.LevelSafe, p.Level)
	assert.InDelta(t, 1800.0, f.store.Get(stage.Production), 1e-9)
	assert.Equal(t, 1, f.saves)
}

func TestPredict_MassUnit(t *testing.T) {
	f := newFixture(t, model.Default())

	rec := f.do(t, http.MethodPost, "/api/v1/stages/production/predict", `{"option":"Steel","mass":2,"mass_unit":"t"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var p engine.Prediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.InDelta(t, 3600.0, p.KgCO2e, 1e-9)
	assert.InDelta(t, 2000.0, p.Features["Mass_used"], 1e-9)
}

func TestPredict_Errors(t *testing.T) {
	tests := []struct {
		name   string
		reg    *model.Registry
		path   string
		body   string
		status int
	}{
		{"unknown stage", model.Default(), "/api/v1/stages/demolition/predict", `{"option":"Steel"}`, http.StatusNotFound},
		{"bad json", model.Default(), "/api/v1/stages/production/predict", `{"option":`, http.StatusBadRequest},
		{"unknown field", model.Default(), "/api/v1/stages/production/predict", `{"option":"Steel","weight":3}`, http.StatusBadRequest},
		{"missing mass", model.Default(), "/api/v1/stages/production/predict", `{"option":"Steel"}`, http.StatusBadRequest},
		{"negative", model.Default(), "/api/v1/stages/production/predict", `{"option":"Steel","mass":-1}`, http.StatusBadRequest},
		{"unknown option", model.Default(), "/api/v1/stages/production/predict", `{"option":"Gold","mass":1}`, http.StatusBadRequest},
		{"unknown mass unit", model.Default(), "/api/v1/stages/production/predict",
			`{"option":"Steel","mass":1,"mass_unit":"stone"}`, http.StatusBadRequest},
		{"no model", model.NewRegistry(), "/api/v1/stages/production/predict", `{"option":"Steel","mass":1}`, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.reg)
			rec := f.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode(t, rec)["error"])
			assert.Empty(t, f.store.Entries())
			assert.Zero(t, f.saves)
		})
	}
}

func TestPredict_PredictorFailure(t *testing.T) {
	reg := model.NewRegistry()
	reg.Register(stage.Production, model.Func(func(context.Context, model.Features) (float64, error) {
		return 0, errors.New("boom")
	}), "test")
	f := newFixture(t, reg)

	rec := f.do(t, http.MethodPost, "/api/v1/stages/production/predict", `{"option":"Steel","mass":1}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTotalAndReset(t *testing.T) {
	f := newFixture(t, model.Default())
	require.NoError(t, f.store.Set(stage.Production, 1_000_000))
	require.NoError(t, f.store.Set(stage.Construction, 1_500_000))

	rec := f.do(t, http.MethodGet, "/api/v1/total", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sum engine.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.InDelta(t, 2_500_000.0, sum.TotalKg, 1e-6)
	assert.Equal(t, engine.LevelDanger, sum.TotalLevel)
	assert.Equal(t, "Calculated Total Carbon Emission: 2500000.00 kgCO2e - Danger", sum.Display)

	rec = f.do(t, http.MethodDelete, "/api/v1/stages", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, f.store.Entries())
	assert.Equal(t, 1, f.saves)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t, model.Default())
	f.do(t, http.MethodPost, "/api/v1/stages/production/predict", `{"option":"Steel","mass":1000}`)
	f.do(t, http.MethodPost, "/api/v1/stages/production/predict", `{"option":"Gold","mass":1}`)

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `smartcarbon_stage_emission_kg{stage="production"} 1800`)
	assert.Contains(t, body, "smartcarbon_total_emission_kg 1800")
	assert.Contains(t, body, `smartcarbon_predictions_total{stage="production",status="ok"} 1`)
	assert.Contains(t, body, `smartcarbon_predictions_total{stage="production",status="invalid"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	st := store.New()
	est, err := engine.NewEstimator(model.Default(), st, engine.DefaultThresholds())
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.EnableMetrics = false
	reg := prometheus.NewRegistry()
	srv, err := NewWithRegistry(context.Background(), cfg, est, st, reg, reg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	st := store.New()
	est, err := engine.NewEstimator(model.Default(), st, engine.DefaultThresholds())
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Port = 0
	reg := prometheus.NewRegistry()
	srv, err := NewWithRegistry(context.Background(), cfg, est, st, reg, reg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()
	require.NoError(t, <-done)
}

func TestConfigAddr(t *testing.T) {
	cfg := &Config{Host: "::1", Port: 9000}
	assert.Equal(t, "[::1]:9000", cfg.Addr())
}
