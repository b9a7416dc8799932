package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rshade/smartcarbon/internal/catalog"
	"github.com/rshade/smartcarbon/internal/engine"
	"github.com/rshade/smartcarbon/internal/logging"
	"github.com/rshade/smartcarbon/internal/stage"
)

// maxBodyBytes caps prediction request bodies.
const maxBodyBytes = 1 << 16

type stageView struct {
	Stage     stage.Stage  `json:"stage"`
	Name      string       `json:"name"`
	Code      string       `json:"code"`
	Model     string       `json:"model"`
	KgCO2e    float64      `json:"kg_co2e"`
	Level     engine.Level `json:"level"`
	Set       bool         `json:"set"`
	UpdatedAt *time.Time   `json:"updated_at,omitempty"`
}

func (s *Server) viewStage(st stage.Stage) stageView {
	v := stageView{
		Stage: st,
		Name:  st.DisplayName(),
		Code:  st.Code(),
		Model: st.ModelID(),
	}
	if e, ok := s.store.Lookup(st); ok {
		v.KgCO2e = e.KgCO2e
		v.Set = true
		ts := e.UpdatedAt
		v.UpdatedAt = &ts
	}
	v.Level = s.estimator.Thresholds().Classify(v.KgCO2e)
	return v
}

func (s *Server) listStages(w http.ResponseWriter, _ *http.Request) {
	views := make([]stageView, 0, len(stage.All()))
	for _, st := range stage.All() {
		views = append(views, s.viewStage(st))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": s.store.ID(),
		"stages":     views,
	})
}

func (s *Server) stageFromPath(w http.ResponseWriter, r *http.Request) (stage.Stage, bool) {
	st, err := stage.Parse(mux.Vars(r)["stage"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return "", false
	}
	return st, true
}

func (s *Server) getStage(w http.ResponseWriter, r *http.Request) {
	st, ok := s.stageFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.viewStage(st))
}

func (s *Server) getCatalog(w http.ResponseWriter, r *http.Request) {
	st, ok := s.stageFromPath(w, r)
	if !ok {
		return
	}
	form := catalog.MustForStage(st)

	fields := make([]map[string]any, 0, len(form.Fields))
	for _, f := range form.Fields {
		fields = append(fields, map[string]any{
			"key":       f.Key,
			"label":     f.Label,
			"column":    f.Column,
			"unit":      f.Unit,
			"read_only": f.ReadOnly(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stage":        st,
		"option_label": form.OptionLabel,
		"columns":      form.Columns(),
		"options":      form.Options,
		"fields":       fields,
	})
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	st, ok := s.stageFromPath(w, r)
	if !ok {
		return
	}

	var in engine.Inputs
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		s.metrics.CountPrediction(st, "invalid")
		writeError(w, http.StatusBadRequest, errors.Join(engine.ErrInvalidInput, err))
		return
	}

	p, err := s.estimator.Predict(ctx, st, in)
	if err != nil {
		status := statusFor(err)
		s.metrics.CountPrediction(st, statusLabel(status))
		writeError(w, status, err)
		return
	}
	s.metrics.CountPrediction(st, "ok")
	s.metrics.Observe(s.store.Snapshot())

	if s.persist != nil {
		if perr := s.persist(ctx, s.store); perr != nil {
			logger.Warn().Str("component", "server").Err(perr).Msg("failed to persist session")
		}
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) total(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.estimator.Summarize(r.Context(), s.store))
}

func (s *Server) resetStages(w http.ResponseWriter, r *http.Request) {
	s.store.Reset()
	s.metrics.Observe(s.store.Snapshot())
	if s.persist != nil {
		if err := s.persist(r.Context(), s.store); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"session_id": s.store.ID(),
		"stages_set": len(s.store.Entries()),
		"total_kg":   s.store.Total(),
		"uptime":     time.Since(s.started).Round(time.Second).String(),
		"timestamp":  time.Now().UTC(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, stage.ErrUnknownStage):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidInput), errors.Is(err, engine.ErrUnknownOption):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrModelNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func statusLabel(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "invalid"
	case http.StatusServiceUnavailable:
		return "no_model"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
