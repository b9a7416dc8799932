package engine

import (
	"context"

	"github.com/rshade/smartcarbon/internal/greenops"
	"github.com/rshade/smartcarbon/internal/logging"
	"github.com/rshade/smartcarbon/internal/stage"
)

// Reader is the read side of the prediction store.
type Reader interface {
	Get(s stage.Stage) float64
}

// StageSummary is one classified stage.
type StageSummary struct {
	Stage   stage.Stage `json:"stage"`
	Name    string      `json:"name"`
	KgCO2e  float64     `json:"kg_co2e"`
	Level   Level       `json:"level"`
	Color   string      `json:"color"`
	Display string      `json:"display"`
}

// Summary is the classified view of all five stages.
type Summary struct {
	Stages      []StageSummary             `json:"stages"`
	TotalKg     float64                    `json:"total_kg_co2e"`
	TotalLevel  Level                      `json:"total_level"`
	TotalColor  string                     `json:"total_color"`
	Display     string                     `json:"display"`
	Thresholds  Thresholds                 `json:"thresholds"`
	Equivalency greenops.EquivalencyOutput `json:"equivalency"`
}

// Summarize reads every stage from r, unset stages as 0, and classifies each
// stage and their sum against t.
func Summarize(ctx context.Context, r Reader, t Thresholds) Summary {
	logger := logging.FromContext(ctx)

	s := Summary{Thresholds: t, Stages: make([]StageSummary, 0, len(stage.All()))}
	for _, st := range stage.All() {
		kg := r.Get(st)
		level := t.Classify(kg)
		s.Stages = append(s.Stages, StageSummary{
			Stage:   st,
			Name:    st.DisplayName(),
			KgCO2e:  kg,
			Level:   level,
			Color:   level.Color(),
			Display: FormatStage(kg, level),
		})
		s.TotalKg += kg
	}

	s.TotalLevel = t.Classify(s.TotalKg)
	s.TotalColor = s.TotalLevel.Color()
	s.Display = FormatTotal(s.TotalKg, s.TotalLevel)

	eq, err := greenops.Calculate(s.TotalKg)
	if err != nil {
		logger.Warn().Ctx(ctx).Str("component", "engine").Err(err).Msg("equivalency calculation failed")
		eq = greenops.EquivalencyOutput{IsEmpty: true}
	}
	s.Equivalency = eq

	logger.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "summarize").
		Float64("total_kg", s.TotalKg).
		Str("level", s.TotalLevel.String()).
		Msg("summary computed")

	return s
}
