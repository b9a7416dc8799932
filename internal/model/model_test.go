package model

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/smartcarbon/internal/stage"
)

func TestNewFeatures(t *testing.T) {
	f, err := NewFeatures([]string{"Machinery", "Quantity"}, []float64{3, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, f.Category())
	assert.Equal(t, []string{"Machinery", "Quantity"}, f.Columns)

	_, err = NewFeatures([]string{"a"}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrFeatureMismatch)

	_, err = NewFeatures(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyFeatures)
}

func TestProduct_Predict(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		values  []float64
		want    float64
		wantErr error
	}{
		{name: "production mass x factor", values: []float64{7, 1000, 1.8}, want: 1800},
		{name: "transport four factors", values: []float64{0, 1000, 100, 0.4, 11}, want: 440000},
		{name: "category ignored", values: []float64{9, 2, 3}, want: 6},
		{name: "zero input", values: []float64{0, 0, 5}, want: 0},
		{name: "only category", values: []float64{1}, wantErr: ErrEmptyFeatures},
		{name: "overflow", values: []float64{0, math.MaxFloat64, 10}, wantErr: ErrNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := make([]string, len(tt.values))
			got, err := Product{}.Predict(ctx, Features{Columns: cols, Values: tt.values})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestProduct_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Product{}.Predict(ctx, Features{Columns: []string{"a", "b"}, Values: []float64{0, 1}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLinear_Predict(t *testing.T) {
	l := Linear{
		Intercept:       10,
		Coefficients:    map[string]float64{"Quantity": 2, "Hours_of_operation": 0.5},
		CategoryOffsets: []float64{0, 100},
	}
	f := Features{
		Columns: []string{"Machinery", "Quantity", "Hours_of_operation", "Carbon_emission_factor"},
		Values:  []float64{1, 3, 4, 99},
	}

	got, err := l.Predict(context.Background(), f)
	require.NoError(t, err)
	// 10 + 2*3 + 0.5*4 + offset[1]
	assert.InDelta(t, 118, got, 1e-9)

	f.Values[0] = 7 // out of range offset is ignored
	got, err = l.Predict(context.Background(), f)
	require.NoError(t, err)
	assert.InDelta(t, 18, got, 1e-9)
}

func TestParse(t *testing.T) {
	t.Run("linear", func(t *testing.T) {
		p, err := Parse([]byte(`
kind: linear
stage: A4
intercept: 2
coefficients:
  Mass_used: 0.5
`), stage.TransportationToSite)
		require.NoError(t, err)
		lin, ok := p.(Linear)
		require.True(t, ok)
		assert.InDelta(t, 2, lin.Intercept, 1e-9)
		assert.InDelta(t, 0.5, lin.Coefficients["Mass_used"], 1e-9)
	})

	t.Run("product", func(t *testing.T) {
		p, err := Parse([]byte("kind: PRODUCT\n"), stage.Production)
		require.NoError(t, err)
		assert.IsType(t, Product{}, p)
	})

	t.Run("stage mismatch", func(t *testing.T) {
		_, err := Parse([]byte("kind: product\nstage: construction\n"), stage.Production)
		assert.ErrorIs(t, err, ErrStageMismatch)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Parse([]byte("kind: xgboost\n"), stage.Production)
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Parse([]byte("kind: [unterminated"), stage.Production)
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("empty dir with fallback uses product everywhere", func(t *testing.T) {
		r, err := Load(ctx, "", true)
		require.NoError(t, err)
		for _, s := range stage.All() {
			p, ok := r.Get(s)
			require.True(t, ok, s)
			assert.IsType(t, Product{}, p)
			assert.Equal(t, KindProduct, r.Source(s))
		}
	})

	t.Run("without fallback missing stages have no model", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "A1.yaml"), []byte("kind: linear\nintercept: 1\n"), 0o600))

		r, err := Load(ctx, dir, false)
		require.NoError(t, err)

		p, ok := r.Get(stage.Production)
		require.True(t, ok)
		assert.IsType(t, Linear{}, p)
		assert.Equal(t, filepath.Join(dir, "A1.yaml"), r.Source(stage.Production))

		_, ok = r.Get(stage.Construction)
		assert.False(t, ok)
	})

	t.Run("malformed file fails", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "A5.yaml"), []byte("kind: nope\n"), 0o600))

		_, err := Load(ctx, dir, true)
		assert.ErrorIs(t, err, ErrUnknownKind)
	})
}

func TestDefault(t *testing.T) {
	r := Default()
	for _, s := range stage.All() {
		_, ok := r.Get(s)
		assert.True(t, ok)
	}
}

func TestFunc(t *testing.T) {
	f := Func(func(context.Context, Features) (float64, error) { return 42, nil })
	got, err := f.Predict(context.Background(), Features{})
	require.NoError(t, err)
	assert.InDelta(t, 42, got, 1e-9)
}
