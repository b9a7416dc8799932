package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/smartcarbon/internal/stage"
)

func TestForStage_AllStagesHaveForms(t *testing.T) {
	for _, s := range stage.All() {
		t.Run(s.String(), func(t *testing.T) {
			f, err := ForStage(s)
			require.NoError(t, err)
			assert.Equal(t, s, f.Stage)
			assert.Len(t, f.Options, 10)
			assert.NotEmpty(t, f.InputFields())
		})
	}

	_, err := ForStage("demolition")
	assert.ErrorIs(t, err, stage.ErrUnknownStage)
}

func TestColumns(t *testing.T) {
	tests := []struct {
		stage stage.Stage
		want  []string
	}{
		{stage.Production, []string{"Raw_material", "Mass_used", "Carbon_emission_factor"}},
		{stage.TransportationToFactory, []string{
			"Raw_material", "Mass_used", "Distance_traveled", "Fuel_consumption_rate", "Carbon_emission_factor",
		}},
		{stage.Manufacturing, []string{
			"Manufacturing_equipment", "Quantity", "Fuel_consumption_rate", "Hours_of_operation", "Carbon_emission_factor",
		}},
		{stage.TransportationToSite, []string{
			"Materials", "Mass_used", "Distance_traveled", "Fuel_consumption_rate", "Carbon_emission_factor",
		}},
		{stage.Construction, []string{
			"Machinery", "Quantity", "Fuel_consumption_rate", "Hours_of_operation", "Carbon_emission_factor",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, MustForStage(tt.stage).Columns())
		})
	}
}

func TestLookup(t *testing.T) {
	f := MustForStage(stage.Production)

	idx, opt, err := f.Lookup("steel")
	require.NoError(t, err)
	assert.Equal(t, 7, idx)
	assert.InDelta(t, 1.8, opt.CarbonFactor, 1e-9)

	idx, _, err = f.Lookup("Aluminium")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, _, err = f.Lookup("Unobtainium")
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Equal(t, -1, idx)
}

func TestDerived(t *testing.T) {
	t.Run("production takes factor from material", func(t *testing.T) {
		f := MustForStage(stage.Production)
		_, opt, err := f.Lookup("Plastics")
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{KeyCarbonFactor: 6.0}, f.Derived(opt))
	})

	t.Run("transport uses fixed fuel rate", func(t *testing.T) {
		f := MustForStage(stage.TransportationToSite)
		_, opt, err := f.Lookup("Resins")
		require.NoError(t, err)
		d := f.Derived(opt)
		assert.InDelta(t, TransportFuelRate, d[KeyFuelRate], 1e-9)
		assert.InDelta(t, 7.5, d[KeyCarbonFactor], 1e-9)
	})

	t.Run("manufacturing uses fixed carbon factor", func(t *testing.T) {
		f := MustForStage(stage.Manufacturing)
		_, opt, err := f.Lookup("Electric furnace")
		require.NoError(t, err)
		d := f.Derived(opt)
		assert.InDelta(t, 50, d[KeyFuelRate], 1e-9)
		assert.InDelta(t, ManufacturingCarbonFactor, d[KeyCarbonFactor], 1e-9)
	})

	t.Run("construction takes both from machinery", func(t *testing.T) {
		f := MustForStage(stage.Construction)
		_, opt, err := f.Lookup("Concrete pump")
		require.NoError(t, err)
		d := f.Derived(opt)
		assert.InDelta(t, 32, d[KeyFuelRate], 1e-9)
		assert.InDelta(t, 2.3, d[KeyCarbonFactor], 1e-9)
	})
}

func TestInputFields(t *testing.T) {
	keys := func(fs []Field) []string {
		out := make([]string, len(fs))
		for i, f := range fs {
			out[i] = f.Key
		}
		return out
	}

	assert.Equal(t, []string{KeyMass}, keys(MustForStage(stage.Production).InputFields()))
	assert.Equal(t, []string{KeyMass, KeyDistance}, keys(MustForStage(stage.TransportationToFactory).InputFields()))
	assert.Equal(t, []string{KeyQuantity, KeyHours}, keys(MustForStage(stage.Construction).InputFields()))

	fld, ok := MustForStage(stage.Manufacturing).Field(KeyFuelRate)
	require.True(t, ok)
	assert.True(t, fld.ReadOnly())
}
