package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 5)
	assert.Equal(t, Production, all[0])
	assert.Equal(t, Construction, all[4])

	all[0] = "mutated"
	assert.Equal(t, Production, All()[0], "All must return a copy")
}

func TestAccessors(t *testing.T) {
	tests := []struct {
		stage   Stage
		display string
		code    string
		model   string
	}{
		{Production, "Production", "Upro", "A1"},
		{TransportationToFactory, "Transportation to Factory", "Uttf", "A2"},
		{Manufacturing, "Manufacturing", "Umat", "A3"},
		{TransportationToSite, "Transportation to Site", "Utts", "A4"},
		{Construction, "Construction", "Ucon", "A5"},
	}
	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			assert.True(t, tt.stage.Valid())
			assert.Equal(t, tt.display, tt.stage.DisplayName())
			assert.Equal(t, tt.code, tt.stage.Code())
			assert.Equal(t, tt.model, tt.stage.ModelID())
		})
	}
	assert.False(t, Stage("demolition").Valid())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Stage
		wantErr bool
	}{
		{in: "production", want: Production},
		{in: "UTTF", want: TransportationToFactory},
		{in: "a3", want: Manufacturing},
		{in: "transportation-to-site", want: TransportationToSite},
		{in: "Transportation to Site", want: TransportationToSite},
		{in: " construction ", want: Construction},
		{in: "", wantErr: true},
		{in: "demolition", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownStage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
