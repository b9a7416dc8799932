// Package catalog holds the fixed dropdown tables for each stage form and
// the constants each selection implies.
//
// A Form lists its category options and the remaining fields in model
// feature order. Read-only fields are derived from the selected option or
// are fixed constants; the user supplies the rest.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/smartcarbon/internal/stage"
)

// ErrUnknownOption is returned when a selection is not in the stage's list.
var ErrUnknownOption = errors.New("unknown option")

// TransportFuelRate is the fuel consumption rate used by both transport stages.
const TransportFuelRate = 0.4

// ManufacturingCarbonFactor is the carbon emission factor used for all
// manufacturing equipment.
const ManufacturingCarbonFactor = 0.5

// Source says where a field's value comes from.
type Source int

const (
	// SourceInput is typed by the user.
	SourceInput Source = iota
	// SourceOptionFuelRate is the selected option's fuel consumption rate.
	SourceOptionFuelRate
	// SourceOptionCarbonFactor is the selected option's carbon emission factor.
	SourceOptionCarbonFactor
	// SourceFixed is the field's Fixed constant.
	SourceFixed
)

// Option is one dropdown entry.
type Option struct {
	Name         string  `json:"name"                    yaml:"name"`
	FuelRate     float64 `json:"fuel_rate,omitempty"     yaml:"fuel_rate,omitempty"`
	CarbonFactor float64 `json:"carbon_factor,omitempty" yaml:"carbon_factor,omitempty"`
}

// Field is one numeric form row.
type Field struct {
	Key         string
	Label       string
	Column      string
	Unit        string
	Placeholder string
	Source      Source
	Fixed       float64
}

// ReadOnly reports whether the user cannot edit the field.
func (f Field) ReadOnly() bool {
	return f.Source != SourceInput
}

// Form describes one stage's inputs.
type Form struct {
	Stage        stage.Stage
	OptionLabel  string
	OptionColumn string
	Options      []Option
	Fields       []Field
}

// Columns returns the model feature columns, category first.
func (f Form) Columns() []string {
	cols := make([]string, 0, len(f.Fields)+1)
	cols = append(cols, f.OptionColumn)
	for _, fld := range f.Fields {
		cols = append(cols, fld.Column)
	}
	return cols
}

// InputFields returns the fields the user must supply.
func (f Form) InputFields() []Field {
	var out []Field
	for _, fld := range f.Fields {
		if !fld.ReadOnly() {
			out = append(out, fld)
		}
	}
	return out
}

// Field returns the field with the given key.
func (f Form) Field(key string) (Field, bool) {
	for _, fld := range f.Fields {
		if fld.Key == key {
			return fld, true
		}
	}
	return Field{}, false
}

// OptionNames returns the option names in list order.
func (f Form) OptionNames() []string {
	names := make([]string, len(f.Options))
	for i, o := range f.Options {
		names[i] = o.Name
	}
	return names
}

// Lookup finds an option by name (case-insensitive) and returns its index,
// which is the categorical feature value.
func (f Form) Lookup(name string) (int, Option, error) {
	want := strings.TrimSpace(name)
	for i, o := range f.Options {
		if strings.EqualFold(o.Name, want) {
			return i, o, nil
		}
	}
	return -1, Option{}, fmt.Errorf("%w: %q for stage %s", ErrUnknownOption, name, f.Stage)
}

// Derived returns the read-only field values implied by opt.
func (f Form) Derived(opt Option) map[string]float64 {
	out := make(map[string]float64)
	for _, fld := range f.Fields {
		switch fld.Source {
		case SourceOptionFuelRate:
			out[fld.Key] = opt.FuelRate
		case SourceOptionCarbonFactor:
			out[fld.Key] = opt.CarbonFactor
		case SourceFixed:
			out[fld.Key] = fld.Fixed
		case SourceInput:
		}
	}
	return out
}

// ForStage returns the form for s.
func ForStage(s stage.Stage) (Form, error) {
	f, ok := forms()[s]
	if !ok {
		return Form{}, fmt.Errorf("%w: %q", stage.ErrUnknownStage, s)
	}
	return f, nil
}

// MustForStage is ForStage for callers iterating stage.All().
func MustForStage(s stage.Stage) Form {
	f, err := ForStage(s)
	if err != nil {
		panic(err)
	}
	return f
}
