// Package stage defines the five fixed supply-chain stages whose emissions
// are estimated and summed.
package stage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStage is returned by Parse for unrecognized input.
var ErrUnknownStage = errors.New("unknown stage")

// Stage identifies one supply-chain stage. The string value is the store key.
type Stage string

// The five stages, in pipeline order.
const (
	Production              Stage = "production"
	TransportationToFactory Stage = "transportation_to_factory"
	Manufacturing           Stage = "manufacturing"
	TransportationToSite    Stage = "transportation_to_site"
	Construction            Stage = "construction"
)

type info struct {
	display string
	code    string
	model   string
}

//nolint:gochecknoglobals // Fixed lookup table.
var infos = map[Stage]info{
	Production:              {"Production", "Upro", "A1"},
	TransportationToFactory: {"Transportation to Factory", "Uttf", "A2"},
	Manufacturing:           {"Manufacturing", "Umat", "A3"},
	TransportationToSite:    {"Transportation to Site", "Utts", "A4"},
	Construction:            {"Construction", "Ucon", "A5"},
}

// All returns the stages in pipeline order. The slice is a fresh copy.
func All() []Stage {
	return []Stage{
		Production,
		TransportationToFactory,
		Manufacturing,
		TransportationToSite,
		Construction,
	}
}

// Valid reports whether s is one of the five stages.
func (s Stage) Valid() bool {
	_, ok := infos[s]
	return ok
}

// String returns the store key.
func (s Stage) String() string { return string(s) }

// DisplayName returns the human-readable title, e.g. "Transportation to Site".
func (s Stage) DisplayName() string { return infos[s].display }

// Code returns the four-letter summary label, e.g. "Utts".
func (s Stage) Code() string { return infos[s].code }

// ModelID returns the model identifier, "A1" through "A5".
func (s Stage) ModelID() string { return infos[s].model }

// Parse resolves a stage from its key, short code, model ID or display name.
// Matching is case-insensitive; dashes and spaces are treated as underscores.
func Parse(s string) (Stage, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	if norm == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownStage)
	}

	for _, st := range All() {
		in := infos[st]
		switch norm {
		case string(st), strings.ToLower(in.code), strings.ToLower(in.model),
			strings.ReplaceAll(strings.ToLower(in.display), " ", "_"):
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStage, s)
}
