package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rshade/smartcarbon/internal/engine"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyOutput     = "output"
	keyLogging    = "logging"
	keyThresholds = "thresholds"
	keyModels     = "models"
	keyStore      = "store"
	keyServer     = "server"
)

// knownTopLevelKeys lists the YAML keys that correspond to Config fields.
// Other keys are ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyOutput:     true,
	keyLogging:    true,
	keyThresholds: true,
	keyModels:     true,
	keyStore:      true,
	keyServer:     true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A section present in the overlay replaces the whole section;
// fields it omits take the zero value, not the previous one. Absent
// sections are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes data into a fresh value for key and assigns it,
// so the overlay replaces the section rather than merging into it.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyOutput:
		return decodeInto(data, &target.Output)
	case keyLogging:
		return decodeInto(data, &target.Logging)
	case keyThresholds:
		return decodeInto(data, &target.Thresholds)
	case keyModels:
		return decodeInto(data, &target.Models)
	case keyStore:
		return decodeInto(data, &target.Store)
	case keyServer:
		return decodeInto(data, &target.Server)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

type section interface {
	OutputConfig | LoggingConfig | engine.Thresholds | ModelsConfig | StoreConfig | ServerConfig
}

func decodeInto[T section](data []byte, dst *T) error {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}
