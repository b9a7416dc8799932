package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/smartcarbon/internal/cli"
	"github.com/rshade/smartcarbon/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		assert.NotNil(t, root)
		assert.Equal(t, "smartcarbon", root.Use)
	})
}

func TestExtractExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error returns 0", nil, 0},
		{"ExitError with danger code", &cli.ExitError{ExitCode: cli.ExitCodeDanger, Reason: "danger"}, 2},
		{"ExitError with custom code", &cli.ExitError{ExitCode: 42, Reason: "custom"}, 42},
		{
			"wrapped ExitError",
			fmt.Errorf("total: %w", &cli.ExitError{ExitCode: 3, Reason: "wrapped"}),
			3,
		},
		{
			"joined ExitError",
			errors.Join(errors.New("outer"), &cli.ExitError{ExitCode: 2, Reason: "joined"}),
			2,
		},
		{"generic error falls through to 1", errors.New("generic error"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractExitCode(tt.err))
		})
	}
}
