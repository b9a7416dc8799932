package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/smartcarbon/internal/catalog"
	"github.com/rshade/smartcarbon/internal/config"
	"github.com/rshade/smartcarbon/internal/engine"
	"github.com/rshade/smartcarbon/internal/greenops"
	"github.com/rshade/smartcarbon/internal/stage"
)

// inputFlags maps numeric flag names to engine input keys.
var inputFlags = []struct {
	flag  string
	key   string
	usage string
}{
	{"mass", catalog.KeyMass, "mass used, in --mass-unit"},
	{"distance", catalog.KeyDistance, "distance traveled (km)"},
	{"quantity", catalog.KeyQuantity, "number of machines"},
	{"hours", catalog.KeyHours, "hours of operation"},
} //nolint:gochecknoglobals // Static flag table

// newPredictCmd creates the predict command that runs one stage.
func newPredictCmd(state *rootState) *cobra.Command {
	var (
		option       string
		massUnit     string
		outputFormat string
		values       = make(map[string]*float64, len(inputFlags))
	)

	cmd := &cobra.Command{
		Use:   "predict <stage>",
		Short: "Predict the carbon emission of one stage",
		Long: `Runs the stage model on the given inputs and records the result in the session.

Stages may be given by key (production), short code (Upro) or model id (A1).
Only the inputs the stage uses are required; derived constants such as fuel
consumption rate and carbon emission factor come from the selected option.`,
		Example: `  # Production of 1200 kg of steel
  smartcarbon predict production --option Steel --mass 1200

  # The same mass given in tonnes
  smartcarbon predict production --option Steel --mass 1.2 --mass-unit t

  # Two cranes running for eight hours
  smartcarbon predict construction --option Crane --quantity 2 --hours 8

  # JSON output
  smartcarbon predict A3 --option Forklift --quantity 1 --hours 4 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(state.config(), outputFormat)
			if err != nil {
				return err
			}

			s, err := stage.Parse(args[0])
			if err != nil {
				return err
			}

			in := engine.Inputs{Option: option, MassUnit: massUnit}
			for _, f := range inputFlags {
				if cmd.Flags().Changed(f.flag) {
					if err = in.Set(f.key, *values[f.flag]); err != nil {
						return err
					}
				}
			}

			ctx := cmd.Context()
			sess, err := openSession(ctx, state.config())
			if err != nil {
				return err
			}

			p, err := sess.Predict(ctx, s, in)
			if err != nil {
				logger.Debug().Ctx(ctx).Err(err).Str("stage", s.String()).Msg("prediction failed")
				return fmt.Errorf("predicting %s: %w", s.DisplayName(), err)
			}

			if format == config.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			renderPrediction(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().StringVar(&option, "option", "", "dropdown option (material, equipment or machinery)")
	for _, f := range inputFlags {
		values[f.flag] = cmd.Flags().Float64(f.flag, 0, f.usage)
	}
	cmd.Flags().StringVar(&massUnit, "mass-unit", "kg", "unit of --mass: kg, g, t or lb")
	cmd.Flags().StringVar(&outputFormat, "output", "", "output format: table or json (default from config)")

	return cmd
}

// renderPrediction prints the features in model column order and the result.
func renderPrediction(w io.Writer, p *engine.Prediction) {
	form := catalog.MustForStage(p.Stage)
	fmt.Fprintf(w, "Stage: %s (%s)\n", p.Stage.DisplayName(), p.Stage.ModelID())
	fmt.Fprintf(w, "%s: %s\n", form.OptionLabel, p.Option)
	for _, fld := range form.Fields {
		if v, ok := p.Features[fld.Column]; ok {
			fmt.Fprintf(w, "%s: %g\n", fld.Label, v)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.Display)
	fmt.Fprintf(w, "Level: %s (%s tCO2e)\n", p.Level, greenops.FormatFloat(greenops.KgToTonnes(p.KgCO2e), 3))
}

// resolveFormat picks the flag value, falling back to the configured default.
func resolveFormat(cfg *config.Config, flagValue string) (string, error) {
	format := flagValue
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	switch format {
	case config.FormatTable, config.FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
