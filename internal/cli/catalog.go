package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/smartcarbon/internal/catalog"
	"github.com/rshade/smartcarbon/internal/stage"
)

// newCatalogCmd creates the catalog command listing dropdown options.
func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [stage]",
		Short: "List the options and constants for each stage",
		Example: `  # Every stage
  smartcarbon catalog

  # One stage
  smartcarbon catalog construction`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stages := stage.All()
			if len(args) == 1 {
				s, err := stage.Parse(args[0])
				if err != nil {
					return err
				}
				stages = []stage.Stage{s}
			}

			for i, s := range stages {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := renderForm(cmd.OutOrStdout(), catalog.MustForStage(s)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// renderForm prints one stage's inputs and its option table with the
// constants each option implies.
func renderForm(w io.Writer, form catalog.Form) error {
	fmt.Fprintf(w, "%s (%s, %s)\n", form.Stage.DisplayName(), form.Stage.Code(), form.Stage.ModelID())

	inputs := form.InputFields()
	names := make([]string, 0, len(inputs))
	for _, f := range inputs {
		name := "--" + f.Key
		if f.Unit != "" {
			name += " (" + f.Unit + ")"
		}
		names = append(names, name)
	}
	fmt.Fprintf(w, "Inputs: --option, %s\n\n", strings.Join(names, ", "))

	var derived []catalog.Field
	for _, f := range form.Fields {
		if f.ReadOnly() {
			derived = append(derived, f)
		}
	}

	const tabPadding = 2
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	header := []string{"#", form.OptionLabel}
	for _, f := range derived {
		header = append(header, f.Label)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i, opt := range form.Options {
		values := form.Derived(opt)
		row := []string{fmt.Sprint(i), opt.Name}
		for _, f := range derived {
			row = append(row, fmt.Sprintf("%g", values[f.Key]))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
