package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gonameplate/pkg/nameplate"
	"github.com/philipparndt/gonameplate/pkg/names"
)

var layoutNames string

var layoutCmd = &cobra.Command{
	Use:   "layout [names...]",
	Short: "Show the computed plate sizes without rendering",
	Long: `Compute the layout of every plate and print it as a table. Nothing is
rendered, so OpenSCAD is not needed. Use this to tune the style before a
long generate run.`,
	RunE: runLayout,
}

func init() {
	layoutCmd.Flags().StringVarP(&layoutNames, "names", "n", "", "file with one name per line")
	addStyleFlags(layoutCmd)
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	style, err := resolveStyle(cmd)
	if err != nil {
		return err
	}

	path := settings.Generate.Names
	if cmd.Flags().Changed("names") {
		path = layoutNames
	}
	entries, issues, err := names.Load(args, path)
	for _, issue := range issues {
		printWarning("%v", issue)
	}
	if err != nil {
		return err
	}

	var (
		specs []nameplate.PlateSpec
		ids   []string
	)
	for _, entry := range entries {
		spec, err := nameplate.ComputePlate(entry.Name, style)
		if err != nil {
			printError("%q: %v", entry.Name, err)
			continue
		}
		specs = append(specs, spec)
		ids = append(ids, entry.ID)
	}
	if len(specs) == 0 {
		return fmt.Errorf("no plate could be laid out")
	}

	fmt.Fprintln(cmd.OutOrStdout(), plateTable(specs, ids))

	widest := specs[0]
	for _, spec := range specs[1:] {
		if spec.Width > widest.Width {
			widest = spec
		}
	}
	printDetail("%d plates, widest %gmm (%s), %g + %g mm thick",
		len(specs), widest.Width, widest.Name, style.BaseThickness, style.TextHeight)
	return nil
}
