package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gonameplate/pkg/nameplate"
	"github.com/philipparndt/gonameplate/pkg/openscad"
)

var (
	scadPart   string
	scadOutput string
)

var scadCmd = &cobra.Command{
	Use:   "scad <name>",
	Short: "Print the OpenSCAD script for one plate",
	Long: `Print the OpenSCAD script that generate would render for a name. Open it
in OpenSCAD to preview the plate or to tweak it by hand.`,
	Args: cobra.ExactArgs(1),
	RunE: runSCAD,
}

func init() {
	scadCmd.Flags().StringVarP(&scadPart, "part", "p", string(openscad.Combined), "part to emit: combined, base or text")
	scadCmd.Flags().StringVarP(&scadOutput, "output", "o", "", "write to a file instead of stdout")
	addStyleFlags(scadCmd)
	rootCmd.AddCommand(scadCmd)
}

func runSCAD(cmd *cobra.Command, args []string) error {
	part, err := openscad.ParsePart(scadPart)
	if err != nil {
		return err
	}
	style, err := resolveStyle(cmd)
	if err != nil {
		return err
	}
	spec, err := nameplate.ComputePlate(args[0], style)
	if err != nil {
		return err
	}
	for _, w := range spec.Warnings() {
		logger.Warn(w)
	}

	if scadOutput == "" {
		return openscad.Emit(cmd.OutOrStdout(), spec, part)
	}

	source, err := openscad.Source(spec, part)
	if err != nil {
		return err
	}
	if err := os.WriteFile(scadOutput, source, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", scadOutput, err)
	}
	logger.Infof("Wrote %s", scadOutput)
	return nil
}
