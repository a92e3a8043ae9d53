package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/philipparndt/gonameplate/pkg/config"
	"github.com/philipparndt/gonameplate/pkg/openscad"
	"github.com/philipparndt/gonameplate/version"
)

var (
	verbose    bool
	configPath string

	logger   = newLogger(os.Stderr, log.InfoLevel)
	settings = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "nameplate",
	Short: "Generate 3D-printable nameplates from a list of names",
	Long: `nameplate turns names into two-color nameplates: a rounded base plate with
pin holes and the name as raised text on top. Plates are sized to fit the
name, rendered with OpenSCAD and written as STL and 3MF files that slicers
open with base and text already assigned to separate filaments.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		logger.SetLevel(level)
		return loadSettings()
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("nameplate %s\ncommit: %s\nbuilt: %s\n",
		version.Version, version.GitCommit, version.BuildDate))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "settings file (.toml, .yaml or .yml)")
}

// loadSettings reads the --config file over the defaults.
func loadSettings() error {
	settings = config.Default()
	if configPath == "" {
		return nil
	}
	f, err := config.Load(configPath)
	if err != nil {
		return err
	}
	settings = f
	logger.Debugf("Loaded settings from %s", configPath)
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		printError("%v", err)
		var unavailable *openscad.UnavailableError
		if errors.As(err, &unavailable) {
			printDetail(unavailable.Hint())
		}
		os.Exit(1)
	}
}
