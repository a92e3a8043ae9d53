package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gonameplate/internal/batch"
	"github.com/philipparndt/gonameplate/pkg/config"
	"github.com/philipparndt/gonameplate/pkg/names"
	"github.com/philipparndt/gonameplate/pkg/openscad"
	"github.com/philipparndt/gonameplate/pkg/watcher"
	"github.com/philipparndt/gonameplate/version"
)

var (
	generateNames     string
	generateOut       string
	generateArtifacts []string
	generateOpenSCAD  string
	generateTimeout   time.Duration
	generateKeepSCAD  bool
	generateFailFast  bool
	generateManifest  bool
	generateThumbs    bool
	generateWatch     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [names...]",
	Short: "Render nameplates for a list of names",
	Long: `Render a nameplate for every name given as argument or listed in the --names
file (one name per line, '#' starts a comment). Arguments take precedence
over the file.

Per name the output directory receives, depending on --artifacts:
  stl          <id>.stl            base and text as one solid
  parts        <id>_base.stl       the base plate
               <id>_text.stl       the raised text, positioned on the base
  3mf          <id>.3mf            both parts, base on extruder 1, text on extruder 2
  3mf-painted  <id>_painted.3mf    one mesh colored by height range
  png          <id>.png            a shaded preview picture

A name that fails to render is reported and skipped unless --fail-fast is set.`,
	Example: `  nameplate generate "Hadi Jaffri" "Ali Ahmed"
  nameplate generate --names staff.txt --out plates --artifacts 3mf
  nameplate generate --names staff.txt --config style.toml --watch`,
	RunE: runGenerate,
}

func init() {
	defaults := config.Default().Generate
	flags := generateCmd.Flags()
	flags.StringVarP(&generateNames, "names", "n", "", "file with one name per line")
	flags.StringVarP(&generateOut, "out", "o", defaults.Output, "output directory")
	flags.StringSliceVarP(&generateArtifacts, "artifacts", "a", defaults.Artifacts, "artifacts to write: stl, parts, 3mf, 3mf-painted, png or all")
	flags.StringVar(&generateOpenSCAD, "openscad", defaults.OpenSCAD, "OpenSCAD executable")
	flags.DurationVar(&generateTimeout, "timeout", defaults.Timeout.Duration, "time limit for a single render")
	flags.BoolVar(&generateKeepSCAD, "keep-scad", false, "keep the OpenSCAD scripts next to the outputs")
	flags.BoolVar(&generateFailFast, "fail-fast", false, "stop at the first name that fails")
	flags.BoolVar(&generateManifest, "manifest", defaults.Manifest, "write manifest.json mapping file ids to names")
	flags.BoolVar(&generateThumbs, "thumbnails", false, "embed a preview image in 3MF files")
	flags.BoolVarP(&generateWatch, "watch", "w", false, "regenerate when the names or config file changes")
	addStyleFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)
}

// generateOptions merges the config file with the flags the user set.
func generateOptions(cmd *cobra.Command) config.GenerateOptions {
	opts := settings.Generate
	flags := cmd.Flags()
	if flags.Changed("names") {
		opts.Names = generateNames
	}
	if flags.Changed("out") {
		opts.Output = generateOut
	}
	if flags.Changed("artifacts") {
		opts.Artifacts = generateArtifacts
	}
	if flags.Changed("openscad") {
		opts.OpenSCAD = generateOpenSCAD
	}
	if flags.Changed("timeout") {
		opts.Timeout = config.Duration{Duration: generateTimeout}
	}
	if flags.Changed("keep-scad") {
		opts.KeepSCAD = generateKeepSCAD
	}
	if flags.Changed("fail-fast") {
		opts.FailFast = generateFailFast
	}
	if flags.Changed("manifest") {
		opts.Manifest = generateManifest
	}
	if flags.Changed("thumbnails") {
		opts.Thumbnails = generateThumbs
	}
	return opts
}

// newRenderer builds the renderer of a batch. Tests swap it for a fake.
var newRenderer = func(opts config.GenerateOptions) openscad.Renderer {
	renderer := openscad.NewRenderer("")
	renderer.Binary = opts.OpenSCAD
	renderer.Timeout = opts.Timeout.Duration
	return renderer
}

// newGenerator builds a generator from the current settings and flags.
func newGenerator(cmd *cobra.Command) (*batch.Generator, config.GenerateOptions, error) {
	opts := generateOptions(cmd)
	style, err := resolveStyle(cmd)
	if err != nil {
		return nil, opts, err
	}
	artifacts, err := batch.ParseArtifacts(opts.Artifacts)
	if err != nil {
		return nil, opts, err
	}

	gen := &batch.Generator{
		Style:    style,
		Renderer: newRenderer(opts),
		Logger:   logger,
		Options: batch.Options{
			OutputDir:   opts.Output,
			Artifacts:   artifacts,
			KeepSCAD:    opts.KeepSCAD,
			FailFast:    opts.FailFast,
			Manifest:    opts.Manifest,
			Thumbnails:  opts.Thumbnails,
			Application: version.Application(),
		},
	}
	return gen, opts, nil
}

// generateOnce loads the names and runs one batch.
func generateOnce(ctx context.Context, cmd *cobra.Command, args []string) error {
	gen, opts, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	entries, issues, err := names.Load(args, opts.Names)
	for _, issue := range issues {
		printWarning("%v", issue)
	}
	if err != nil {
		return err
	}

	report, err := gen.Run(ctx, entries)
	if report != nil && len(report.Results) > 0 {
		printReport(report, opts.Output)
	}
	if err != nil {
		return err
	}
	if failed := report.FailedNames(); len(failed) > 0 {
		return fmt.Errorf("%d of %d names failed", len(failed), len(report.Results))
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if !generateWatch {
		return generateOnce(ctx, cmd, args)
	}

	opts := generateOptions(cmd)
	var files []string
	if len(args) == 0 && opts.Names != "" {
		files = append(files, opts.Names)
	}
	if configPath != "" {
		files = append(files, configPath)
	}
	if len(files) == 0 {
		return errors.New("--watch needs a --names or --config file to watch")
	}

	if err := generateOnce(ctx, cmd, args); err != nil && !keepWatching(err) {
		return err
	} else if err != nil {
		printError("%v", err)
	}

	fw, err := watcher.NewFileWatcher(watcher.DefaultDebounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	changes := make(chan string, 1)
	err = fw.Watch(files, func(path string) {
		select {
		case changes <- path:
		default:
		}
	})
	if err != nil {
		return err
	}

	go func() {
		if err := fw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Watcher stopped", "err", err)
		}
	}()

	printInfo("Watching %d files, press Ctrl+C to stop", len(files))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path := <-changes:
			printInfo("%s changed, regenerating", path)
			if err := loadSettings(); err != nil {
				printError("%v", err)
				continue
			}
			if err := generateOnce(ctx, cmd, args); err != nil {
				if !keepWatching(err) {
					return err
				}
				printError("%v", err)
			}
		}
	}
}

// keepWatching reports whether err is worth waiting for the next edit.
func keepWatching(err error) bool {
	var unavailable *openscad.UnavailableError
	return !errors.As(err, &unavailable) && !errors.Is(err, context.Canceled)
}
