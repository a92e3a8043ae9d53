// Package batch turns a list of names into plate files, one name at a time.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/philipparndt/gonameplate/pkg/analysis"
	"github.com/philipparndt/gonameplate/pkg/nameplate"
	"github.com/philipparndt/gonameplate/pkg/openscad"
	"github.com/philipparndt/gonameplate/pkg/preview"
	"github.com/philipparndt/gonameplate/pkg/stl"
	"github.com/philipparndt/gonameplate/pkg/threemf"
)

// Options control where and what a Generator writes.
type Options struct {
	OutputDir string
	Artifacts []Artifact
	// KeepSCAD writes the rendered OpenSCAD scripts next to the outputs.
	KeepSCAD bool
	// FailFast aborts the batch on the first failed name.
	FailFast bool
	// Manifest writes manifest.json into OutputDir after the batch.
	Manifest bool
	// Thumbnails embeds a preview image into every 3MF archive.
	Thumbnails bool
	// Application is recorded in 3MF metadata.
	Application string
	// Now stamps 3MF archives; nil means time.Now.
	Now func() time.Time
}

// Generator renders plates for a batch of names. Names are processed
// sequentially in input order. A name that fails to render is reported
// and skipped; a missing renderer stops the batch.
type Generator struct {
	Style    nameplate.StyleConfig
	Options  Options
	Renderer openscad.Renderer
	Logger   *log.Logger
}

func (g *Generator) logger() *log.Logger {
	if g.Logger == nil {
		return log.New(io.Discard)
	}
	return g.Logger
}

func (g *Generator) now() time.Time {
	if g.Options.Now == nil {
		return time.Now()
	}
	return g.Options.Now()
}

func (g *Generator) artifacts() []Artifact {
	if len(g.Options.Artifacts) == 0 {
		return DefaultArtifacts
	}
	return g.Options.Artifacts
}

// Run generates every entry. The returned report is never nil and holds the
// results up to the point where the batch stopped. The error is non-nil when
// the batch stopped early: the renderer is unavailable, ctx was cancelled, or
// FailFast hit a failed name.
func (g *Generator) Run(ctx context.Context, entries []nameplate.NameEntry) (*Report, error) {
	logger := g.logger()
	report := &Report{Started: g.now()}
	defer func() { report.Finished = g.now() }()

	if g.Renderer == nil {
		return report, errors.New("no renderer configured")
	}
	if err := g.Style.Validate(); err != nil {
		return report, err
	}
	if err := g.Renderer.Available(); err != nil {
		return report, err
	}

	out := g.Options.OutputDir
	if out == "" {
		out = "."
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return report, fmt.Errorf("failed to create output directory: %w", err)
	}
	// rendering next to the outputs keeps the final moves on one file system
	work, err := os.MkdirTemp(out, ".render-")
	if err != nil {
		return report, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(work)

	artifacts := g.artifacts()
	logger.Debugf("Generating %v for %d names into %s", artifacts, len(entries), out)

	registry := nameplate.NewIDRegistry()
	done := make(map[string]bool)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		switch {
		case entry.ID == "":
			entry.ID, _ = registry.Assign(entry.Name)
		case !registry.Reserve(entry.ID, entry.Name):
			// the identifier's output files belong to an earlier name
			id, _ := registry.Assign(entry.Name)
			logger.Debugf("Renaming %q from %s to %s", entry.Name, entry.ID, id)
			entry.ID = id
		}
		if done[entry.ID] {
			logger.Debugf("Skipping duplicate %q", entry.Name)
			continue
		}
		done[entry.ID] = true

		res := g.generate(ctx, work, out, entry, artifacts)
		report.Results = append(report.Results, res)

		if res.OK() {
			for _, w := range res.Warnings {
				logger.Warn(w, "name", res.Name)
			}
			logger.Info("Generated plate", "name", res.Name, "width", res.Plate.Width, "files", len(res.Files))
			continue
		}

		var unavailable *openscad.UnavailableError
		if errors.As(res.Err, &unavailable) {
			return report, res.Err
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		logger.Warn("Skipped name", "name", res.Name, "err", res.Err)
		if g.Options.FailFast {
			return report, fmt.Errorf("%q: %w", res.Name, res.Err)
		}
	}

	if g.Options.Manifest {
		if err := report.WriteManifest(out); err != nil {
			return report, err
		}
	}
	return report, nil
}

// generate produces all artifacts of one entry. Files already moved into the
// output directory stay there when a later step fails.
func (g *Generator) generate(ctx context.Context, work, out string, entry nameplate.NameEntry, artifacts []Artifact) Result {
	res := Result{Name: entry.Name, ID: entry.ID, Line: entry.Line}
	if res.Name == "" {
		res.Name = entry.Raw
	}

	spec, err := nameplate.ComputePlate(entry.Name, g.Style)
	if err != nil {
		res.Err = err
		return res
	}
	res.Plate = &spec
	res.Warnings = spec.Warnings()

	rendered := make(map[openscad.Part]string)
	for _, part := range renderParts(artifacts) {
		source, err := openscad.Source(spec, part)
		if err != nil {
			res.Err = err
			return res
		}
		if g.Options.KeepSCAD {
			scad := filepath.Join(out, fileName(entry.ID, part, ".scad"))
			if err := os.WriteFile(scad, source, 0o644); err != nil {
				res.Err = fmt.Errorf("failed to write %s: %w", scad, err)
				return res
			}
			res.Files = append(res.Files, scad)
		}

		file := filepath.Join(work, fileName(entry.ID, part, ".stl"))
		if err := g.Renderer.Render(ctx, source, file); err != nil {
			res.Err = err
			return res
		}
		rendered[part] = file
	}

	if path, ok := rendered[openscad.Combined]; ok {
		if err := g.move(path, out, &res); err != nil {
			return res
		}
	}

	if _, ok := rendered[openscad.Base]; !ok {
		return res
	}

	base, err := stl.Parse(rendered[openscad.Base])
	if err != nil {
		res.Err = err
		return res
	}
	text, err := stl.Parse(rendered[openscad.Text])
	if err != nil {
		res.Err = err
		return res
	}
	layers := analysis.CheckLayers(base, text, &spec, analysis.DefaultTolerances)
	for _, problem := range layers.Problems {
		res.Warnings = append(res.Warnings, "layer check: "+problem)
	}

	var thumbnail []byte
	if g.Options.Thumbnails || slices.Contains(artifacts, ArtifactPreview) {
		thumbnail, err = preview.PNG(previewMeshes(spec, base, text), preview.DefaultOptions())
		if err != nil {
			res.Err = fmt.Errorf("failed to render preview: %w", err)
			return res
		}
	}
	embedded := thumbnail
	if !g.Options.Thumbnails {
		embedded = nil
	}

	for _, a := range artifacts {
		switch a {
		case ArtifactParts:
			if err := g.move(rendered[openscad.Base], out, &res); err != nil {
				return res
			}
			if err := g.move(rendered[openscad.Text], out, &res); err != nil {
				return res
			}
		case Artifact3MF:
			path := filepath.Join(out, entry.ID+".3mf")
			if err := g.write3MF(path, spec, base, text, embedded, threemf.WriteMultiPart); err != nil {
				res.Err = err
				return res
			}
			res.Files = append(res.Files, path)
		case ArtifactPainted:
			path := filepath.Join(out, entry.ID+paintedSuffix+".3mf")
			if err := g.write3MF(path, spec, base, text, embedded, threemf.WritePainted); err != nil {
				res.Err = err
				return res
			}
			res.Files = append(res.Files, path)
		case ArtifactPreview:
			path := filepath.Join(out, entry.ID+".png")
			if err := os.WriteFile(path, thumbnail, 0o644); err != nil {
				res.Err = fmt.Errorf("failed to write %s: %w", path, err)
				return res
			}
			res.Files = append(res.Files, path)
		}
	}
	return res
}

// move renames a rendered file into out, replacing an earlier output.
func (g *Generator) move(path, out string, res *Result) error {
	target := filepath.Join(out, filepath.Base(path))
	if err := os.Rename(path, target); err != nil {
		res.Err = fmt.Errorf("failed to move %s: %w", filepath.Base(path), err)
		return res.Err
	}
	res.Files = append(res.Files, target)
	return nil
}

func previewMeshes(spec nameplate.PlateSpec, base, text *stl.Model) []preview.Mesh {
	return []preview.Mesh{
		{Model: base, Color: spec.Base().Color},
		{Model: text, Color: spec.Text().Color},
	}
}

func (g *Generator) write3MF(path string, spec nameplate.PlateSpec, base, text *stl.Model, thumbnail []byte, write func(io.Writer, threemf.Package) error) error {
	pkg := threemf.Package{
		Title:       spec.Name,
		Application: g.Options.Application,
		Created:     g.now(),
		Thumbnail:   thumbnail,
		Parts: []threemf.Part{
			{Name: "Base", Mesh: base, Color: spec.Base().Color, Extruder: spec.Base().Extruder},
			{Name: "Text", Mesh: text, Color: spec.Text().Color, Extruder: spec.Text().Extruder},
		},
	}
	return threemf.WriteFile(path, func(w io.Writer) error {
		return write(w, pkg)
	})
}
