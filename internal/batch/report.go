package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/philipparndt/gonameplate/pkg/nameplate"
)

// ManifestFile is the name of the manifest written into the output directory.
const ManifestFile = "manifest.json"

// Result is the outcome for one name.
type Result struct {
	Name string
	ID   string
	Line int

	// Plate is nil if the layout could not be computed.
	Plate    *nameplate.PlateSpec
	Files    []string
	Warnings []string
	Err      error
}

// OK reports whether all requested artifacts were written.
func (r Result) OK() bool { return r.Err == nil }

// Report collects the results of a batch in input order.
type Report struct {
	Results  []Result
	Started  time.Time
	Finished time.Time
}

// Succeeded returns the results without error.
func (r *Report) Succeeded() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Failed returns the results that produced no or incomplete output.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// FailedNames lists the original text of every failed name.
func (r *Report) FailedNames() []string {
	var out []string
	for _, res := range r.Failed() {
		out = append(out, res.Name)
	}
	return out
}

// Elapsed returns the wall time of the batch.
func (r *Report) Elapsed() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

type manifest struct {
	Generated time.Time       `json:"generated"`
	Plates    []manifestPlate `json:"plates"`
}

type manifestPlate struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Line     int      `json:"line,omitempty"`
	Width    float64  `json:"width_mm,omitempty"`
	Height   float64  `json:"height_mm,omitempty"`
	FontSize float64  `json:"font_size,omitempty"`
	Files    []string `json:"files,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// WriteManifest writes manifest.json into dir. It maps every identifier
// back to the name it was generated from, including failed names.
func (r *Report) WriteManifest(dir string) error {
	m := manifest{Generated: r.Started.UTC(), Plates: make([]manifestPlate, 0, len(r.Results))}
	for _, res := range r.Results {
		plate := manifestPlate{
			ID:       res.ID,
			Name:     res.Name,
			Line:     res.Line,
			Warnings: res.Warnings,
		}
		if res.Plate != nil {
			plate.Width = res.Plate.Width
			plate.Height = res.Plate.Height
			plate.FontSize = res.Plate.FontSize
		}
		for _, file := range res.Files {
			plate.Files = append(plate.Files, filepath.Base(file))
		}
		if res.Err != nil {
			plate.Error = res.Err.Error()
		}
		m.Plates = append(m.Plates, plate)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
