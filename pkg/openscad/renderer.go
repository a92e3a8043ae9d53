package openscad

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBinary is the executable looked up in PATH.
const DefaultBinary = "openscad"

// DefaultTimeout bounds a single render.
const DefaultTimeout = 60 * time.Second

// Renderer turns an OpenSCAD script into a mesh file.
// The batch generator only depends on this interface so that layout and
// templating can be tested without OpenSCAD installed.
type Renderer interface {
	// Available reports an *UnavailableError if rendering cannot work at all.
	Available() error
	// Render writes the mesh described by source to outputFile. The format
	// follows the extension of outputFile.
	Render(ctx context.Context, source []byte, outputFile string) error
}

// UnavailableError means the renderer binary cannot be found or started.
// Nothing can be generated without it.
type UnavailableError struct {
	Binary string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s not available: %v", e.Binary, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Hint tells the user how to fix the problem.
func (e *UnavailableError) Hint() string {
	return "Please install OpenSCAD from https://openscad.org/ or point --openscad at the binary"
}

// RenderError is a failed render of a single script.
type RenderError struct {
	Output  string
	Err     error
	Stdout  string
	Stderr  string
	Timeout bool
}

func (e *RenderError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "failed to render %s: %v", filepath.Base(e.Output), e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg.WriteString("\nstderr: ")
		msg.WriteString(stderr)
	}
	if stdout := strings.TrimSpace(e.Stdout); stdout != "" {
		msg.WriteString("\nstdout: ")
		msg.WriteString(stdout)
	}
	return msg.String()
}

func (e *RenderError) Unwrap() error { return e.Err }

// ErrNoOutput is wrapped by a RenderError when OpenSCAD exits cleanly
// without writing the output file.
var ErrNoOutput = errors.New("renderer produced no output file")

// CLIRenderer renders by running the OpenSCAD command line tool.
type CLIRenderer struct {
	Binary  string
	WorkDir string // empty means the directory of the output file
	Timeout time.Duration
	// KeepSources leaves the generated .scad files in WorkDir.
	KeepSources bool

	lookPath func(string) (string, error)
}

// NewRenderer creates a renderer that writes its scripts to workDir, or
// next to the output file if workDir is empty.
func NewRenderer(workDir string) *CLIRenderer {
	return &CLIRenderer{
		Binary:   DefaultBinary,
		WorkDir:  workDir,
		Timeout:  DefaultTimeout,
		lookPath: exec.LookPath,
	}
}

// Available checks that the OpenSCAD binary can be found.
func (r *CLIRenderer) Available() error {
	lookPath := r.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if _, err := lookPath(r.binary()); err != nil {
		return &UnavailableError{Binary: r.binary(), Err: err}
	}
	return nil
}

func (r *CLIRenderer) binary() string {
	if r.Binary == "" {
		return DefaultBinary
	}
	return r.Binary
}

// Render writes source next to outputFile's name in WorkDir and runs
// `openscad -o outputFile script.scad`.
func (r *CLIRenderer) Render(ctx context.Context, source []byte, outputFile string) error {
	if err := r.Available(); err != nil {
		return err
	}

	absOutput, err := filepath.Abs(outputFile)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", outputFile, err)
	}
	workDir := r.WorkDir
	if workDir == "" {
		workDir = filepath.Dir(absOutput)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("failed to create work dir: %w", err)
	}
	// a stale file from an earlier run must not pass for fresh output
	if err := os.Remove(absOutput); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale %s: %w", outputFile, err)
	}

	scadFile := filepath.Join(workDir, strings.TrimSuffix(filepath.Base(outputFile), filepath.Ext(outputFile))+".scad")
	if err := os.WriteFile(scadFile, source, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", scadFile, err)
	}
	if !r.KeepSources {
		defer os.Remove(scadFile)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.binary(), "-o", absOutput, scadFile)
	cmd.Dir = workDir
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// the whole batch was cancelled, not just this render
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrPermission) {
			return &UnavailableError{Binary: r.binary(), Err: err}
		}
		renderErr := &RenderError{
			Output: outputFile,
			Err:    err,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			renderErr.Timeout = true
			renderErr.Err = fmt.Errorf("timed out after %s", timeout)
		}
		return renderErr
	}

	if info, err := os.Stat(absOutput); err != nil || info.Size() == 0 {
		return &RenderError{Output: outputFile, Err: ErrNoOutput, Stdout: stdout.String(), Stderr: stderr.String()}
	}
	return nil
}
