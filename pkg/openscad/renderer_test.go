package openscad

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeOpenSCAD writes a shell script that mimics the openscad CLI.
func fakeOpenSCAD(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "openscad")
	script := "#!/bin/sh\n" +
		"out=''\n" +
		"while [ $# -gt 0 ]; do if [ \"$1\" = \"-o\" ]; then out=\"$2\"; shift; fi; shift; done\n" +
		body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestRenderer(t *testing.T, binary string) *CLIRenderer {
	r := NewRenderer(t.TempDir())
	r.Binary = binary
	r.Timeout = 5 * time.Second
	return r
}

func TestRenderSuccess(t *testing.T) {
	r := newTestRenderer(t, fakeOpenSCAD(t, `echo "solid plate" > "$out"`))
	out := filepath.Join(t.TempDir(), "hadi_jaffri.stl")

	if err := r.Render(context.Background(), []byte("cube(1);"), out); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if !strings.HasPrefix(string(data), "solid plate") {
		t.Errorf("unexpected output %q", data)
	}
	if _, err := os.Stat(filepath.Join(r.WorkDir, "hadi_jaffri.scad")); !errors.Is(err, os.ErrNotExist) {
		t.Error("script should be removed unless KeepSources is set")
	}
}

func TestRenderKeepSources(t *testing.T) {
	r := newTestRenderer(t, fakeOpenSCAD(t, `echo "solid plate" > "$out"`))
	r.KeepSources = true
	out := filepath.Join(t.TempDir(), "ali_base.stl")

	if err := r.Render(context.Background(), []byte("cube(2);"), out); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	src, err := os.ReadFile(filepath.Join(r.WorkDir, "ali_base.scad"))
	if err != nil || string(src) != "cube(2);" {
		t.Errorf("expected kept script, got %q (%v)", src, err)
	}
}

func TestRenderFailure(t *testing.T) {
	r := newTestRenderer(t, fakeOpenSCAD(t, `echo "ERROR: Parser error" >&2; exit 1`))

	err := r.Render(context.Background(), []byte("cube("), filepath.Join(t.TempDir(), "x.stl"))
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("expected RenderError, got %v", err)
	}
	if !strings.Contains(renderErr.Error(), "Parser error") {
		t.Errorf("stderr should be part of the message: %v", renderErr)
	}
}

func TestRenderNoOutput(t *testing.T) {
	r := newTestRenderer(t, fakeOpenSCAD(t, `exit 0`))
	out := filepath.Join(t.TempDir(), "x.stl")
	// stale output from an earlier run
	if err := os.WriteFile(out, []byte("solid old"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := r.Render(context.Background(), []byte("cube(1);"), out)
	if !errors.Is(err, ErrNoOutput) {
		t.Fatalf("expected ErrNoOutput, got %v", err)
	}
}

func TestRenderTimeout(t *testing.T) {
	r := newTestRenderer(t, fakeOpenSCAD(t, `exec sleep 10`))
	r.Timeout = 200 * time.Millisecond

	err := r.Render(context.Background(), []byte("cube(1);"), filepath.Join(t.TempDir(), "x.stl"))
	var renderErr *RenderError
	if !errors.As(err, &renderErr) || !renderErr.Timeout {
		t.Fatalf("expected timed out RenderError, got %v", err)
	}
}

func TestRenderCancelled(t *testing.T) {
	r := newTestRenderer(t, fakeOpenSCAD(t, `exec sleep 10`))
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	err := r.Render(ctx, []byte("cube(1);"), filepath.Join(t.TempDir(), "x.stl"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderUnavailable(t *testing.T) {
	r := newTestRenderer(t, filepath.Join(t.TempDir(), "no-such-openscad"))

	if err := r.Available(); err == nil {
		t.Fatal("expected Available to fail")
	}
	err := r.Render(context.Background(), nil, filepath.Join(t.TempDir(), "x.stl"))
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if !strings.Contains(unavailable.Hint(), "openscad.org") {
		t.Errorf("hint should point at the download page: %s", unavailable.Hint())
	}
}
