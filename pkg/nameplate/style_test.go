package nameplate

import (
	"strings"
	"testing"
)

func TestDefaultStyleIsValid(t *testing.T) {
	if err := DefaultStyle().Validate(); err != nil {
		t.Fatalf("default style invalid: %v", err)
	}
}

func TestStyleValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StyleConfig)
		want   string
	}{
		{"zero thickness", func(s *StyleConfig) { s.BaseThickness = 0 }, "base_thickness"},
		{"negative text height", func(s *StyleConfig) { s.TextHeight = -1 }, "text_height"},
		{"min above max", func(s *StyleConfig) { s.MinWidth = 200 }, "exceeds max_width"},
		{"margins too wide", func(s *StyleConfig) { s.Margin = 80 }, "margins"},
		{"min font above font", func(s *StyleConfig) { s.MinFontSize = 12 }, "min_font_size"},
		{"unknown metrics", func(s *StyleConfig) { s.Metrics = "exact" }, "metrics"},
		{"unknown overflow", func(s *StyleConfig) { s.Overflow = "truncate" }, "overflow"},
		{"pin hole cuts edge", func(s *StyleConfig) { s.PinHoleOffset = 0.4 }, "plate edge"},
		{"pin hole too low", func(s *StyleConfig) { s.PinHoleOffset = 7 }, "upper half"},
		{"pin holes overlap", func(s *StyleConfig) { s.MinWidth = 4.5 }, "overlap"},
		{"bad color", func(s *StyleConfig) { s.TextColor = "plaid" }, "text_color"},
		{"low resolution", func(s *StyleConfig) { s.Resolution = 2 }, "resolution"},
		{"empty font", func(s *StyleConfig) { s.Font = " " }, "font must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := DefaultStyle()
			tt.mutate(&style)

			err := style.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "White", want: "#ffffff"},
		{in: " black ", want: "#000000"},
		{in: "#FF8800", want: "#ff8800"},
		{in: "ff8800", want: "#ff8800"},
		{in: "#f80", want: "#ff8800"},
		{in: "plaid", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
