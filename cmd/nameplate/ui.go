package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/philipparndt/gonameplate/internal/batch"
	"github.com/philipparndt/gonameplate/pkg/nameplate"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + styleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + styleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(16)
	fmt.Println(keyStyle.Render(key) + " " + styleValue.Render(value))
}

// swatch renders a small block in a #rrggbb color.
func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}

// plateTable renders computed layouts, one row per plate.
func plateTable(specs []nameplate.PlateSpec, ids []string) string {
	rows := make([][]string, 0, len(specs))
	for i, spec := range specs {
		var notes []string
		if spec.Shrunk {
			notes = append(notes, fmt.Sprintf("font %g→%g", spec.RequestedFontSize, spec.FontSize))
		}
		if spec.Overflow {
			notes = append(notes, "overflows margins")
		}
		rows = append(rows, []string{
			spec.Name,
			ids[i],
			fmt.Sprintf("%g × %g", spec.Width, spec.Height),
			fmt.Sprintf("%.1f", spec.TextWidth),
			fmt.Sprintf("%g", spec.FontSize),
			swatch(spec.Base().Color) + " " + swatch(spec.Text().Color),
			strings.Join(notes, ", "),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "ID", "Plate (mm)", "Text (mm)", "Font", "Colors", "Notes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return styleHeader.Padding(0, 1)
			case col == 6:
				return base.Foreground(colorYellow)
			case col >= 2 && col <= 4:
				return base.Foreground(colorCyan)
			}
			return base
		}).
		String()
}

// printReport summarizes a batch: written files per plate, then failures by name.
func printReport(report *batch.Report, outputDir string) {
	for _, res := range report.Succeeded() {
		printSuccess("%s %s", res.Name, styleDim.Render(fmt.Sprintf("(%gmm)", res.Plate.Width)))
		for _, w := range res.Warnings {
			printDetail("%s %s", iconWarning, w)
		}
		for _, file := range res.Files {
			if rel, err := filepath.Rel(outputDir, file); err == nil {
				file = rel
			}
			printFile(file)
		}
	}

	failed := report.Failed()
	for _, res := range failed {
		where := ""
		if res.Line > 0 {
			where = fmt.Sprintf(" (line %d)", res.Line)
		}
		printError("%q%s: %v", res.Name, where, res.Err)
	}

	fmt.Println()
	summary := fmt.Sprintf("%s plates written to %s",
		styleNumber.Render(fmt.Sprint(len(report.Succeeded()))), styleValue.Render(outputDir))
	if len(failed) > 0 {
		summary += ", " + styleIconError.Render(fmt.Sprintf("%d failed", len(failed)))
	}
	if elapsed := report.Elapsed(); elapsed > 0 {
		summary += styleDim.Render(fmt.Sprintf(" in %s", elapsed.Round(10*time.Millisecond)))
	}
	fmt.Println(styleTitle.Render("Done") + " " + summary)
}
