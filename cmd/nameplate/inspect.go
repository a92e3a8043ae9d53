package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gonameplate/pkg/analysis"
	"github.com/philipparndt/gonameplate/pkg/nameplate"
	"github.com/philipparndt/gonameplate/pkg/preview"
	"github.com/philipparndt/gonameplate/pkg/stl"
)

var (
	inspectName string
	inspectPNG  string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <base.stl> [text.stl]",
	Short: "Show mesh statistics and check that base and text line up",
	Long: `Print size and triangle statistics of rendered STL files. Given a base and
a text mesh, also check that the text sits flush on the base and is
centered on it. With --name the base is compared against the layout the
current style computes for that name. With --png a shaded picture of the
meshes is written, the base in the base color and the text in the text
color.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectName, "name", "", "name the plate was generated for")
	inspectCmd.Flags().StringVar(&inspectPNG, "png", "", "write a preview image to this file")
	addStyleFlags(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	models := make([]*stl.Model, 0, len(args))
	for _, path := range args {
		model, err := stl.Parse(path)
		if err != nil {
			return err
		}
		models = append(models, model)
		printMeshSummary(path, model)
	}
	if inspectPNG != "" {
		if err := writeInspectPreview(cmd, models); err != nil {
			return err
		}
		printFile(inspectPNG)
	}
	if len(models) < 2 {
		return nil
	}

	var spec *nameplate.PlateSpec
	if inspectName != "" {
		style, err := resolveStyle(cmd)
		if err != nil {
			return err
		}
		computed, err := nameplate.ComputePlate(inspectName, style)
		if err != nil {
			return err
		}
		spec = &computed
	}

	report := analysis.CheckLayers(models[0], models[1], spec, analysis.DefaultTolerances)
	fmt.Println(styleTitle.Render("Layers"))
	printKeyValue("Gap", analysis.FormatMillimetres(report.Gap))
	printKeyValue("Center offset", analysis.FormatVector(report.CenterOffset))
	if report.OK() {
		printSuccess("text sits flush and centered on the base")
		return nil
	}
	for _, problem := range report.Problems {
		printWarning("%s", problem)
	}
	return fmt.Errorf("%d layer problems found", len(report.Problems))
}

func writeInspectPreview(cmd *cobra.Command, models []*stl.Model) error {
	style, err := resolveStyle(cmd)
	if err != nil {
		return err
	}
	colors := []string{style.BaseColor, style.TextColor}
	meshes := make([]preview.Mesh, len(models))
	for i, model := range models {
		color, err := nameplate.ParseColor(colors[i])
		if err != nil {
			return err
		}
		meshes[i] = preview.Mesh{Model: model, Color: color}
	}
	return preview.WritePNG(inspectPNG, meshes, preview.DefaultOptions())
}

func printMeshSummary(path string, model *stl.Model) {
	summary := analysis.Summarize(model)
	fmt.Println(styleTitle.Render(path))
	if model.Name != "" {
		printKeyValue("Solid", model.Name)
	}
	printKeyValue("Triangles", fmt.Sprint(summary.TriangleCount))
	printKeyValue("Size", fmt.Sprintf("%.2f × %.2f × %.2f mm",
		summary.Dimensions.X, summary.Dimensions.Y, summary.Dimensions.Z))
	printKeyValue("Min", analysis.FormatVector(summary.BoundingBox.Min))
	printKeyValue("Max", analysis.FormatVector(summary.BoundingBox.Max))
	printKeyValue("Surface area", fmt.Sprintf("%.2f mm²", summary.SurfaceArea))
	printKeyValue("Edge lengths", fmt.Sprintf("%s to %s",
		analysis.FormatMillimetres(summary.MinEdgeLength), analysis.FormatMillimetres(summary.MaxEdgeLength)))
	fmt.Println()
}
