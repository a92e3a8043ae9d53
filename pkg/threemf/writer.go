// Package threemf packages nameplate meshes as 3MF archives that slicers
// open with the base and text already assigned to different filaments.
package threemf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"github.com/philipparndt/gonameplate/pkg/stl"
)

// DefaultApplication is written to the model's Application metadata.
const DefaultApplication = "gonameplate"

const (
	contentTypesPath  = "[Content_Types].xml"
	relationshipsPath = "_rels/.rels"
	modelPath         = "3D/3dmodel.model"
	settingsPath      = "Metadata/model_settings.config"
	rangesPath        = "Metadata/layer_config_ranges.xml"
	thumbnailPath     = "Metadata/thumbnail.png"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
 <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
 <Default Extension="model" ContentType="application/vnd.ms-package.3dmanufacturing-3dmodel+xml"/>
 <Default Extension="config" ContentType="text/xml"/>
 <Default Extension="xml" ContentType="text/xml"/>
 <Default Extension="png" ContentType="image/png"/>
</Types>
`

const (
	relationshipsHeader = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
 <Relationship Target="/3D/3dmodel.model" Id="rel0" Type="http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"/>
`
	thumbnailRelationship = ` <Relationship Target="/Metadata/thumbnail.png" Id="rel1" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/thumbnail"/>
`
	relationshipsFooter = `</Relationships>
`
)

func relationships(thumbnail bool) string {
	if thumbnail {
		return relationshipsHeader + thumbnailRelationship + relationshipsFooter
	}
	return relationshipsHeader + relationshipsFooter
}

// Part is one mesh of a package.
type Part struct {
	Name     string
	Mesh     *stl.Model
	Color    string // #rrggbb display color
	Extruder int    // 1-based filament slot
}

// Package is the content of one 3MF archive.
type Package struct {
	Title       string
	Parts       []Part
	Application string
	// Created is written as the creation date. The zero value means now.
	Created time.Time
	// Thumbnail is an optional PNG image shown by file browsers and slicers.
	Thumbnail []byte
}

// ErrNoParts is returned for a package without meshes.
var ErrNoParts = errors.New("3mf package has no parts")

func (p Package) validate() error {
	if len(p.Parts) == 0 {
		return ErrNoParts
	}
	for i, part := range p.Parts {
		if part.Mesh == nil || part.Mesh.TriangleCount() == 0 {
			return fmt.Errorf("part %d (%s) has no triangles", i, part.Name)
		}
		if part.Extruder < 1 {
			return fmt.Errorf("part %d (%s) has invalid extruder %d", i, part.Name, part.Extruder)
		}
	}
	return nil
}

func (p Package) created() time.Time {
	if p.Created.IsZero() {
		return time.Now()
	}
	return p.Created
}

func (p Package) application() string {
	if p.Application == "" {
		return DefaultApplication
	}
	return p.Application
}

// uuidNamespace scopes the name based UUIDs written into archives.
var uuidNamespace = uuid.MustParse("5d0f6b55-6e2c-4b8a-9d8e-3f7a1c2b9e41")

// uuidFor returns a UUID that only depends on the package title and key,
// so regenerating a plate yields a byte-identical model.
func (p Package) uuidFor(key string) string {
	return uuid.NewSHA1(uuidNamespace, []byte(p.Title+"\x00"+key)).String()
}

func (p Package) modelHeader() xmlModel {
	created := p.created()
	return xmlModel{
		Unit:       "millimeter",
		Lang:       "en-US",
		Xmlns:      coreNamespace,
		XmlnsP:     productionNamespace,
		XmlnsBambu: bambuNamespace,
		Metadata: []xmlMetadata{
			{Name: "Application", Value: p.application()},
			{Name: "BambuStudio:3mfVersion", Value: "1"},
			{Name: "Title", Value: p.Title},
			{Name: "CreationDate", Value: created.Format("2006-01-02")},
			{Name: "ModificationDate", Value: created.Format("2006-01-02")},
		},
	}
}

// WriteMultiPart writes the parts as separate mesh objects grouped into one
// printable object. Each part gets its own base material and extruder, so
// slicers load the plate ready for a filament change per part.
func WriteMultiPart(w io.Writer, pkg Package) error {
	if err := pkg.validate(); err != nil {
		return err
	}

	model := pkg.modelHeader()
	materials := &xmlBaseMaterials{ID: 1}
	group := xmlObject{
		ID:         len(pkg.Parts) + 2,
		UUID:       pkg.uuidFor("object"),
		Type:       "model",
		Name:       pkg.Title,
		Components: &xmlComponents{},
	}
	settings := xmlConfig{
		Object: xmlConfigObject{
			ID: group.ID,
			Metadata: []xmlConfigMetadata{
				{Key: "name", Value: pkg.Title},
				{Key: "extruder", Value: strconv.Itoa(pkg.Parts[0].Extruder)},
			},
		},
	}

	for i, part := range pkg.Parts {
		id := i + 2
		pindex := i
		materials.Bases = append(materials.Bases, xmlBase{Name: part.Name, DisplayColor: part.Color})
		model.Resources.Objects = append(model.Resources.Objects, xmlObject{
			ID:     id,
			UUID:   pkg.uuidFor("part/" + part.Name),
			Type:   "model",
			Name:   part.Name,
			PID:    materials.ID,
			PIndex: &pindex,
			Mesh:   buildMesh(part.Mesh),
		})
		group.Components.Components = append(group.Components.Components, xmlComponent{
			ObjectID:  id,
			UUID:      pkg.uuidFor("component/" + part.Name),
			Transform: identityTransform,
		})
		settings.Object.Parts = append(settings.Object.Parts, xmlConfigPart{
			ID:      id,
			Subtype: "normal_part",
			Metadata: []xmlConfigMetadata{
				{Key: "name", Value: part.Name},
				{Key: "matrix", Value: identityMatrix},
				{Key: "source_object_id", Value: "0"},
				{Key: "source_volume_id", Value: strconv.Itoa(i)},
				{Key: "extruder", Value: strconv.Itoa(part.Extruder)},
			},
		})
	}

	model.Resources.BaseMaterials = materials
	model.Resources.Objects = append(model.Resources.Objects, group)
	model.Build = pkg.build(group.ID)
	settings.addPlate(group.ID)

	return pkg.writeArchive(w, map[string]any{
		modelPath:    model,
		settingsPath: settings,
	})
}

// WritePainted merges all parts into a single mesh and assigns extruders by
// height: every part contributes a Z range spanning its own mesh. This suits
// plates whose parts are stacked, like a base with raised text on top.
func WritePainted(w io.Writer, pkg Package) error {
	if err := pkg.validate(); err != nil {
		return err
	}

	meshes := make([]*stl.Model, len(pkg.Parts))
	for i, part := range pkg.Parts {
		meshes[i] = part.Mesh
	}
	merged := stl.Merge(pkg.Title, meshes...)

	model := pkg.modelHeader()
	object := xmlObject{
		ID:   1,
		UUID: pkg.uuidFor("object"),
		Type: "model",
		Name: pkg.Title,
		Mesh: buildMesh(merged),
	}
	model.Resources.Objects = []xmlObject{object}
	model.Build = pkg.build(object.ID)

	settings := xmlConfig{
		Object: xmlConfigObject{
			ID: object.ID,
			Metadata: []xmlConfigMetadata{
				{Key: "name", Value: pkg.Title},
				{Key: "extruder", Value: strconv.Itoa(pkg.Parts[0].Extruder)},
			},
			Parts: []xmlConfigPart{{
				ID:      object.ID,
				Subtype: "normal_part",
				Metadata: []xmlConfigMetadata{
					{Key: "name", Value: pkg.Title},
					{Key: "matrix", Value: identityMatrix},
					{Key: "extruder", Value: strconv.Itoa(pkg.Parts[0].Extruder)},
				},
			}},
		},
	}
	settings.addPlate(object.ID)

	rangeObject := xmlRangeObject{ID: object.ID}
	for _, part := range pkg.Parts {
		minZ, maxZ := HeightRange(part)
		rangeObject.Ranges = append(rangeObject.Ranges, xmlRange{
			MinZ: formatHeight(minZ),
			MaxZ: formatHeight(maxZ),
			Options: []xmlRangeOption{
				{Key: "extruder", Value: strconv.Itoa(part.Extruder)},
			},
		})
	}
	ranges := xmlRanges{Objects: []xmlRangeObject{rangeObject}}

	return pkg.writeArchive(w, map[string]any{
		modelPath:    model,
		settingsPath: settings,
		rangesPath:   ranges,
	})
}

func (p Package) build(objectID int) xmlBuild {
	return xmlBuild{
		UUID: p.uuidFor("build"),
		Items: []xmlItem{{
			ObjectID:  objectID,
			UUID:      p.uuidFor("item"),
			Transform: identityTransform,
			Printable: "1",
		}},
	}
}

// HeightRange reports the Z extent of a part, for callers that want to show
// how a painted package splits its mesh.
func HeightRange(part Part) (float64, float64) {
	bbox := part.Mesh.BoundingBox()
	if bbox.Empty() {
		return 0, 0
	}
	return bbox.Min.Z, bbox.Max.Z
}

func formatHeight(z float64) string {
	return strconv.FormatFloat(math.Round(z*1e4)/1e4, 'f', -1, 64)
}

// archive entries in the order slicers expect to find them
var entryOrder = []string{contentTypesPath, relationshipsPath, modelPath, settingsPath, rangesPath, thumbnailPath}

func (p Package) writeArchive(w io.Writer, documents map[string]any) error {
	zw := zip.NewWriter(w)
	modified := p.created()
	hasThumbnail := len(p.Thumbnail) > 0

	for _, name := range entryOrder {
		var data []byte
		method := zip.Deflate
		switch name {
		case contentTypesPath:
			data = []byte(contentTypes)
		case relationshipsPath:
			data = []byte(relationships(hasThumbnail))
		case thumbnailPath:
			if !hasThumbnail {
				continue
			}
			// already compressed
			data, method = p.Thumbnail, zip.Store
		default:
			doc, ok := documents[name]
			if !ok {
				continue
			}
			var err error
			if data, err = marshalDocument(doc); err != nil {
				return fmt.Errorf("failed to encode %s: %w", name, err)
			}
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   method,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish 3mf archive: %w", err)
	}
	return nil
}

func marshalDocument(doc any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", " ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteFile writes an archive produced by write to path. The file only
// appears once the archive is complete.
func WriteFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	// CreateTemp uses 0600
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
