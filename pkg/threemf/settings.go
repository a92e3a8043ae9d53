package threemf

import (
	"encoding/xml"
	"strconv"
)

// Slicer project settings stored next to the model.

type xmlConfig struct {
	XMLName  xml.Name        `xml:"config"`
	Object   xmlConfigObject `xml:"object"`
	Plate    xmlPlate        `xml:"plate"`
	Assemble xmlAssemble     `xml:"assemble"`
}

type xmlConfigObject struct {
	ID       int                 `xml:"id,attr"`
	Metadata []xmlConfigMetadata `xml:"metadata"`
	Parts    []xmlConfigPart     `xml:"part"`
}

type xmlConfigPart struct {
	ID       int                 `xml:"id,attr"`
	Subtype  string              `xml:"subtype,attr"`
	Metadata []xmlConfigMetadata `xml:"metadata"`
}

type xmlConfigMetadata struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

type xmlPlate struct {
	Metadata  []xmlConfigMetadata `xml:"metadata"`
	Instances []xmlModelInstance  `xml:"model_instance"`
}

type xmlModelInstance struct {
	Metadata []xmlConfigMetadata `xml:"metadata"`
}

type xmlAssemble struct {
	Items []xmlAssembleItem `xml:"assemble_item"`
}

type xmlAssembleItem struct {
	ObjectID   int    `xml:"object_id,attr"`
	InstanceID int    `xml:"instance_id,attr"`
	Transform  string `xml:"transform,attr"`
	Offset     string `xml:"offset,attr"`
}

// addPlate places a single instance of objectID on the first build plate.
func (c *xmlConfig) addPlate(objectID int) {
	id := strconv.Itoa(objectID)
	c.Plate = xmlPlate{
		Metadata: []xmlConfigMetadata{
			{Key: "plater_id", Value: "1"},
			{Key: "locked", Value: "false"},
		},
		Instances: []xmlModelInstance{{
			Metadata: []xmlConfigMetadata{
				{Key: "object_id", Value: id},
				{Key: "instance_id", Value: "0"},
				{Key: "identify_id", Value: id},
			},
		}},
	}
	c.Assemble = xmlAssemble{
		Items: []xmlAssembleItem{{
			ObjectID:   objectID,
			InstanceID: 0,
			Transform:  identityTransform,
			Offset:     "0 0 0",
		}},
	}
}

// Height range modifiers, one per stacked part.

type xmlRanges struct {
	XMLName xml.Name         `xml:"objects"`
	Objects []xmlRangeObject `xml:"object"`
}

type xmlRangeObject struct {
	ID     int        `xml:"id,attr"`
	Ranges []xmlRange `xml:"range"`
}

type xmlRange struct {
	MinZ    string           `xml:"min_z,attr"`
	MaxZ    string           `xml:"max_z,attr"`
	Options []xmlRangeOption `xml:"option"`
}

type xmlRangeOption struct {
	Key   string `xml:"opt_key,attr"`
	Value string `xml:",chardata"`
}
