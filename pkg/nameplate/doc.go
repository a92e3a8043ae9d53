// Package nameplate computes the physical layout of a printable nameplate.
//
// A plate is a rounded rectangular base with two pin holes near its top
// corners and a raised text layer sitting flush on top of it. The width of
// the base follows the length of the name:
//
//	width = ceil((textWidth + 2*margin) / step) * step, within [MinWidth, MaxWidth]
//
// Text width is estimated without the CAD renderer, either with a per
// character heuristic or by measuring glyph advances of an embedded font.
// Names that do not fit MaxWidth get a smaller font (down to MinFontSize);
// if that is still not enough the plate is clamped and flagged as Overflow.
// Characters are never dropped.
//
// Everything in this package is pure: ComputePlate returns the same PlateSpec
// for the same name and StyleConfig.
package nameplate
