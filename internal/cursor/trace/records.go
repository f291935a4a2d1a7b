// Package trace records raw pointer sessions as newline-delimited JSON and
// reads them back for deterministic replay.
//
// A trace is one header record followed by tick records in non-decreasing
// tick order:
//
//	{"type":"header","schemaVersion":1,"sourceApp":"steadycursor","fixedHz":60,...}
//	{"type":"tick","tick":0,"x":512,"y":384,"dx":0,"dy":0,"btn":0}
//
// Field names are case-sensitive. Readers ignore unknown fields.
package trace

import (
	"fmt"
	"time"

	"github.com/banshee-data/steadycursor/internal/cursor/engine"
)

// FileExtension is the conventional extension for trace files.
const FileExtension = ".ndjson"

// SchemaVersion is written into new headers. It tracks the record layout
// and the engine hash schema together, since a baseline hash is only
// meaningful under the fold that produced it.
const SchemaVersion = engine.HashSchemaVersion

const (
	recordHeader = "header"
	recordTick   = "tick"
)

// Header is the first record of every trace.
type Header struct {
	SchemaVersion int       `json:"schemaVersion"`
	SourceApp     string    `json:"sourceApp"`
	SourceVersion string    `json:"sourceVersion,omitempty"`
	FixedHz       int       `json:"fixedHz"`
	RunSeed       *uint64   `json:"runSeed,omitempty"`
	RunID         string    `json:"runId,omitempty"`
	DPI           *float64  `json:"dpi,omitempty"`
	VirtualWidth  float64   `json:"virtualWidth"`
	VirtualHeight float64   `json:"virtualHeight"`
	CreatedUTC    time.Time `json:"createdUtc"`
}

// NewHeader returns a header for the current schema.
func NewHeader(sourceApp string, fixedHz int, created time.Time) Header {
	return Header{
		SchemaVersion: SchemaVersion,
		SourceApp:     sourceApp,
		FixedHz:       fixedHz,
		CreatedUTC:    created.UTC(),
	}
}

// Bounds returns the virtual screen described by the header.
func (h Header) Bounds() engine.Rect {
	return engine.Rect{Width: h.VirtualWidth, Height: h.VirtualHeight}
}

// Validate reports the first structural problem with h.
func (h Header) Validate() error {
	switch {
	case h.SchemaVersion < 1:
		return fmt.Errorf("schemaVersion %d must be at least 1", h.SchemaVersion)
	case h.SourceApp == "":
		return fmt.Errorf("sourceApp is required")
	case h.FixedHz <= 0:
		return fmt.Errorf("fixedHz %d must be positive", h.FixedHz)
	case h.VirtualWidth < 0 || h.VirtualHeight < 0:
		return fmt.Errorf("virtual size %gx%g must be non-negative", h.VirtualWidth, h.VirtualHeight)
	}
	return nil
}

// Sample is one tick of raw pointer input.
type Sample struct {
	Tick uint64  `json:"tick"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	DX   float64 `json:"dx"`
	DY   float64 `json:"dy"`
	Btn  uint8   `json:"btn"` // bit 0 primary, bit 1 secondary
}

// SampleFromInput converts an engine sample to its trace record.
func SampleFromInput(in engine.InputSample) Sample {
	return Sample{
		Tick: in.Tick,
		X:    in.Position.X,
		Y:    in.Position.Y,
		DX:   in.Delta.X,
		DY:   in.Delta.Y,
		Btn:  in.Buttons(),
	}
}

// Input converts the record back to an engine sample.
func (s Sample) Input() engine.InputSample {
	return engine.SampleFromButtons(
		s.Tick,
		engine.Vec2{X: s.X, Y: s.Y},
		engine.Vec2{X: s.DX, Y: s.DY},
		s.Btn,
	)
}

type headerRecord struct {
	Type string `json:"type"`
	Header
}

type sampleRecord struct {
	Type string `json:"type"`
	Sample
}

// sampleWire is the decode side of a tick record. Pointers distinguish a
// missing field from a zero value.
type sampleWire struct {
	Type string   `json:"type"`
	Tick *uint64  `json:"tick"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	DX   *float64 `json:"dx"`
	DY   *float64 `json:"dy"`
	Btn  uint8    `json:"btn"`
}

func (w sampleWire) sample() (Sample, error) {
	missing := ""
	switch {
	case w.Tick == nil:
		missing = "tick"
	case w.X == nil:
		missing = "x"
	case w.Y == nil:
		missing = "y"
	case w.DX == nil:
		missing = "dx"
	case w.DY == nil:
		missing = "dy"
	}
	if missing != "" {
		return Sample{}, fmt.Errorf("tick record missing %q", missing)
	}
	return Sample{Tick: *w.Tick, X: *w.X, Y: *w.Y, DX: *w.DX, DY: *w.DY, Btn: w.Btn}, nil
}
