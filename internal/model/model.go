// Package model defines the canonical entities shared between the scraping
// layer and the REST API, and the lazy fields that complete them.
package model

import (
	"fmt"
	"strings"

	"github.com/lildude/stravaweb/internal/lazy"
	"github.com/lildude/stravaweb/internal/weberr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Policy selects how a second extraction is merged into an entity.
type Policy int

const (
	// Overwrite replaces existing values.
	Overwrite Policy = iota
	// FillMissing only sets values that are still empty.
	FillMissing
)

// LatLng is a single location pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l LatLng) String() string {
	return fmt.Sprintf("%.6f,%.6f", l.Lat, l.Lng)
}

// FrameType is a bike frame type, numbered as the REST API numbers them.
type FrameType int

const (
	FrameUnknown FrameType = iota
	MountainBike
	CrossBike
	RoadBike
	TimeTrialBike
)

var frameTypeNames = map[FrameType]string{
	MountainBike:  "MOUNTAIN_BIKE",
	CrossBike:     "CROSS_BIKE",
	RoadBike:      "ROAD_BIKE",
	TimeTrialBike: "TIME_TRIAL_BIKE",
}

// String returns the label the site displays, e.g. "Time Trial Bike".
func (f FrameType) String() string {
	name, ok := frameTypeNames[f]
	if !ok {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// ParseFrameType accepts the site's labels, including the "TT Bike" shorthand.
func ParseFrameType(s string) (FrameType, error) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	if strings.HasPrefix(name, "TT_") {
		name = "TIME_TRIAL_" + strings.TrimPrefix(name, "TT_")
	}
	for f, n := range frameTypeNames {
		if n == name {
			return f, nil
		}
	}
	return FrameUnknown, weberr.Invalid("frame_type", "unknown frame type %q", s)
}

// DataFormat is an activity or route export format.
type DataFormat string

const (
	FormatOriginal DataFormat = "original"
	FormatGPX      DataFormat = "gpx"
	FormatTCX      DataFormat = "tcx"
)

// ParseDataFormat validates an export format name.
func ParseDataFormat(s string) (DataFormat, error) {
	switch f := DataFormat(strings.ToLower(s)); f {
	case FormatOriginal, FormatGPX, FormatTCX:
		return f, nil
	}
	return "", weberr.Invalid("format", "unknown data format %q", s)
}

// Extension returns the file extension used for a synthesized filename.
func (f DataFormat) Extension() string {
	if f == FormatOriginal {
		return "dat"
	}
	return string(f)
}

// table returns t, creating an unbound one when the entity was built by hand.
func table(t **lazy.Table, bind func(*lazy.Table)) *lazy.Table {
	if *t == nil {
		*t = lazy.New(nil)
		bind(*t)
	}
	return *t
}
