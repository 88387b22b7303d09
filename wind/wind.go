// Package wind formats wind observations for display.
package wind

import (
	"fmt"
	"math"
	"strconv"

	"github.com/couchcryptid/spotmeta/attrib"
)

// Default units for a new Value.
const (
	DefaultDirectionUnit = "°"
	DefaultSpeedUnit     = "knots"
)

// NoData marks a direction, speed or gust that has not been observed.
const NoData = -1

// Value is a single wind observation. Build it with NewValue so every
// instance starts from its own defaults.
type Value struct {
	Direction     float64 // degrees
	DirectionUnit string
	Speed         float64
	SpeedUnit     string
	Gust          float64
}

// NewValue returns a Value with no data and the default units.
func NewValue() Value {
	return Value{
		Direction:     NoData,
		DirectionUnit: DefaultDirectionUnit,
		Speed:         NoData,
		SpeedUnit:     DefaultSpeedUnit,
		Gust:          NoData,
	}
}

// Format renders v as "<dir><unit> <speed> <unit>", or with a
// "<speed>:<gust>" pair when the rounded gust exceeds the rounded speed.
// A negative or non-finite direction or speed yields the empty string, and
// a non-finite gust is treated as no gust.
func Format(v Value) string {
	if !present(v.Direction) || !present(v.Speed) {
		return ""
	}

	dir := int64(math.Round(v.Direction))
	spd := int64(math.Round(v.Speed))

	if present(v.Gust) && math.Round(v.Gust) > float64(spd) {
		gst := int64(math.Round(v.Gust))
		return fmt.Sprintf("%d%s %d:%d %s", dir, v.DirectionUnit, spd, gst, v.SpeedUnit)
	}
	return fmt.Sprintf("%d%s %d %s", dir, v.DirectionUnit, spd, v.SpeedUnit)
}

// present reports whether f is a usable measurement rather than NoData.
func present(f float64) bool {
	return f >= 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func (v Value) String() string {
	return Format(v)
}

// FromAttributes reads the wind model attributes from d. Missing,
// unparseable or non-finite values are left as NoData.
func FromAttributes(d attrib.Dict) Value {
	v := NewValue()
	v.Direction = floatAttr(d, attrib.WindDirection)
	v.Speed = floatAttr(d, attrib.WindSpeed)
	v.Gust = floatAttr(d, attrib.WindGust)
	return v
}

// Attributes returns the observed components of v as wind model attributes.
// Components holding NoData (or any negative or non-finite value) are
// omitted.
func (v Value) Attributes() attrib.Dict {
	d := attrib.Dict{}
	setFloat(d, attrib.WindDirection, v.Direction)
	setFloat(d, attrib.WindSpeed, v.Speed)
	setFloat(d, attrib.WindGust, v.Gust)
	return d
}

func floatAttr(d attrib.Dict, k attrib.Key) float64 {
	s, err := d.Lookup(k)
	if err != nil {
		return NoData
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !present(f) {
		return NoData
	}
	return f
}

func setFloat(d attrib.Dict, k attrib.Key, f float64) {
	if !present(f) {
		return
	}
	d[string(k)] = strconv.FormatFloat(f, 'g', -1, 64)
}
