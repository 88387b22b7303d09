// Package attrib defines the FPA attribute key vocabulary and the string
// dictionary used to carry attribute values.
//
// Keys are fixed at compile time. A lookup with a key outside the vocabulary
// is a caller error ([ErrUnknownKey]) and is reported separately from a known
// key that simply has no value in a given dictionary ([ErrAbsent]).
package attrib

import (
	"errors"
	"fmt"
	"sort"
)

// Key identifies an attribute.
type Key string

// General feature attributes.
const (
	Category  Key = "FPA_category"
	AutoLabel Key = "FPA_auto_label"
	UserLabel Key = "FPA_user_label"
	Timestamp Key = "FPA_timestamp"
	Latitude  Key = "FPA_latitude"
	Longitude Key = "FPA_longitude"
	Proximity Key = "FPA_proximity"
)

// Wind model attributes.
const (
	WindModel     Key = "FPA_wind_model"
	WindDirection Key = "FPA_wind_direction"
	WindSpeed     Key = "FPA_wind_speed"
	WindGust      Key = "FPA_wind_gust"
)

// Line chain attributes.
const (
	LchainReference Key = "FPA_lchain_reference"
	LchainStartTime Key = "FPA_lchain_start_time"
	LchainEndTime   Key = "FPA_lchain_end_time"
)

// Line chain node attributes.
const (
	LnodeType      Key = "FPA_lnode_type"
	LnodeTime      Key = "FPA_lnode_time"
	LnodeDirection Key = "FPA_lnode_direction"
	LnodeSpeed     Key = "FPA_lnode_speed"
)

// Node classification tags, the values carried by LnodeType.
const (
	NodeUnknown = "unknown"
	NodeInterp  = "interp"
	NodeControl = "control"
	NodeNormal  = "normal"
)

// Display defaults for the general feature attributes.
const (
	CategoryDefault  = "default"
	AutoLabelDefault = "No Label"
	UserLabelDefault = "No Label"
)

var (
	// ErrUnknownKey is returned when a key is not part of the vocabulary.
	ErrUnknownKey = errors.New("unknown attribute key")
	// ErrAbsent is returned when a known key has no value in a dictionary.
	ErrAbsent = errors.New("attribute not present")
)

var labels = map[Key]string{
	Category:        "Category",
	AutoLabel:       "Value",
	UserLabel:       "Label",
	Timestamp:       "Timestamp",
	Latitude:        "Latitude",
	Longitude:       "Longitude",
	Proximity:       "Proximity (km)",
	WindModel:       "Wind Model",
	WindDirection:   "Wind Direction",
	WindSpeed:       "Wind Speed",
	WindGust:        "Wind Gust",
	LchainReference: "Reference Time",
	LchainStartTime: "Start Time",
	LchainEndTime:   "End Time",
	LnodeType:       "Node Type",
	LnodeTime:       "Node Time",
	LnodeDirection:  "Node Direction",
	LnodeSpeed:      "Node Speed (m/s)",
}

// Known reports whether k belongs to the vocabulary.
func Known(k Key) bool {
	_, ok := labels[k]
	return ok
}

// Keys returns the vocabulary in sorted order.
func Keys() []Key {
	keys := make([]Key, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Label returns the display label for k, or the empty string for unknown keys.
func Label(k Key) string {
	return labels[k]
}

// Dict maps attribute names to values. The persistence helpers also use it
// for arbitrary string keys, so it is not restricted to the vocabulary.
type Dict map[string]string

// Lookup returns the value stored under k.
func (d Dict) Lookup(k Key) (string, error) {
	if !Known(k) {
		return "", fmt.Errorf("lookup %q: %w", k, ErrUnknownKey)
	}
	v, ok := d[string(k)]
	if !ok {
		return "", fmt.Errorf("lookup %q: %w", k, ErrAbsent)
	}
	return v, nil
}

// Set stores v under k. The dictionary must be non-nil.
func (d Dict) Set(k Key, v string) error {
	if !Known(k) {
		return fmt.Errorf("set %q: %w", k, ErrUnknownKey)
	}
	d[string(k)] = v
	return nil
}

// DefaultDict builds the category / auto label / user label triple every
// FPA feature carries.
func DefaultDict(category, autoLabel, userLabel string) Dict {
	return Dict{
		string(Category):  category,
		string(AutoLabel): autoLabel,
		string(UserLabel): userLabel,
	}
}
