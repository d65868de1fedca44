package sigmf

import (
	"errors"
	"fmt"
	"time"

	"backend-trackaudit/internal/validator"

	"github.com/araddon/dateparse"
	"github.com/tidwall/gjson"
)

const (
	keyCaptures    = "captures"
	keyDatetime    = "core:datetime"
	keyGeotrack    = "global.iqengine:geotrack"
	keyCoordinates = "coordinates"
	keyDescription = "global.core:description"
	keyOrigin      = "global.traceability:origin"
)

var (
	errInvalidJSON = errors.New("invalid json")
	errNotArray    = errors.New("not an array")
	errNotString   = errors.New("not a string")
	errArity       = errors.New("want [lon, lat, alt]")
	errNotNumber   = errors.New("not a number")
	errDuplicate   = errors.New("duplicate key")
)

type Origin struct {
	Account   string `json:"account,omitempty"`
	Container string `json:"container,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
}

// Document is the subset of a SigMF metadata file the audit reads.
type Document struct {
	Record      validator.Record `json:"record"`
	Description string           `json:"description,omitempty"`
	Origin      Origin           `json:"origin"`
}

// Start and End bound the capture timestamps. Both are zero when the
// document has no captures.
func (d Document) Start() time.Time {
	var start time.Time
	for _, c := range d.Record.Captures {
		if start.IsZero() || c.Timestamp.Before(start) {
			start = c.Timestamp
		}
	}
	return start
}

func (d Document) End() time.Time {
	var end time.Time
	for _, c := range d.Record.Captures {
		if c.Timestamp.After(end) {
			end = c.Timestamp
		}
	}
	return end
}

// Decode extracts captures and the geotrack from a metadata document.
// Timestamps without a zone are read as UTC.
func Decode(name string, raw []byte) (Document, error) {
	if !gjson.ValidBytes(raw) {
		return Document{}, &validator.ParseError{Field: "document", Err: errInvalidJSON}
	}
	root := gjson.ParseBytes(raw)
	if err := checkUniqueKeys(root); err != nil {
		return Document{}, err
	}

	captures, err := decodeCaptures(root)
	if err != nil {
		return Document{}, err
	}
	track, err := decodeTrack(root)
	if err != nil {
		return Document{}, err
	}

	origin := root.Get(keyOrigin)
	return Document{
		Record: validator.Record{
			Name:     name,
			Captures: captures,
			Track:    track,
		},
		Description: root.Get(keyDescription).String(),
		Origin: Origin{
			Account:   origin.Get("account").String(),
			Container: origin.Get("container").String(),
			FilePath:  origin.Get("file_path").String(),
		},
	}, nil
}

func decodeCaptures(root gjson.Result) ([]validator.CaptureEvent, error) {
	caps := root.Get(keyCaptures)
	if !caps.Exists() {
		return nil, &validator.SchemaError{Key: keyCaptures}
	}
	if !caps.IsArray() {
		return nil, &validator.ParseError{Field: keyCaptures, Err: errNotArray}
	}

	items := caps.Array()
	events := make([]validator.CaptureEvent, 0, len(items))
	for i, c := range items {
		field := fmt.Sprintf("%s[%d].%s", keyCaptures, i, keyDatetime)
		dt := c.Get(keyDatetime)
		if !dt.Exists() {
			return nil, &validator.SchemaError{Key: field}
		}
		if dt.Type != gjson.String {
			return nil, &validator.ParseError{Field: field, Value: dt.Raw, Err: errNotString}
		}
		ts, err := ParseTimestamp(dt.Str)
		if err != nil {
			return nil, &validator.ParseError{Field: field, Value: dt.Str, Err: err}
		}
		events = append(events, validator.CaptureEvent{Timestamp: ts})
	}
	return events, nil
}

func decodeTrack(root gjson.Result) ([]validator.TrackPoint, error) {
	geotrack := root.Get(keyGeotrack)
	if !geotrack.Exists() {
		return nil, &validator.SchemaError{Key: keyGeotrack}
	}
	coords := geotrack.Get(keyCoordinates)
	if !coords.Exists() {
		return nil, &validator.SchemaError{Key: keyGeotrack + "." + keyCoordinates}
	}
	if !coords.IsArray() {
		return nil, &validator.ParseError{Field: keyCoordinates, Err: errNotArray}
	}

	items := coords.Array()
	track := make([]validator.TrackPoint, 0, len(items))
	for i, c := range items {
		field := fmt.Sprintf("%s[%d]", keyCoordinates, i)
		if !c.IsArray() {
			return nil, &validator.ParseError{Field: field, Value: c.Raw, Err: errArity}
		}
		vals := c.Array()
		if len(vals) != 3 {
			return nil, &validator.ParseError{Field: field, Value: c.Raw, Err: errArity}
		}
		for _, v := range vals {
			if v.Type != gjson.Number {
				return nil, &validator.ParseError{Field: field, Value: c.Raw, Err: errNotNumber}
			}
		}
		track = append(track, validator.TrackPoint{
			Longitude: vals[0].Num,
			Latitude:  vals[1].Num,
			Altitude:  vals[2].Num,
		})
	}
	return track, nil
}

type keyCheck struct {
	obj  gjson.Result
	path string
	keys []string
}

// checkUniqueKeys rejects documents that repeat any key Decode reads. gjson
// resolves a repeated key to its first occurrence, most JSON decoders to the
// last, so such a document has no single reading.
func checkUniqueKeys(root gjson.Result) error {
	checks := []keyCheck{
		{root, "", []string{keyCaptures, "global"}},
		{root.Get("global"), "global", []string{"iqengine:geotrack", "core:description", "traceability:origin"}},
		{root.Get(keyGeotrack), keyGeotrack, []string{keyCoordinates}},
	}
	for i, c := range root.Get(keyCaptures).Array() {
		checks = append(checks, keyCheck{c, fmt.Sprintf("%s[%d]", keyCaptures, i), []string{keyDatetime}})
	}

	for _, c := range checks {
		if !c.obj.IsObject() {
			continue
		}
		seen := make(map[string]bool, len(c.keys))
		var dup string
		c.obj.ForEach(func(k, _ gjson.Result) bool {
			key := k.String()
			for _, want := range c.keys {
				if key != want {
					continue
				}
				if seen[key] {
					dup = key
					return false
				}
				seen[key] = true
			}
			return true
		})
		if dup != "" {
			field := dup
			if c.path != "" {
				field = c.path + "." + dup
			}
			return &validator.ParseError{Field: field, Err: errDuplicate}
		}
	}
	return nil
}

// ParseTimestamp accepts ISO-8601 and the other layouts SigMF writers are
// known to emit.
func ParseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	return dateparse.ParseIn(s, time.UTC)
}
