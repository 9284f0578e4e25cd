package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// WeatherRecord is the provider response kept as raw JSON. Nothing downstream
// looks inside it.
type WeatherRecord = json.RawMessage

// WeatherQuery identifies one historical request: a point and an inclusive date range.
type WeatherQuery struct {
	Latitude  Coordinate
	Longitude Coordinate
	StartDate string
	EndDate   string
}

// StoredFile is a record as it lives in the object store.
type StoredFile struct {
	FileName string        `json:"file_name"`
	Content  WeatherRecord `json:"content"`
}

var ErrCoordinateNotNumber = errors.New("coordinate must be a JSON number")

// Coordinate is a latitude or longitude that remembers whether the client sent it
// as an integer or a decimal, so it renders back the way it was written
// ("35" stays "35", "35.0" stays "35.0").
type Coordinate struct {
	Value   float64
	integer bool
}

func NewCoordinate(v float64) Coordinate {
	return Coordinate{Value: v}
}

func NewIntegerCoordinate(v int64) Coordinate {
	return Coordinate{Value: float64(v), integer: true}
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if len(data) == 0 || data[0] == '"' || data[0] == 't' || data[0] == 'f' || data[0] == '[' || data[0] == '{' {
		return ErrCoordinateNotNumber
	}

	literal := string(data)
	v, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return ErrCoordinateNotNumber
	}

	c.Value = v
	c.integer = !strings.ContainsAny(literal, ".eE")
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// String renders integers without a fractional part and decimals in their
// shortest round-trip form with at least one fractional digit. Magnitudes below
// 1e-4 or from 1e16 up use exponent notation with a two-digit exponent.
func (c Coordinate) String() string {
	if c.integer {
		return strconv.FormatInt(int64(c.Value), 10)
	}

	abs := math.Abs(c.Value)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(c.Value, 'e', -1, 64)
	}

	s := strconv.FormatFloat(c.Value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
