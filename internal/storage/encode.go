package storage

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/vzahanych/weather-archive-app/internal/models"
)

const contentTypeJSON = "application/json"

var errInvalidJSON = errors.New("content is not valid JSON")

// encodeRecord renders content with two-space indentation, the layout objects are stored in.
func encodeRecord(content models.WeatherRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, content, "", "  "); err != nil {
		return nil, errInvalidJSON
	}
	return buf.Bytes(), nil
}

func decodeRecord(data []byte) (models.WeatherRecord, error) {
	if !json.Valid(data) {
		return nil, errInvalidJSON
	}
	return models.WeatherRecord(data), nil
}
