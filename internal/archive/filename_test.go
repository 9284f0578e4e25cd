package archive

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-archive-app/internal/models"
)

func queryFromJSON(t *testing.T, lat, lon string) models.WeatherQuery {
	t.Helper()
	var q models.WeatherQuery
	require.NoError(t, json.Unmarshal([]byte(lat), &q.Latitude))
	require.NoError(t, json.Unmarshal([]byte(lon), &q.Longitude))
	q.StartDate = "2023-01-01"
	q.EndDate = "2023-01-07"
	return q
}

func TestFileName(t *testing.T) {
	captured := time.Date(2023, 1, 8, 9, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		lat  string
		lon  string
		want string
	}{
		{"decimals", "35.6895", "139.6917", "weather_35.6895_139.6917_2023-01-01_2023-01-07_20230108090405.json"},
		{"integers", "35", "139", "weather_35_139_2023-01-01_2023-01-07_20230108090405.json"},
		{"negative", "-33.8688", "-151.2093", "weather_-33.8688_-151.2093_2023-01-01_2023-01-07_20230108090405.json"},
		{"trailing zero", "52.50", "13.0", "weather_52.5_13.0_2023-01-01_2023-01-07_20230108090405.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(queryFromJSON(t, tt.lat, tt.lon), captured))
		})
	}
}

func TestFileName_UsesUTC(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	captured := time.Date(2023, 1, 8, 9, 4, 5, 0, tokyo)

	got := FileName(queryFromJSON(t, "35.6895", "139.6917"), captured)
	assert.Equal(t, "weather_35.6895_139.6917_2023-01-01_2023-01-07_20230108000405.json", got)
}

func TestValidateQuery(t *testing.T) {
	valid := models.WeatherQuery{
		Latitude:  models.NewCoordinate(35.6895),
		Longitude: models.NewCoordinate(139.6917),
		StartDate: "2023-01-01",
		EndDate:   "2023-01-07",
	}

	tests := []struct {
		name   string
		mutate func(*models.WeatherQuery)
		field  string
	}{
		{"latitude too high", func(q *models.WeatherQuery) { q.Latitude = models.NewCoordinate(90.5) }, "latitude"},
		{"longitude too low", func(q *models.WeatherQuery) { q.Longitude = models.NewCoordinate(-180.1) }, "longitude"},
		{"bad start date", func(q *models.WeatherQuery) { q.StartDate = "01/01/2023" }, "start_date"},
		{"impossible end date", func(q *models.WeatherQuery) { q.EndDate = "2023-02-30" }, "end_date"},
		{"reversed range", func(q *models.WeatherQuery) { q.StartDate = "2023-01-08" }, "start_date"},
	}

	require.NoError(t, ValidateQuery(valid))

	same := valid
	same.EndDate = same.StartDate
	require.NoError(t, ValidateQuery(same), "single-day range is valid")

	zero := valid
	zero.Latitude = models.NewIntegerCoordinate(0)
	require.NoError(t, ValidateQuery(zero), "zero latitude is a real place")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			tt.mutate(&q)

			err := ValidateQuery(q)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tt.field)
		})
	}
}
