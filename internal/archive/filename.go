package archive

import (
	"fmt"
	"time"

	"github.com/vzahanych/weather-archive-app/internal/models"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "20060102150405"
)

// FileName builds weather_{lat}_{lon}_{start}_{end}_{YYYYMMDDhhmmss}.json with the
// capture time in UTC.
func FileName(query models.WeatherQuery, capturedAt time.Time) string {
	return fmt.Sprintf("weather_%s_%s_%s_%s_%s.json",
		query.Latitude,
		query.Longitude,
		query.StartDate,
		query.EndDate,
		capturedAt.UTC().Format(timestampLayout),
	)
}

// ValidateQuery checks coordinate bounds and that the dates are calendar dates in order.
func ValidateQuery(query models.WeatherQuery) error {
	if query.Latitude.Value < -90 || query.Latitude.Value > 90 {
		return NewValidationError("Latitude must be between -90 and 90 degrees", "latitude")
	}
	if query.Longitude.Value < -180 || query.Longitude.Value > 180 {
		return NewValidationError("Longitude must be between -180 and 180 degrees", "longitude")
	}

	start, err := time.Parse(dateLayout, query.StartDate)
	if err != nil {
		return NewValidationError("Dates must be in YYYY-MM-DD format", "start_date")
	}
	end, err := time.Parse(dateLayout, query.EndDate)
	if err != nil {
		return NewValidationError("Dates must be in YYYY-MM-DD format", "end_date")
	}

	if end.Before(start) {
		return NewValidationError("start_date must not be after end_date", "start_date", "end_date")
	}

	return nil
}
