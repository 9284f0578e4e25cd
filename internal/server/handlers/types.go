package handlers

import "github.com/vzahanych/weather-archive-app/internal/models"

// StoreWeatherRequest is the body of POST /store-weather-data. Coordinates are
// pointers so that 0 counts as present.
type StoreWeatherRequest struct {
	Latitude  *models.Coordinate `json:"latitude" validate:"required,latitude"`
	Longitude *models.Coordinate `json:"longitude" validate:"required,longitude"`
	StartDate string             `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string             `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (r StoreWeatherRequest) Query() models.WeatherQuery {
	return models.WeatherQuery{
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

type StoreWeatherResponse struct {
	Message  string `json:"message"`
	FileName string `json:"file_name"`
}

type IndexResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
	Bucket    string `json:"bucket,omitempty"`
	Error     string `json:"error,omitempty"`
}
