package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/vzahanych/weather-archive-app/internal/archive"
	"github.com/vzahanych/weather-archive-app/internal/models"
	"github.com/vzahanych/weather-archive-app/internal/server/utils"
	"github.com/vzahanych/weather-archive-app/internal/service"
	"github.com/vzahanych/weather-archive-app/internal/storage"
	"github.com/vzahanych/weather-archive-app/pkg/logger"
	"go.uber.org/zap"
)

const (
	msgInvalidJSON     = "Invalid JSON payload"
	msgMissingFields   = "Missing required fields: latitude, longitude, start_date, end_date"
	msgNotNumbers      = "Latitude and longitude must be numbers"
	msgBadDates        = "Dates must be in YYYY-MM-DD format"
	msgStored          = "Weather data stored successfully"
	msgFileNotFound    = "File not found"
	msgStoreFailed     = "Failed to store data in the weather bucket"
	msgListFailed      = "Failed to list files from the weather bucket"
	msgRetrieveFailed  = "Failed to retrieve file content from the weather bucket"
	msgUpstreamFailure = "Failed to fetch data from the weather provider"
)

var requiredFields = []string{"latitude", "longitude", "start_date", "end_date"}

// Archive is the part of archive.Archiver the weather endpoints need.
type Archive interface {
	Store(ctx context.Context, query models.WeatherQuery) (string, error)
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, fileName string) (models.StoredFile, error)
}

type WeatherHandler struct {
	archive Archive
	logger  *zap.Logger
}

func NewWeatherHandler(archive Archive, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		archive: archive,
		logger:  logger,
	}
}

// StoreWeatherData handles POST /store-weather-data.
func (h *WeatherHandler) StoreWeatherData(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := logger.ForContext(ctx, h.logger)

	var req StoreWeatherRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		status, body := h.bindError(c, err)
		reqLogger.Warn("Rejected store request", zap.String("reason", body.Error), zap.Error(err))
		c.JSON(status, body)
		return
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		body := validationResponse(errs)
		reqLogger.Warn("Rejected store request", zap.String("reason", body.Error), zap.String("details", body.Details))
		c.JSON(http.StatusBadRequest, body)
		return
	}

	query := req.Query()
	reqLogger.Info("Processing store request",
		zap.Stringer("lat", query.Latitude),
		zap.Stringer("lon", query.Longitude),
		zap.String("start_date", query.StartDate),
		zap.String("end_date", query.EndDate))

	fileName, err := h.archive.Store(ctx, query)
	if err != nil {
		status, body := storeErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, StoreWeatherResponse{
		Message:  msgStored,
		FileName: fileName,
	})
}

// ListWeatherFiles handles GET /list-weather-files.
func (h *WeatherHandler) ListWeatherFiles(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)

	names, err := h.archive.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   msgListFailed,
			Code:    "STORAGE_ERROR",
			Details: err.Error(),
		})
		return
	}

	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, names)
}

// GetWeatherFileContent handles GET /weather-file-content/:file_name. The stored
// document is returned as-is.
func (h *WeatherHandler) GetWeatherFileContent(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	fileName := c.Param("file_name")

	file, err := h.archive.Read(ctx, fileName)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgFileNotFound, Code: "NOT_FOUND"})
		return
	case err != nil:
		logger.ForContext(ctx, h.logger).Error("Failed to read weather file",
			zap.String("file_name", fileName),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   msgRetrieveFailed,
			Code:    "STORAGE_ERROR",
			Details: err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", file.Content)
}

// bindError maps a body decoding failure to a response. Missing fields are
// reported ahead of wrongly typed coordinates.
func (h *WeatherHandler) bindError(c *gin.Context, err error) (int, ErrorResponse) {
	if !errors.Is(err, models.ErrCoordinateNotNumber) {
		return http.StatusBadRequest, ErrorResponse{Error: msgInvalidJSON, Code: "INVALID_JSON"}
	}

	var raw map[string]any
	if c.ShouldBindBodyWith(&raw, binding.JSON) == nil {
		for _, field := range requiredFields {
			if v, ok := raw[field]; !ok || v == nil {
				return http.StatusBadRequest, ErrorResponse{Error: msgMissingFields, Code: "MISSING_FIELDS", Details: field}
			}
		}
	}
	return http.StatusBadRequest, ErrorResponse{Error: msgNotNumbers, Code: "INVALID_PARAMS"}
}

func validationResponse(errs []utils.ValidationError) ErrorResponse {
	var missing []string
	for _, e := range errs {
		if e.Tag == "required" {
			missing = append(missing, e.Field)
		}
	}
	if len(missing) > 0 {
		return ErrorResponse{Error: msgMissingFields, Code: "MISSING_FIELDS", Details: strings.Join(missing, ", ")}
	}

	first := errs[0]
	switch first.Tag {
	case "datetime":
		return ErrorResponse{Error: msgBadDates, Code: "INVALID_PARAMS", Details: first.Message}
	default:
		return ErrorResponse{Error: first.Message, Code: "INVALID_PARAMS"}
	}
}

func storeErrorResponse(err error) (int, ErrorResponse) {
	var validationErr *archive.ValidationError
	var upstreamErr *service.UpstreamFetchError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorResponse{
			Error:   validationErr.Message,
			Code:    "INVALID_PARAMS",
			Details: strings.Join(validationErr.Fields, ", "),
		}
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, ErrorResponse{
			Error:   msgUpstreamFailure + ": " + upstreamErr.Error(),
			Code:    "UPSTREAM_ERROR",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   msgStoreFailed,
			Code:    "STORAGE_ERROR",
			Details: err.Error(),
		}
	}
}
