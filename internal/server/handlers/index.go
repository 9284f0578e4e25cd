package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Index(c *gin.Context) {
	c.JSON(http.StatusOK, IndexResponse{
		Message: "Welcome to the Historical Weather Data API",
		Endpoints: map[string]string{
			"POST /store-weather-data":             "Fetch and store weather data in the bucket",
			"GET /list-weather-files":              "List stored weather data files",
			"GET /weather-file-content/:file_name": "Retrieve content of a specific file",
		},
	})
}
