package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yiconnect/backend/internal/app/models/dto"
)

// parseIDParam reads a positive integer path parameter. On failure it writes
// the standard validation error response and returns false.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter").
			WithDetails(name + " must be a positive integer")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}

// parseYearQuery reads the "year" query parameter, defaulting to the current
// year when absent.
func parseYearQuery(c *gin.Context) int {
	yearStr := c.Query("year")
	if yearStr == "" {
		return time.Now().Year()
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Now().Year()
	}
	return year
}

// optionalIDQuery reads an optional integer query parameter, returning nil
// when it is absent or malformed.
func optionalIDQuery(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil
	}
	return &id
}
