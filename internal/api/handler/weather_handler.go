package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// WeatherHandler 天气播报
type WeatherHandler struct {
	svc service.WeatherService
}

// NewWeatherHandler 创建 WeatherHandler
func NewWeatherHandler(svc service.WeatherService) *WeatherHandler {
	return &WeatherHandler{svc: svc}
}

// Current GET /api/weather?location=
func (h *WeatherHandler) Current(c *gin.Context) {
	var req dto.WeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	data, err := h.svc.Current(c.Request.Context(), req.Location)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeatherNotConfigured):
			response.Error(c, http.StatusServiceUnavailable, 17101, "Weather service is not configured")
		case errors.Is(err, service.ErrWeatherLocation):
			response.NotFound(c, 17102, "Unknown location")
		case errors.Is(err, service.ErrWeatherUnavailable):
			response.Error(c, http.StatusBadGateway, 17103, "Weather service unavailable")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.OK(c, data)
}
