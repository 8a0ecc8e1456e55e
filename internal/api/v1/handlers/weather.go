package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"gzoran/amap-weather/internal/providers"
	"gzoran/amap-weather/internal/service"
)

const RequestIDHeader = "X-Request-Id"

type WeatherHandler struct {
	weatherService service.WeatherService
	timeout        time.Duration
}

func NewWeatherHandler(weatherService service.WeatherService, timeout time.Duration) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
		timeout:        timeout,
	}
}

func (h *WeatherHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/weather":
		h.serveWeather(w, r, r.URL.Query().Get("type"))
	case "/weather/live":
		h.serveWeather(w, r, service.ReportLive)
	case "/weather/forecast":
		h.serveWeather(w, r, service.ReportForecast)
	default:
		respondWithError(w, http.StatusNotFound, "not found")
	}
}

func (h *WeatherHandler) serveWeather(w http.ResponseWriter, r *http.Request, reportType string) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = ulid.Make().String()
	}
	w.Header().Set(RequestIDHeader, requestID)

	city := r.URL.Query().Get("city")
	if city == "" {
		respondWithError(w, http.StatusBadRequest, "city parameter 'city' is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.weatherService.GetWeather(ctx, service.WeatherRequest{
		RequestID: requestID,
		City:      city,
		Type:      reportType,
		Format:    r.URL.Query().Get("format"),
	})
	if err != nil {
		status := statusForError(err)
		log.Error().Err(err).
			Str("request_id", requestID).
			Str("city", city).
			Int("status", status).
			Msg("failed to get weather data")
		respondWithError(w, status, "failed to get weather data: "+errorDetail(err))
		return
	}

	if result.Format == providers.FormatXML {
		respondWithXML(w, http.StatusOK, result.Raw)
		return
	}

	respondWithJSON(w, http.StatusOK, WeatherResponse{
		RequestID: requestID,
		City:      result.City,
		Type:      result.Type,
		Data:      result.Data,
	})
}
