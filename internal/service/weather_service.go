package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"gzoran/amap-weather/internal/db/weatherquery"
	"gzoran/amap-weather/internal/providers"
)

var ErrEmptyCity = errors.New("city cannot be empty")

const (
	ReportLive     = "live"
	ReportForecast = "forecast"
)

type WeatherRequest struct {
	RequestID string
	City      string
	Type      string
	Format    string
}

type WeatherResult struct {
	RequestID string         `json:"request_id"`
	City      string         `json:"city"`
	Type      string         `json:"type"`
	Format    string         `json:"format"`
	Data      map[string]any `json:"data,omitempty"`
	Raw       string         `json:"-"`
}

type WeatherService interface {
	GetWeather(ctx context.Context, req WeatherRequest) (*WeatherResult, error)
}

type weatherService struct {
	weatherAPI       providers.WeatherAPIService
	weatherQueryRepo weatherquery.Repository
}

// NewWeatherService wires the provider to an optional query log; weatherQueryRepo may be nil.
func NewWeatherService(weatherAPI providers.WeatherAPIService, weatherQueryRepo weatherquery.Repository) WeatherService {
	return &weatherService{
		weatherAPI:       weatherAPI,
		weatherQueryRepo: weatherQueryRepo,
	}
}

func (s *weatherService) GetWeather(ctx context.Context, req WeatherRequest) (*WeatherResult, error) {
	if strings.TrimSpace(req.City) == "" {
		return nil, ErrEmptyCity
	}

	reportType := resolveType(req.Type)
	format := req.Format
	if format == "" {
		format = providers.FormatJSON
	}

	started := time.Now()
	response, err := s.weatherAPI.GetWeather(ctx, req.City,
		providers.WithType(reportType),
		providers.WithFormat(format),
	)
	elapsed := time.Since(started)

	if err != nil {
		if !errors.Is(err, providers.ErrInvalidArgument) {
			s.logQuery(req, reportType, format, elapsed, err)
		}
		return nil, err
	}

	s.logQuery(req, reportType, format, elapsed, nil)

	return &WeatherResult{
		RequestID: req.RequestID,
		City:      req.City,
		Type:      strings.ToLower(reportType),
		Format:    response.Format,
		Data:      response.Data,
		Raw:       response.Raw,
	}, nil
}

// resolveType maps the live/forecast aliases onto upstream report types.
func resolveType(reportType string) string {
	switch strings.ToLower(reportType) {
	case "":
		return providers.TypeBase
	case ReportLive:
		return providers.TypeBase
	case ReportForecast:
		return providers.TypeAll
	default:
		return reportType
	}
}

func (s *weatherService) logQuery(req WeatherRequest, reportType, format string, elapsed time.Duration, queryErr error) {
	if s.weatherQueryRepo == nil {
		return
	}

	query := &weatherquery.WeatherQuery{
		RequestID:  req.RequestID,
		City:       req.City,
		Type:       strings.ToLower(reportType),
		Format:     strings.ToLower(format),
		Success:    queryErr == nil,
		DurationMs: elapsed.Milliseconds(),
	}

	if queryErr != nil {
		query.ErrorMessage = queryErr.Error()

		var httpErr *providers.HTTPError
		if errors.As(queryErr, &httpErr) {
			query.StatusCode = httpErr.Code
		}
	}

	if err := s.weatherQueryRepo.LogWeatherQuery(query); err != nil {
		log.Error().Err(err).Str("request_id", req.RequestID).Msg("Failed to log weather query")
	}
}
