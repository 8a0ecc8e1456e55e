package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultEndpoint = "https://restapi.amap.com/v3/weather/weatherInfo"

const (
	TypeBase = "base"
	TypeAll  = "all"

	FormatJSON = "json"
	FormatXML  = "xml"
)

type WeatherAPIService interface {
	GetWeather(ctx context.Context, city string, opts ...QueryOption) (*WeatherResponse, error)
	GetLiveWeather(ctx context.Context, city string, opts ...QueryOption) (*WeatherResponse, error)
	GetForecastWeather(ctx context.Context, city string, opts ...QueryOption) (*WeatherResponse, error)
	ConfigureTransport(opts TransportOptions) error
	TransportOptions() TransportOptions
	Transport() Transport
}

// WeatherResponse holds the upstream body. Data is only set for json output.
type WeatherResponse struct {
	Format string
	Data   map[string]any
	Raw    string
}

type weatherQuery struct {
	reportType string
	format     string
}

type QueryOption func(*weatherQuery)

// WithType selects the report type: "base" for live conditions, "all" for forecasts.
func WithType(reportType string) QueryOption {
	return func(q *weatherQuery) {
		q.reportType = reportType
	}
}

// WithFormat selects the upstream output format, "json" or "xml".
func WithFormat(format string) QueryOption {
	return func(q *weatherQuery) {
		q.format = format
	}
}

type weatherAPIService struct {
	apiKey     string
	endpoint   string
	newClient  TransportFactory
	logger     zerolog.Logger
	optionsMu  sync.RWMutex
	httpConfig TransportOptions
}

type Option func(*weatherAPIService)

func WithEndpoint(endpoint string) Option {
	return func(s *weatherAPIService) {
		if endpoint != "" {
			s.endpoint = endpoint
		}
	}
}

// WithTransportFactory replaces how transports are built from TransportOptions.
func WithTransportFactory(factory TransportFactory) Option {
	return func(s *weatherAPIService) {
		s.newClient = factory
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *weatherAPIService) {
		s.logger = logger
	}
}

func NewWeatherAPIService(apiKey string, opts ...Option) WeatherAPIService {
	s := &weatherAPIService{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		newClient: func(opts TransportOptions) Transport {
			return NewHTTPTransport(opts)
		},
		logger: log.Logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *weatherAPIService) ConfigureTransport(opts TransportOptions) error {
	if err := validateTransportOptions(opts); err != nil {
		return err
	}

	s.optionsMu.Lock()
	s.httpConfig = opts
	s.optionsMu.Unlock()

	return nil
}

func (s *weatherAPIService) TransportOptions() TransportOptions {
	s.optionsMu.RLock()
	defer s.optionsMu.RUnlock()

	return s.httpConfig
}

func (s *weatherAPIService) Transport() Transport {
	return s.newClient(s.TransportOptions())
}

func (s *weatherAPIService) GetWeather(ctx context.Context, city string, opts ...QueryOption) (*WeatherResponse, error) {
	query := weatherQuery{
		reportType: TypeBase,
		format:     FormatJSON,
	}
	for _, opt := range opts {
		opt(&query)
	}

	format := strings.ToLower(query.format)
	if format != FormatJSON && format != FormatXML {
		return nil, &InvalidArgumentError{Message: "Invalid response format: " + query.format}
	}

	reportType := strings.ToLower(query.reportType)
	if reportType != TypeBase && reportType != TypeAll {
		return nil, &InvalidArgumentError{Message: "Invalid type value(base/all): " + query.reportType}
	}

	params := FilterEmpty(map[string]string{
		"key":        s.apiKey,
		"city":       city,
		"output":     format,
		"extensions": reportType,
	})

	logger := s.logger.With().
		Str("city", city).
		Str("type", reportType).
		Str("format", format).
		Logger()

	logger.Debug().Msg("requesting weather info")

	body, err := s.Transport().Get(ctx, s.endpoint, params)
	if err != nil {
		httpErr := newHTTPError(err)
		logger.Warn().Err(err).Int("code", httpErr.Code).Msg("weather api request failed")
		return nil, httpErr
	}

	response := &WeatherResponse{
		Format: format,
		Raw:    string(body),
	}

	if format == FormatJSON {
		var data map[string]any
		if err := json.Unmarshal(body, &data); err != nil {
			logger.Warn().Err(err).Msg("weather api returned malformed JSON")
			return nil, &DecodeError{Err: err}
		}
		if data == nil {
			return nil, &DecodeError{Err: fmt.Errorf("expected a JSON object, got %q", truncate(response.Raw, 64))}
		}
		response.Data = data
	}

	return response, nil
}

func (s *weatherAPIService) GetLiveWeather(ctx context.Context, city string, opts ...QueryOption) (*WeatherResponse, error) {
	return s.GetWeather(ctx, city, append(append([]QueryOption{}, opts...), WithType(TypeBase))...)
}

func (s *weatherAPIService) GetForecastWeather(ctx context.Context, city string, opts ...QueryOption) (*WeatherResponse, error) {
	return s.GetWeather(ctx, city, append(append([]QueryOption{}, opts...), WithType(TypeAll))...)
}

// FilterEmpty converts params to url.Values, dropping empty values.
func FilterEmpty(params map[string]string) url.Values {
	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	return values
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
