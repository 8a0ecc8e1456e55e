package config

import (
	"fmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gzoran/amap-weather/internal/providers"
	"time"
)

type Config struct {
	ServiceName   string
	ServerAddress string

	QueryLogEnabled bool
	DBName          string
	DBPassword      string
	DBUser          string
	DBPort          string
	DBHost          string

	Env         string
	LogLevel    string
	HTTPTimeout int32

	AmapAPIKey    string
	AmapEndpoint  string
	AmapTimeout   int32
	AmapProxy     string
	AmapUserAgent string
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVICE_NAME", "amap-weather")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:3000")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("HTTP_TIMEOUT", 15)
	v.SetDefault("QUERY_LOG_ENABLED", false)
	v.SetDefault("AMAP_ENDPOINT", providers.DefaultEndpoint)
	v.SetDefault("AMAP_TIMEOUT", 10)

	v.AutomaticEnv()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn().Msg("No .env file found, using environment variables only")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("Config file loaded")
	}

	config := &Config{
		ServiceName:     v.GetString("SERVICE_NAME"),
		ServerAddress:   v.GetString("SERVER_ADDRESS"),
		QueryLogEnabled: v.GetBool("QUERY_LOG_ENABLED"),
		DBName:          v.GetString("DATABASE_NAME"),
		DBPassword:      v.GetString("DATABASE_PASSWORD"),
		DBUser:          v.GetString("DATABASE_USER"),
		DBPort:          v.GetString("DATABASE_PORT"),
		DBHost:          v.GetString("DATABASE_HOST"),
		Env:             v.GetString("ENV"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		HTTPTimeout:     v.GetInt32("HTTP_TIMEOUT"),
		AmapAPIKey:      v.GetString("AMAP_API_KEY"),
		AmapEndpoint:    v.GetString("AMAP_ENDPOINT"),
		AmapTimeout:     v.GetInt32("AMAP_TIMEOUT"),
		AmapProxy:       v.GetString("AMAP_PROXY"),
		AmapUserAgent:   v.GetString("AMAP_USER_AGENT"),
	}

	if config.AmapAPIKey == "" {
		log.Warn().Msg("AMAP_API_KEY is not set, requests will be sent without a key")
	}

	return config, nil
}

func (c *Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// AmapTimeoutDuration converts AMAP_TIMEOUT, given in whole seconds like HTTP_TIMEOUT.
func (c *Config) AmapTimeoutDuration() time.Duration {
	return time.Duration(c.AmapTimeout) * time.Second
}

func (c *Config) TransportOptions() providers.TransportOptions {
	return providers.TransportOptions{
		Timeout:   c.AmapTimeoutDuration(),
		Proxy:     c.AmapProxy,
		UserAgent: c.AmapUserAgent,
	}
}
