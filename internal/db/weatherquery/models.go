package weatherquery

import (
	"time"
)

type WeatherQuery struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RequestID    string    `json:"request_id" gorm:"column:request_id;size:26"`
	City         string    `json:"city" gorm:"index:idx_city;index:idx_city_created_at"`
	Type         string    `json:"type" gorm:"column:type;size:8"`
	Format       string    `json:"format" gorm:"column:format;size:8"`
	Success      bool      `json:"success" gorm:"column:success"`
	ErrorMessage string    `json:"error_message,omitempty" gorm:"column:error_message"`
	StatusCode   int       `json:"status_code,omitempty" gorm:"column:status_code"`
	DurationMs   int64     `json:"duration_ms" gorm:"column:duration_ms"`
	CreatedAt    time.Time `json:"created_at" gorm:"index:idx_created_at;index:idx_city_created_at"`
}

func (WeatherQuery) TableName() string {
	return "weather_queries"
}
