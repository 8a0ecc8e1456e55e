package handlers

type WeatherResponse struct {
	RequestID string         `json:"request_id"`
	City      string         `json:"city"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
}

type Error struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
	Title  string `json:"title"`
}

type ErrorResponse struct {
	Errors []Error `json:"errors"`
}
