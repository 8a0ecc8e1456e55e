package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"gzoran/amap-weather/internal/providers"
	"gzoran/amap-weather/internal/service"
)

func respondWithError(w http.ResponseWriter, code int, message string) {
	errorCode := "INTERNAL_ERROR"
	title := "Internal Server Error"

	switch code {
	case http.StatusBadRequest:
		errorCode = "BAD_REQUEST"
		title = "Bad Request"
	case http.StatusNotFound:
		errorCode = "NOT_FOUND"
		title = "Not Found"
	case http.StatusMethodNotAllowed:
		errorCode = "METHOD_NOT_ALLOWED"
		title = "Method Not Allowed"
	case http.StatusBadGateway:
		errorCode = "BAD_GATEWAY"
		title = "Bad Gateway"
	}

	respondWithJSON(w, code, ErrorResponse{
		Errors: []Error{
			{
				Code:   errorCode,
				Detail: message,
				Status: code,
				Title:  title,
			},
		},
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondWithXML(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, providers.ErrInvalidArgument), errors.Is(err, service.ErrEmptyCity):
		return http.StatusBadRequest
	case errors.Is(err, providers.ErrHTTP), errors.Is(err, providers.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorDetail keeps upstream failures generic; their text may carry request URLs.
func errorDetail(err error) string {
	var httpErr *providers.HTTPError
	switch {
	case errors.As(err, &httpErr):
		if httpErr.Code != 0 {
			return fmt.Sprintf("%s (upstream status %d)", providers.ErrHTTP, httpErr.Code)
		}
		return providers.ErrHTTP.Error()
	case errors.Is(err, providers.ErrMalformedResponse):
		return providers.ErrMalformedResponse.Error()
	default:
		return err.Error()
	}
}
