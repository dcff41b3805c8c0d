package serve

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	domainerr "dualpace/internal/domain/errors"
)

type responder struct {
	logger zerolog.Logger
}

func (r responder) writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

type errorBody struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func (r responder) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerr.ErrNotFound):
		r.writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, domainerr.ErrInvalid):
		ve, _ := domainerr.AsValidation(err)
		r.writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Fields: ve.Fields()})
	default:
		r.logger.Error().Err(err).Msg("request failed")
		r.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeHTML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
