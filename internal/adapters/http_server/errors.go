package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"hotel_proxy/internal/app"
	"hotel_proxy/internal/domain"
)

// Caller-facing messages. Clients match on these strings.
const (
	msgInvalidBody    = "Invalid JSON body"
	msgMissingFields  = "Missing required fields in request body."
	msgInvalidPaging  = "Invalid pagination parameters."
	msgFetchFailed    = "Failed to fetch data from external API."
	msgParseFailed    = "Failed to parse response from external API."
	msgExternalPrefix = "External API Error: "
)

// errorBody is the normalized error envelope of every proxy route.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeError answers 502 when the mirrored status cannot carry the envelope.
func writeError(w http.ResponseWriter, status int, msg, details string) {
	if !bodyAllowed(status) {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}

// bodyAllowed reports whether a response with status may have a body.
func bodyAllowed(status int) bool {
	return status >= 200 && status != http.StatusNoContent && status != http.StatusNotModified
}

// writeRelay sends the parsed supplier body back with the supplier's status.
func writeRelay(w http.ResponseWriter, rel app.Relay) {
	if !bodyAllowed(rel.Status) {
		w.WriteHeader(rel.Status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rel.Status)
	if _, err := w.Write(rel.Body); err != nil {
		log.Error().Err(err).Msg("write relay body failed")
	}
}

// writeProxyError maps a proxy service error onto the error envelope.
func writeProxyError(w http.ResponseWriter, err error) {
	var ue *domain.UpstreamError
	switch {
	case errors.As(err, &ue):
		writeError(w, ue.Status, msgExternalPrefix+ue.StatusText, ue.Body)
	case errors.Is(err, domain.ErrUpstreamParse):
		writeError(w, http.StatusInternalServerError, msgParseFailed, "")
	default:
		writeError(w, http.StatusInternalServerError, msgFetchFailed, err.Error())
	}
}
