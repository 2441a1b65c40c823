// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_proxy/internal/app"
	"hotel_proxy/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct{ P *app.ProxyService }

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/api/ext", func(r chi.Router) {
		r.Post("/hotel/autosuggest", h.autosuggest)
		r.Post("/hotel/roomsandrates", h.roomsAndRates)
		r.Get("/hotel/details", h.details)
		r.Post("/hotel/{hotelId}/{token}/book", h.book)
		r.Post("/hotelSearch", h.search)
	})
}

// readBody reads a JSON object body twice over: as a generic map that is
// forwarded untouched, and into typed for validation. ok is false when a
// response has already been written.
func readBody(w http.ResponseWriter, r *http.Request, route string, typed any) (map[string]any, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Warn().Err(err).Str("route", route).Msg("failed to read request body")
		writeError(w, http.StatusBadRequest, msgInvalidBody, "")
		return nil, false
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		log.Warn().Err(err).Str("route", route).Msg("failed to parse request body")
		writeError(w, http.StatusBadRequest, msgInvalidBody, "")
		return nil, false
	}
	if err := json.Unmarshal(raw, typed); err != nil {
		rejectFields(w, route, raw, err)
		return nil, false
	}
	if err := domain.Validate(typed); err != nil {
		rejectFields(w, route, raw, err)
		return nil, false
	}
	return body, true
}

func rejectFields(w http.ResponseWriter, route string, raw []byte, err error) {
	l := log.Warn().Err(err).Str("route", route)
	if json.Valid(raw) {
		l = l.RawJSON("body", raw)
	}
	l.Msg("missing or invalid fields")
	writeError(w, http.StatusBadRequest, msgMissingFields, err.Error())
}

func (h *Handlers) autosuggest(w http.ResponseWriter, r *http.Request) {
	var q domain.SuggestQuery
	if _, ok := readBody(w, r, "autosuggest", &q); !ok {
		return
	}
	rel, err := h.P.Suggest(r.Context(), q)
	if err != nil {
		writeProxyError(w, err)
		return
	}
	writeRelay(w, rel)
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	page, okPage := queryInt(r, "page", domain.DefaultPage)
	limit, okLimit := queryInt(r, "limit", domain.DefaultLimit)
	if !okPage || !okLimit {
		writeError(w, http.StatusBadRequest, msgInvalidPaging, "page and limit must be positive integers")
		return
	}
	var q domain.SearchQuery
	body, ok := readBody(w, r, "search", &q)
	if !ok {
		return
	}
	rel, err := h.P.Search(r.Context(), body, page, limit)
	if err != nil {
		writeProxyError(w, err)
		return
	}
	writeRelay(w, rel)
}

func (h *Handlers) roomsAndRates(w http.ResponseWriter, r *http.Request) {
	var q domain.RoomsQuery
	body, ok := readBody(w, r, "roomsandrates", &q)
	if !ok {
		return
	}
	rel, err := h.P.RoomsAndRates(r.Context(), body)
	if err != nil {
		writeProxyError(w, err)
		return
	}
	writeRelay(w, rel)
}

func (h *Handlers) details(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("hotelId")
	if id == "" {
		log.Warn().Str("route", "details").Str("query", r.URL.RawQuery).Msg("missing hotelId")
		writeError(w, http.StatusBadRequest, msgMissingFields, "hotelId: required")
		return
	}
	rel, err := h.P.HotelDetails(r.Context(), id)
	if err != nil {
		writeProxyError(w, err)
		return
	}
	writeRelay(w, rel)
}

func (h *Handlers) book(w http.ResponseWriter, r *http.Request) {
	hotelID, err1 := pathParam(r, "hotelId")
	token, err2 := pathParam(r, "token")
	if err := errors.Join(err1, err2); err != nil {
		rejectFields(w, "book", nil, err)
		return
	}
	b := domain.BookingRequest{HotelID: hotelID, Token: token}
	body, ok := readBody(w, r, "book", &b)
	if !ok {
		return
	}
	rel, err := h.P.Book(r.Context(), b.HotelID, b.Token, body)
	if err != nil {
		writeProxyError(w, err)
		return
	}
	writeRelay(w, rel)
}

// pathParam returns a decoded route parameter. chi matches on RawPath when
// the request carries one, leaving escapes such as %2F in the parameter.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

// queryInt reads a positive integer query parameter, def when absent.
func queryInt(r *http.Request, key string, def int) (int, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
