package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hotel_proxy/internal/domain"
)

// Supplier paths, relative to the configured base URL.
const (
	PathAutosuggest   = "/hotel/autosuggest"
	PathSearch        = "/hotel/search"
	PathRoomsAndRates = "/hotel/roomsandrates"
	PathDetails       = "/hotel/details"
)

// Relay is a parsed supplier answer ready to be written back with its status.
type Relay struct {
	Status int
	Body   json.RawMessage
}

type ProxyService struct {
	supplier   domain.Supplier
	cache      domain.Cache
	journal    domain.FailureJournal
	suggestTTL time.Duration
	newTags    func() domain.Tags
}

// NewProxyService wires the relay. cache and journal may be nil.
func NewProxyService(s domain.Supplier, c domain.Cache, j domain.FailureJournal, suggestTTL time.Duration) *ProxyService {
	return &ProxyService{supplier: s, cache: c, journal: j, suggestTTL: suggestTTL, newTags: domain.NewTags}
}

// WithTagger replaces the tag generator. Used by tests that assert on headers.
func (s *ProxyService) WithTagger(f func() domain.Tags) *ProxyService {
	s.newTags = f
	return s
}

func (s *ProxyService) Suggest(ctx context.Context, q domain.SuggestQuery) (Relay, error) {
	key := suggestKey(q.Text)
	if s.cache != nil && s.suggestTTL > 0 {
		var raw json.RawMessage
		if ok, err := s.cache.Get(ctx, key, &raw); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("suggest cache read failed")
		} else if ok {
			return Relay{Status: http.StatusOK, Body: raw}, nil
		}
	}

	body, err := json.Marshal(map[string]string{"text": q.Text})
	if err != nil {
		return Relay{}, err
	}
	rel, err := s.forward(ctx, domain.UpstreamCall{
		Operation: "autosuggest",
		Method:    http.MethodPost,
		Path:      PathAutosuggest,
		Body:      body,
	})
	if err != nil {
		return Relay{}, err
	}
	if s.cache != nil && s.suggestTTL > 0 {
		if err := s.cache.Set(ctx, key, rel.Body, int(s.suggestTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("suggest cache write failed")
		}
	}
	return rel, nil
}

// Search forwards the caller's search body with page and limit merged in.
// Unknown body fields are passed through untouched.
func (s *ProxyService) Search(ctx context.Context, body map[string]any, page, limit int) (Relay, error) {
	if page < 1 {
		page = domain.DefaultPage
	}
	if limit < 1 {
		limit = domain.DefaultLimit
	}
	out := make(map[string]any, len(body)+2)
	for k, v := range body {
		out[k] = v
	}
	out["page"] = page
	out["limit"] = limit
	defaultRooms(out)

	b, err := json.Marshal(out)
	if err != nil {
		return Relay{}, err
	}
	return s.forward(ctx, domain.UpstreamCall{
		Operation: "search",
		Method:    http.MethodPost,
		Path:      PathSearch,
		Body:      b,
	})
}

func (s *ProxyService) RoomsAndRates(ctx context.Context, body map[string]any) (Relay, error) {
	out := make(map[string]any, len(body))
	for k, v := range body {
		out[k] = v
	}
	defaultRooms(out)
	b, err := json.Marshal(out)
	if err != nil {
		return Relay{}, err
	}
	return s.forward(ctx, domain.UpstreamCall{
		Operation: "roomsandrates",
		Method:    http.MethodPost,
		Path:      PathRoomsAndRates,
		Body:      b,
	})
}

func (s *ProxyService) HotelDetails(ctx context.Context, hotelID string) (Relay, error) {
	return s.forward(ctx, domain.UpstreamCall{
		Operation: "details",
		Method:    http.MethodGet,
		Path:      PathDetails,
		Query:     url.Values{"hotelId": []string{hotelID}},
	})
}

// Book relays the booking stub to the per-hotel, per-token supplier path.
func (s *ProxyService) Book(ctx context.Context, hotelID, token string, body map[string]any) (Relay, error) {
	out := make(map[string]any, len(body))
	for k, v := range body {
		out[k] = v
	}
	defaultRooms(out)
	b, err := json.Marshal(out)
	if err != nil {
		return Relay{}, err
	}
	return s.forward(ctx, domain.UpstreamCall{
		Operation: "book",
		Method:    http.MethodPost,
		Path:      BookPath(hotelID, token),
		Body:      b,
	})
}

func BookPath(hotelID, token string) string {
	return "/hotel/" + url.PathEscape(hotelID) + "/" + url.PathEscape(token) + "/book"
}

// forward tags the call, sends it once and classifies the outcome:
// transport failure, supplier error status, unparseable body, or success.
func (s *ProxyService) forward(ctx context.Context, call domain.UpstreamCall) (Relay, error) {
	call.Tags = s.newTags()
	l := log.With().
		Str("op", call.Operation).
		Str("session_id", call.Tags.SessionID).
		Str("correlation_id", call.Tags.CorrelationID).
		Logger()

	l.Info().Str("method", call.Method).Str("path", call.Path).Msg("proxying to supplier")

	reply, err := s.supplier.Do(ctx, call)
	if err != nil {
		l.Error().Err(err).Msg("supplier request failed")
		s.recordFailure(ctx, l, call, 0, err.Error())
		return Relay{}, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	l.Debug().Int("status", reply.Status).Str("body", string(reply.Body)).Msg("raw supplier response")

	if !reply.OK() {
		l.Error().Int("status", reply.Status).Str("body", string(reply.Body)).Msg("supplier returned error status")
		s.recordFailure(ctx, l, call, reply.Status, string(reply.Body))
		return Relay{}, &domain.UpstreamError{
			Status:     reply.Status,
			StatusText: reply.StatusText,
			Body:       string(reply.Body),
		}
	}

	if reply.Status == http.StatusNoContent {
		return Relay{Status: reply.Status}, nil
	}

	var parsed json.RawMessage
	if err := json.Unmarshal(reply.Body, &parsed); err != nil {
		l.Error().Err(err).Str("body", string(reply.Body)).Msg("failed to parse supplier response text")
		s.recordFailure(ctx, l, call, reply.Status, "parse: "+err.Error())
		return Relay{}, fmt.Errorf("%w: %w", domain.ErrUpstreamParse, err)
	}
	return Relay{Status: reply.Status, Body: parsed}, nil
}

func (s *ProxyService) recordFailure(ctx context.Context, l zerolog.Logger, call domain.UpstreamCall, status int, detail string) {
	if s.journal == nil {
		return
	}
	err := s.journal.LogFailure(ctx, domain.UpstreamFailure{
		Operation:     call.Operation,
		Status:        status,
		SessionID:     call.Tags.SessionID,
		CorrelationID: call.Tags.CorrelationID,
		Detail:        detail,
		At:            time.Now().UTC(),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		l.Warn().Err(err).Msg("failure journal write failed")
	}
}

// defaultRooms replaces the occupancies of body with copies whose missing or
// zero numOfRoom is set to 1. The caller's occupancy maps are not modified.
func defaultRooms(body map[string]any) {
	occ, ok := body["occupancies"].([]any)
	if !ok {
		return
	}
	out := make([]any, len(occ))
	for i, o := range occ {
		m, ok := o.(map[string]any)
		if !ok {
			out[i] = o
			continue
		}
		c := make(map[string]any, len(m)+1)
		for k, v := range m {
			c[k] = v
		}
		if n, _ := c["numOfRoom"].(float64); n < 1 {
			c["numOfRoom"] = domain.DefaultRooms
		}
		out[i] = c
	}
	body["occupancies"] = out
}

func suggestKey(text string) string {
	return "suggest:" + strings.ToLower(strings.TrimSpace(text))
}
