// Package proxyclient calls the proxy routes from Go code. It never talks to
// the supplier directly and never holds the supplier API key.
package proxyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_proxy/internal/domain"
)

const (
	routeSuggest = "/api/ext/hotel/autosuggest"
	routeSearch  = "/api/ext/hotelSearch"
	routeRooms   = "/api/ext/hotel/roomsandrates"
	routeDetails = "/api/ext/hotel/details"

	headerSession = "x-session-id"

	minSuggestRunes = 2
)

var (
	ErrHotelIDRequired = errors.New("hotel id is required")
	ErrNoRates         = errors.New("hotel has no bookable rates")
)

// ProxyError is a non-2xx answer from a proxy route.
type ProxyError struct {
	Status  int
	Message string
	Details string
}

func (e *ProxyError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("proxy %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("proxy %d: %s (%s)", e.Status, e.Message, e.Details)
}

// Session identifies one application session. Create it once and share it
// between every client built during that session.
type Session struct {
	ID string
}

func NewSession() Session { return Session{ID: uuid.NewString()} }

type Client struct {
	base    string
	hc      *http.Client
	session Session
}

type Options struct {
	Timeout time.Duration
}

func New(base string, s Session, opt Options) (*Client, error) {
	if strings.TrimSpace(base) == "" {
		return nil, fmt.Errorf("proxy base URL is required")
	}
	if s.ID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 30 * time.Second
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: opt.Timeout},
		session: s,
	}, nil
}

func (c *Client) Session() Session { return c.session }

func (c *Client) SearchHotels(ctx context.Context, q domain.SearchQuery, page, limit int) (domain.Envelope[domain.SearchData], error) {
	var out domain.Envelope[domain.SearchData]
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	err := c.do(ctx, http.MethodPost, routeSearch, v, q, &out)
	return out, err
}

// GetLocationSuggestions never fails: short input and any error both yield
// an empty list.
func (c *Client) GetLocationSuggestions(ctx context.Context, text string) []domain.LocationSuggestion {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minSuggestRunes {
		return []domain.LocationSuggestion{}
	}
	var out domain.Envelope[domain.SuggestData]
	if err := c.do(ctx, http.MethodPost, routeSuggest, nil, domain.SuggestQuery{Text: text}, &out); err != nil {
		var pe *ProxyError
		if errors.As(err, &pe) && pe.Status == http.StatusBadRequest {
			log.Warn().Err(err).Str("text", text).Msg("autosuggest rejected")
		} else {
			log.Error().Err(err).Str("text", text).Msg("autosuggest failed")
		}
		return []domain.LocationSuggestion{}
	}
	if !out.Status || out.Data.LocationSuggestions == nil {
		return []domain.LocationSuggestion{}
	}
	return out.Data.LocationSuggestions
}

func (c *Client) GetHotelDetails(ctx context.Context, hotelID string) (domain.Envelope[domain.DetailsData], error) {
	var out domain.Envelope[domain.DetailsData]
	if strings.TrimSpace(hotelID) == "" {
		return out, ErrHotelIDRequired
	}
	err := c.do(ctx, http.MethodGet, routeDetails, url.Values{"hotelId": {hotelID}}, nil, &out)
	return out, err
}

func (c *Client) GetRoomsAndRates(ctx context.Context, q domain.RoomsQuery) (domain.Envelope[domain.RoomsData], error) {
	var out domain.Envelope[domain.RoomsData]
	err := c.do(ctx, http.MethodPost, routeRooms, nil, q, &out)
	return out, err
}

// CheapestOffer looks up the rooms of a hotel found by q and returns the
// lowest-priced rate across all of them. currency applies when q has none.
func (c *Client) CheapestOffer(ctx context.Context, hotelID string, q domain.SearchQuery, currency string) (domain.RateExtra, error) {
	rq := domain.NewRoomsQuery(hotelID, q)
	if rq.Currency == "" {
		rq.Currency = currency
	}
	res, err := c.GetRoomsAndRates(ctx, rq)
	if err != nil {
		return domain.RateExtra{}, err
	}
	var best domain.RateExtra
	found := false
	for _, r := range res.Data.Rooms {
		e, ok := r.Cheapest()
		if ok && (!found || e.Price.Total < best.Price.Total) {
			best, found = e, true
		}
	}
	if !found {
		return domain.RateExtra{}, ErrNoRates
	}
	return best, nil
}

func (c *Client) CreateBooking(ctx context.Context, b domain.BookingRequest) (domain.Envelope[domain.BookingData], error) {
	var out domain.Envelope[domain.BookingData]
	if strings.TrimSpace(b.HotelID) == "" {
		return out, ErrHotelIDRequired
	}
	p := "/api/ext/hotel/" + url.PathEscape(b.HotelID) + "/" + url.PathEscape(b.Token) + "/book"
	err := c.do(ctx, http.MethodPost, p, nil, b, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerSession, c.session.ID)

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read proxy body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		pe := &ProxyError{Status: resp.StatusCode}
		var eb struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if json.Unmarshal(text, &eb) == nil && eb.Error != "" {
			pe.Message, pe.Details = eb.Error, eb.Details
		} else {
			pe.Message = http.StatusText(resp.StatusCode)
			pe.Details = string(text)
		}
		return pe
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(text, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
