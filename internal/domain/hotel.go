package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Flex holds a scalar the supplier sends either as a JSON string or a number.
type Flex string

func (f *Flex) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = Flex(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = Flex(n.String())
	return nil
}

// Float parses the value; ok is false for empty or non-numeric input.
func (f Flex) Float() (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(string(f), ",", "."))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

type Named struct {
	Name string `json:"name,omitempty"`
}

type Coded struct {
	Code string `json:"code,omitempty"`
}

type Address struct {
	Line1   string `json:"line1,omitempty"`
	City    *Named `json:"city,omitempty"`
	State   *Named `json:"state,omitempty"`
	Country *Coded `json:"country,omitempty"`
}

type Rate struct {
	Currency     string   `json:"currency,omitempty"`
	PerNightRate *float64 `json:"perNightRate,omitempty"`
	TotalRate    *float64 `json:"totalRate,omitempty"`
	BaseRate     *float64 `json:"baseRate,omitempty"`
}

type Facility struct {
	Name string `json:"name"`
}

type HotelSummary struct {
	ID               string     `json:"id"`
	HotelName        string     `json:"hotelName"`
	Image            string     `json:"image,omitempty"`
	Address          *Address   `json:"address,omitempty"`
	Rate             *Rate      `json:"rate,omitempty"`
	Rating           Flex       `json:"rating,omitempty"`
	FreeCancellation bool       `json:"freeCancellation"`
	Lat              Flex       `json:"lat,omitempty"`
	Lng              Flex       `json:"lng,omitempty"`
	Facilities       []Facility `json:"facilities,omitempty"`
}

// StarRating is the supplier rating as a number; ok is false when the rating
// is absent or malformed.
func (h HotelSummary) StarRating() (float64, bool) {
	return h.Rating.Float()
}

// PerNightRate is the nightly price, 0 when the hotel carries no rate.
func (h HotelSummary) PerNightRate() float64 {
	if h.Rate == nil || h.Rate.PerNightRate == nil {
		return 0
	}
	return *h.Rate.PerNightRate
}

func (h HotelSummary) Coordinates() (lat, lng float64, ok bool) {
	lat, okLat := h.Lat.Float()
	lng, okLng := h.Lng.Float()
	return lat, lng, okLat && okLng
}

// DistanceFrom returns the great-circle distance in km from the given point.
func (h HotelSummary) DistanceFrom(lat, lng float64) (float64, bool) {
	hlat, hlng, ok := h.Coordinates()
	if !ok {
		return 0, false
	}
	return DistanceKm(lat, lng, hlat, hlng), true
}

// HasFacility reports whether some facility name contains sub, ignoring case.
func (h HotelSummary) HasFacility(sub string) bool {
	needle := strings.ToLower(sub)
	for _, f := range h.Facilities {
		if strings.Contains(strings.ToLower(f.Name), needle) {
			return true
		}
	}
	return false
}

type Coordinates struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

type LocationSuggestion struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	FullName       string      `json:"fullName,omitempty"`
	Type           string      `json:"type"`
	Country        string      `json:"country,omitempty"`
	Code           string      `json:"code,omitempty"`
	Coordinates    Coordinates `json:"coordinates"`
	IsTermMatch    bool        `json:"isTermMatch,omitempty"`
	ReferenceScore float64     `json:"referenceScore,omitempty"`
}

// SearchQuery seeds a search with this suggestion's location. Stay dates and
// occupancies still have to be filled in by the caller.
func (s LocationSuggestion) SearchQuery() SearchQuery {
	return SearchQuery{
		LocationID: s.ID,
		Type:       s.Type,
		Lat:        s.Coordinates.Lat,
		Lng:        s.Coordinates.Long,
	}
}
