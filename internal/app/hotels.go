package app

import (
	"math"
	"slices"
	"strings"

	"hotel_proxy/internal/domain"
)

// ProcessHotels applies the result-page filters and sort to a fetched hotel
// list. The input slice is left untouched. Hotels without a rate sort as if
// priced at 0; ties keep their original order. Hotels without a usable
// rating never pass a star filter.
func ProcessHotels(hotels []domain.HotelSummary, nameQuery string, f domain.Filters, sortBy domain.SortKey) []domain.HotelSummary {
	q := strings.ToLower(strings.TrimSpace(nameQuery))
	out := make([]domain.HotelSummary, 0, len(hotels))
	for _, h := range hotels {
		if q != "" && !strings.Contains(strings.ToLower(h.HotelName), q) {
			continue
		}
		if len(f.StarRating) > 0 && !starMatch(h, f.StarRating) {
			continue
		}
		if !hasAllAmenities(h, f.Amenities) {
			continue
		}
		out = append(out, h)
	}

	switch sortBy {
	case domain.SortPriceAsc:
		slices.SortStableFunc(out, func(a, b domain.HotelSummary) int {
			return cmpFloat(a.PerNightRate(), b.PerNightRate())
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(out, func(a, b domain.HotelSummary) int {
			return cmpFloat(b.PerNightRate(), a.PerNightRate())
		})
	}
	return out
}

// starMatch drops unrated hotels whenever a star filter is active.
func starMatch(h domain.HotelSummary, stars []int) bool {
	r, ok := h.StarRating()
	return ok && slices.Contains(stars, int(math.Floor(r)))
}

func hasAllAmenities(h domain.HotelSummary, amenities []string) bool {
	for _, a := range amenities {
		if !h.HasFacility(a) {
			return false
		}
	}
	return true
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
