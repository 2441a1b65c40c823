package app_test

import (
	"reflect"
	"testing"

	"hotel_proxy/internal/app"
	"hotel_proxy/internal/domain"
)

func rate(v float64) *domain.Rate { return &domain.Rate{Currency: "USD", PerNightRate: &v} }

func ids(hs []domain.HotelSummary) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.ID
	}
	return out
}

func TestProcessHotels_StarRating(t *testing.T) {
	hotels := []domain.HotelSummary{
		{ID: "a", Rating: "2", Rate: rate(10)},
		{ID: "b", Rating: "3.5", Rate: rate(10)},
		{ID: "c", Rating: "4", Rate: rate(10)},
		{ID: "d", Rating: "5", Rate: rate(10)},
	}
	got := app.ProcessHotels(hotels, "", domain.Filters{StarRating: []int{4, 5}}, "")
	if !reflect.DeepEqual(ids(got), []string{"c", "d"}) {
		t.Fatalf("got %v", ids(got))
	}

	// 4.5 floors to 4
	got = app.ProcessHotels([]domain.HotelSummary{{ID: "x", Rating: "4.5"}}, "", domain.Filters{StarRating: []int{4}}, "")
	if len(got) != 1 {
		t.Fatalf("4.5 should match 4")
	}
}

func TestProcessHotels_StarFilterDropsUnrated(t *testing.T) {
	hotels := []domain.HotelSummary{
		{ID: "none"},
		{ID: "junk", Rating: "n/a"},
		{ID: "zero", Rating: "0"},
		{ID: "three", Rating: "3"},
	}
	got := app.ProcessHotels(hotels, "", domain.Filters{StarRating: []int{0, 3}}, "")
	if !reflect.DeepEqual(ids(got), []string{"zero", "three"}) {
		t.Fatalf("got %v", ids(got))
	}
	// no star filter keeps unrated hotels
	if got := app.ProcessHotels(hotels, "", domain.Filters{}, ""); len(got) != 4 {
		t.Fatalf("got %v", ids(got))
	}
}

func TestProcessHotels_SortMissingRateAsZero(t *testing.T) {
	hotels := []domain.HotelSummary{
		{ID: "fifty", Rate: rate(50)},
		{ID: "none"},
		{ID: "twenty", Rate: rate(20)},
	}
	asc := app.ProcessHotels(hotels, "", domain.Filters{}, domain.SortPriceAsc)
	if !reflect.DeepEqual(ids(asc), []string{"none", "twenty", "fifty"}) {
		t.Fatalf("asc %v", ids(asc))
	}
	desc := app.ProcessHotels(hotels, "", domain.Filters{}, domain.SortPriceDesc)
	if !reflect.DeepEqual(ids(desc), []string{"fifty", "twenty", "none"}) {
		t.Fatalf("desc %v", ids(desc))
	}
	if !reflect.DeepEqual(ids(hotels), []string{"fifty", "none", "twenty"}) {
		t.Fatalf("input reordered: %v", ids(hotels))
	}
}

func TestProcessHotels_NameAndAmenities(t *testing.T) {
	hotels := []domain.HotelSummary{
		{ID: "1", HotelName: "Grand Plaza", Facilities: []domain.Facility{{Name: "Free WiFi"}, {Name: "Outdoor Pool"}}},
		{ID: "2", HotelName: "Plaza Inn", Facilities: []domain.Facility{{Name: "Free WiFi"}}},
		{ID: "3", HotelName: "Seaside", Facilities: []domain.Facility{{Name: "Pool"}, {Name: "wifi"}}},
	}
	got := app.ProcessHotels(hotels, "plaza", domain.Filters{}, "")
	if !reflect.DeepEqual(ids(got), []string{"1", "2"}) {
		t.Fatalf("name filter %v", ids(got))
	}
	got = app.ProcessHotels(hotels, "", domain.Filters{Amenities: []string{"WIFI", "pool"}}, "")
	if !reflect.DeepEqual(ids(got), []string{"1", "3"}) {
		t.Fatalf("amenity filter %v", ids(got))
	}
}

func TestProcessHotels_EmptyFiltersKeepList(t *testing.T) {
	s := domain.LocationSuggestion{ID: "loc-1", Type: "CITY", Coordinates: domain.Coordinates{Lat: 36.17, Long: -115.14}}
	q := s.SearchQuery()
	if q.LocationID != "loc-1" || q.Lat != 36.17 || q.Lng != -115.14 {
		t.Fatalf("query from suggestion: %+v", q)
	}

	hotels := []domain.HotelSummary{{ID: "a", Rate: rate(30)}, {ID: "b"}, {ID: "c", Rating: "5"}}
	got := app.ProcessHotels(hotels, "", domain.Filters{StarRating: []int{}, Amenities: []string{}}, "")
	if !reflect.DeepEqual(got, hotels) {
		t.Fatalf("empty filters must keep the list unchanged: %v", ids(got))
	}
}
