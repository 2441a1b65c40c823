package domain

type Bed struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type ImageLink struct {
	URL  string `json:"url,omitempty"`
	Size string `json:"size,omitempty"`
}

type Image struct {
	Links []ImageLink `json:"links,omitempty"`
}

type RatePrice struct {
	Total        float64 `json:"total"`
	PerNightStay float64 `json:"perNightStay"`
	Taxes        float64 `json:"taxes,omitempty"`
	Currency     string  `json:"currency,omitempty"`
}

// RateExtra is one priced alternative of a room: a board basis and
// refundability combination with its own recommendation id.
type RateExtra struct {
	BoardBasis       string    `json:"boardBasis,omitempty"`
	Refundable       bool      `json:"refundable"`
	RecommendationID string    `json:"recommendationId"`
	Price            RatePrice `json:"price"`
}

type RoomRate struct {
	RateIDs       []string    `json:"rateIds,omitempty"`
	GroupID       string      `json:"groupId,omitempty"`
	RoomID        string      `json:"roomId,omitempty"`
	Name          string      `json:"name"`
	Beds          []Bed       `json:"beds,omitempty"`
	MaxOccupancy  int         `json:"maxOccupancy,omitempty"`
	Images        []Image     `json:"images,omitempty"`
	RoomAmenities []string    `json:"roomAmenities,omitempty"`
	Extras        []RateExtra `json:"extras,omitempty"`
}

// Cheapest returns the lowest-priced extra of the room.
func (r RoomRate) Cheapest() (RateExtra, bool) {
	if len(r.Extras) == 0 {
		return RateExtra{}, false
	}
	best := r.Extras[0]
	for _, e := range r.Extras[1:] {
		if e.Price.Total < best.Price.Total {
			best = e
		}
	}
	return best, true
}

type HotelDetails struct {
	Overview struct {
		Name   string  `json:"name,omitempty"`
		Images []Image `json:"images,omitempty"`
	} `json:"overview"`
	PropertyInformation struct {
		PropertyDescription string `json:"propertyDescription,omitempty"`
	} `json:"propertyInformation"`
	PopularAmenities []string `json:"popularAmenities,omitempty"`
}

// Envelope is the wrapper the supplier puts around every answer.
type Envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

type SearchData struct {
	Hotels     []HotelSummary `json:"hotels"`
	TotalCount int            `json:"totalCount"`
}

type SuggestData struct {
	LocationSuggestions []LocationSuggestion `json:"locationSuggestions"`
}

type RoomsData struct {
	HotelID string     `json:"hotelId,omitempty"`
	Rooms   []RoomRate `json:"rooms"`
}

type DetailsData struct {
	Hotel HotelDetails `json:"hotel"`
}

type BookingData struct {
	BookingID string `json:"bookingId,omitempty"`
	State     string `json:"status,omitempty"`
}
