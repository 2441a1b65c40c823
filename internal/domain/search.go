package domain

import "time"

// DateLayout is the calendar-date format the supplier accepts for stay dates.
const DateLayout = "2006-01-02"

const (
	DefaultPage  = 1
	DefaultLimit = 50
	DefaultRooms = 1
)

type RoomOccupancy struct {
	NumOfRoom     int   `json:"numOfRoom" validate:"gte=0"`
	NumOfAdults   int   `json:"numOfAdults" validate:"gte=1"`
	NumOfChildren int   `json:"numOfChildren" validate:"gte=0"`
	ChildAges     []int `json:"childAges" validate:"dive,gte=0,lte=17"`
}

// SearchQuery is the hotel search body. Pagination travels separately in the
// query string and is merged into the upstream body by the proxy.
type SearchQuery struct {
	LocationID             string          `json:"locationId,omitempty"`
	Type                   string          `json:"type,omitempty"`
	Lat                    float64         `json:"lat"`
	Lng                    float64         `json:"lng"`
	CheckInDate            string          `json:"checkInDate" validate:"required,datetime=2006-01-02"`
	CheckOutDate           string          `json:"checkOutDate" validate:"required,datetime=2006-01-02"`
	Occupancies            []RoomOccupancy `json:"occupancies" validate:"required,min=1,dive"`
	Currency               string          `json:"currency,omitempty"`
	Nationality            string          `json:"nationality,omitempty"`
	DestinationCountryCode string          `json:"destinationCountryCode,omitempty"`
	CountryOfResidence     string          `json:"countryOfResidence,omitempty"`
	Radius                 *float64        `json:"radius,omitempty"`
	FilterBy               map[string]any  `json:"filterBy,omitempty"`
}

// RoomsQuery asks for the room/rate list of a single hotel. Lat and Lng are
// pointers so that a zero coordinate is told apart from a missing one.
type RoomsQuery struct {
	HotelID      string          `json:"hotelId" validate:"required"`
	CheckInDate  string          `json:"checkInDate" validate:"required,datetime=2006-01-02"`
	CheckOutDate string          `json:"checkOutDate" validate:"required,datetime=2006-01-02"`
	Occupancies  []RoomOccupancy `json:"occupancies" validate:"required,min=1,dive"`
	Lat          *float64        `json:"lat" validate:"required"`
	Lng          *float64        `json:"lng" validate:"required"`
	Currency     string          `json:"currency" validate:"required"`
}

// NewRoomsQuery carries the context of a finished search over to a room lookup.
func NewRoomsQuery(hotelID string, q SearchQuery) RoomsQuery {
	lat, lng := q.Lat, q.Lng
	occ := make([]RoomOccupancy, len(q.Occupancies))
	copy(occ, q.Occupancies)
	return RoomsQuery{
		HotelID:      hotelID,
		CheckInDate:  q.CheckInDate,
		CheckOutDate: q.CheckOutDate,
		Occupancies:  occ,
		Lat:          &lat,
		Lng:          &lng,
		Currency:     q.Currency,
	}
}

type SuggestQuery struct {
	Text string `json:"text" validate:"required"`
}

// Nights returns the number of nights between two stay dates, or 0 when either
// date does not parse or the range is empty.
func Nights(checkIn, checkOut string) int {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return 0
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return 0
	}
	n := int(out.Sub(in).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}
