package domain

type GuestDetails struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
}

// BookingRequest is a stub: the supplier booking contract has never been
// exercised end to end. HotelID and Token travel in the route path.
type BookingRequest struct {
	HotelID          string          `json:"-" validate:"required"`
	Token            string          `json:"-" validate:"required"`
	GuestDetails     GuestDetails    `json:"guestDetails"`
	CheckInDate      string          `json:"checkInDate" validate:"required,datetime=2006-01-02"`
	CheckOutDate     string          `json:"checkOutDate" validate:"required,datetime=2006-01-02"`
	Occupancies      []RoomOccupancy `json:"occupancies" validate:"required,min=1,dive"`
	Currency         string          `json:"currency" validate:"required"`
	RateID           string          `json:"rateId" validate:"required"`
	RecommendationID string          `json:"recommendationId" validate:"required"`
}
