package shared

// Destination is a featured search target shown before the user searches.
type Destination struct {
	DisplayName string
	Lat, Lng    float64
}

// FeaturedDestinations are searched by coordinates; approximate city centres.
var FeaturedDestinations = []Destination{
	{DisplayName: "Cancun", Lat: 21.16, Lng: -86.85},
	{DisplayName: "Orlando", Lat: 28.54, Lng: -81.38},
	{DisplayName: "Las Vegas", Lat: 36.17, Lng: -115.14},
	{DisplayName: "Caribbean", Lat: 18.56, Lng: -68.37},
}
