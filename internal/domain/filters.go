package domain

type SortKey string

const (
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

type Filters struct {
	StarRating []int    `json:"starRating"`
	Amenities  []string `json:"amenities"`
}
