package proxyclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_proxy/internal/adapters/observability"
	"hotel_proxy/internal/domain"
	"hotel_proxy/internal/shared"
)

const (
	featuredLeadDays    = 95
	featuredAdults      = 2
	featuredNationality = "US"
	featuredPageSize    = 10
)

// Featured is the outcome for one destination: either the first hotel found
// or the error that stopped it.
type Featured struct {
	Destination shared.Destination
	Query       domain.SearchQuery
	Hotel       *domain.HotelSummary
	Err         error
}

// FeaturedQuery builds a one-night, two-adult coordinate search 95 days out.
func FeaturedQuery(d shared.Destination, now time.Time) domain.SearchQuery {
	in := now.AddDate(0, 0, featuredLeadDays)
	return domain.SearchQuery{
		LocationID:   fmt.Sprintf("coords:%g,%g", d.Lat, d.Lng),
		Type:         "COORDINATES",
		Lat:          d.Lat,
		Lng:          d.Lng,
		CheckInDate:  in.Format(domain.DateLayout),
		CheckOutDate: in.AddDate(0, 0, 1).Format(domain.DateLayout),
		Occupancies:  []domain.RoomOccupancy{{NumOfRoom: domain.DefaultRooms, NumOfAdults: featuredAdults, ChildAges: []int{}}},
		Nationality:  featuredNationality,
	}
}

// FeaturedDestinations searches every destination concurrently, at most
// workers at a time. Results keep the order of dests; one failing
// destination does not affect the others.
func FeaturedDestinations(ctx context.Context, c hotelSearcher, dests []shared.Destination, workers int) []Featured {
	if workers <= 0 {
		workers = 1
	}
	now := time.Now()
	out := make([]Featured, len(dests))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, d := range dests {
		out[i] = Featured{Destination: d, Query: FeaturedQuery(d, now)}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			out[i].Err = err
			observability.ObserveFeatured("failed")
			continue
		}
		wg.Add(1)
		go func(f *Featured) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := c.SearchHotels(ctx, f.Query, domain.DefaultPage, featuredPageSize)
			switch {
			case err != nil:
				f.Err = err
				observability.ObserveFeatured("failed")
				log.Warn().Str("destination", f.Destination.DisplayName).Err(err).Msg("featured search failed")
			case len(res.Data.Hotels) == 0:
				observability.ObserveFeatured("empty")
				log.Info().Str("destination", f.Destination.DisplayName).Msg("featured search returned no hotels")
			default:
				h := res.Data.Hotels[0]
				f.Hotel = &h
				observability.ObserveFeatured("found")
			}
		}(&out[i])
	}

	wg.Wait()
	return out
}
