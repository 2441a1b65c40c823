package proxyclient

import (
	"context"
	"errors"
	"sync"

	"hotel_proxy/internal/domain"
)

// ErrSuperseded means a newer search started before this one finished. Its
// result must not be shown.
var ErrSuperseded = errors.New("search superseded by a newer one")

type hotelSearcher interface {
	SearchHotels(ctx context.Context, q domain.SearchQuery, page, limit int) (domain.Envelope[domain.SearchData], error)
}

// Searcher keeps only the latest search alive. Starting a search cancels the
// one in flight.
type Searcher struct {
	c hotelSearcher

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewSearcher(c hotelSearcher) *Searcher { return &Searcher{c: c} }

func (s *Searcher) Search(ctx context.Context, q domain.SearchQuery, page, limit int) (domain.Envelope[domain.SearchData], error) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	mine := s.seq
	s.cancel = cancel
	s.mu.Unlock()

	res, err := s.c.SearchHotels(ctx, q, page, limit)

	s.mu.Lock()
	latest := mine == s.seq
	if latest {
		s.cancel = nil
	}
	s.mu.Unlock()
	cancel()

	if !latest {
		return domain.Envelope[domain.SearchData]{}, ErrSuperseded
	}
	return res, err
}
