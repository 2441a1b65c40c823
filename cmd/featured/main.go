package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"hotel_proxy/internal/adapters/observability"
	"hotel_proxy/internal/adapters/proxyclient"
	"hotel_proxy/internal/domain"
	"hotel_proxy/internal/shared"
)

const offerCurrency = "USD"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	session := proxyclient.NewSession()
	log.Info().
		Str("proxy", cfg.ProxyBase).
		Int("workers", cfg.FeaturedWorkers).
		Str("session_id", session.ID).
		Msg("featured loader starting")

	client, err := proxyclient.New(cfg.ProxyBase, session, proxyclient.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize proxy client")
	}

	results := proxyclient.FeaturedDestinations(ctx, client, shared.FeaturedDestinations, cfg.FeaturedWorkers)

	found := 0
	for _, r := range results {
		l := log.With().Str("destination", r.Destination.DisplayName).Logger()
		switch {
		case r.Err != nil:
			l.Warn().Err(r.Err).Msg("no featured hotel")
		case r.Hotel == nil:
			l.Info().Msg("no hotels at destination")
		default:
			found++
			nights := domain.Nights(r.Query.CheckInDate, r.Query.CheckOutDate)
			ev := l.Info().
				Str("hotel_id", r.Hotel.ID).
				Str("hotel", r.Hotel.HotelName).
				Str("check_in", r.Query.CheckInDate).
				Int("nights", nights).
				Float64("per_night", r.Hotel.PerNightRate())
			if rating, ok := r.Hotel.StarRating(); ok {
				ev = ev.Float64("rating", rating)
			}
			// room lookup only enriches the log line
			offer, err := client.CheapestOffer(ctx, r.Hotel.ID, r.Query, offerCurrency)
			if err != nil {
				ev = ev.AnErr("offer_err", err)
			} else {
				ev = ev.Float64("offer_total", offer.Price.Total).
					Str("offer_currency", offer.Price.Currency).
					Str("board", offer.BoardBasis)
			}
			ev.Msg("featured hotel")
		}
	}
	log.Info().Int("found", found).Int("destinations", len(results)).Msg("featured loading completed")
	if found == 0 {
		stop()
		os.Exit(1)
	}
}
