// Package analysis computes listening statistics from events joined with
// song metadata.
package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run computes all four results from the same events. The pipelines share
// nothing but their read-only input, so they run concurrently.
func Run(ctx context.Context, events []EnrichedEvent) (*Results, error) {
	var results Results
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		results.FavoriteGenres = FavoriteGenres(events)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		results.AverageListenTimes = AverageListenTimes(events)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		results.GenreLoyalty = TopGenreLoyalty(events)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		results.LateNightUsers = LateNightUsers(events)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &results, nil
}
