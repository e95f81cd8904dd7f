package view

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// fetch is one gateway call in a refresh fan-out.
type fetch struct {
	name     string
	required bool
	run      func(context.Context) error
}

// required marks a call whose failure fails the whole cycle.
func required(name string, run func(context.Context) error) fetch {
	return fetch{name: name, required: true, run: run}
}

// optional marks a call whose failure is logged and otherwise ignored; the
// field it would have filled keeps its previous value.
func optional(name string, run func(context.Context) error) fetch {
	return fetch{name: name, run: run}
}

// gather runs every fetch concurrently and waits for all of them. It returns
// the first required failure; remaining calls see a cancelled context.
func gather(ctx context.Context, log *slog.Logger, fetches ...fetch) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range fetches {
		g.Go(func() error {
			err := f.run(gctx)
			if err == nil {
				return nil
			}
			if !f.required {
				log.Warn("optional fetch failed", "fetch", f.name, "error", err)
				return nil
			}
			return fmt.Errorf("%s: %w", f.name, err)
		})
	}
	return g.Wait()
}
