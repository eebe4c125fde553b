package cli

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/palmares/internal/logger"
	"github.com/pfrederiksen/palmares/internal/normalize"
	"github.com/pfrederiksen/palmares/internal/participant"
	"github.com/pfrederiksen/palmares/internal/scraper"
	"github.com/pfrederiksen/palmares/internal/storage"
)

// fetchConcurrency bounds parallel page downloads.
const fetchConcurrency = 4

func newScraper() *scraper.Scraper {
	return scraper.New().WithTimeout(cfg.Timeout).WithUserAgent(cfg.UserAgent)
}

// uniqueURLs drops URLs that map to an already listed tournament.
func uniqueURLs(urls []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		id := participant.GenerateTournamentID(u)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, u)
	}
	return out
}

// fetchAll downloads, normalizes and stores the standings at urls
// concurrently. The result keeps the order of urls.
func fetchAll(ctx context.Context, store *storage.Storage, urls []string) ([]*participant.Tournament, error) {
	sc := newScraper()
	out := make([]*participant.Tournament, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for i, u := range urls {
		g.Go(func() error {
			defer metrics.Time("fetch")()

			appLog.Debug("Fetching standings", logger.Fields{"url": u})
			page, err := sc.FetchStandings(gctx, u)
			if err != nil {
				metrics.IncrCounter("fetch.errors")
				return fmt.Errorf("fetching %s: %w", u, err)
			}

			t := normalize.Tournament(page, now().UTC())
			if err := store.SaveTournament(t); err != nil {
				return err
			}

			metrics.IncrCounter("fetch.pages")
			appLog.Info("Fetched standings", logger.Fields{
				"url":     u,
				"id":      t.ID,
				"title":   t.Title,
				"players": len(t.Participants),
			})
			out[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// loadTournaments returns the standings of urls, reusing cached copies that
// are still fresh unless refresh is set. Stale or missing ones are fetched.
func loadTournaments(ctx context.Context, store *storage.Storage, urls []string, refresh bool) ([]*participant.Tournament, error) {
	out := make([]*participant.Tournament, len(urls))
	var staleURLs []string
	var staleIdx []int

	for i, u := range urls {
		if !refresh {
			t, err := store.LoadTournament(participant.GenerateTournamentID(u))
			switch {
			case err == nil && storage.IsFresh(t, cfg.CacheTTL, now()):
				metrics.IncrCounter("cache.hits")
				appLog.Debug("Using cached standings", logger.Fields{"url": u, "fetched_at": t.FetchedAt})
				out[i] = t
				continue
			case err != nil && !errors.Is(err, storage.ErrNotFound):
				return nil, fmt.Errorf("loading cached standings: %w", err)
			}
		}
		staleURLs = append(staleURLs, u)
		staleIdx = append(staleIdx, i)
	}

	if len(staleURLs) == 0 {
		return out, nil
	}

	fetched, err := fetchAll(ctx, store, staleURLs)
	if err != nil {
		return nil, err
	}
	for j, t := range fetched {
		out[staleIdx[j]] = t
	}
	return out, nil
}
