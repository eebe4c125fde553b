package award

import (
	"context"

	"github.com/pfrederiksen/palmares/internal/participant"
	"golang.org/x/sync/errgroup"
)

// ResolveParallel produces the same assignments as Resolve but evaluates
// each tournament scope in its own goroutine. Blocks of one scope are still
// resolved in order with a private exclusion set. The only error is the
// context's.
func ResolveParallel(ctx context.Context, participants []*participant.Participant, blocks []Block, policy Policy, opts ...Option) ([]Assignment, error) {
	o := newOptions(opts)

	scopes := make(map[string][]int)
	order := make([]string, 0)
	for i, b := range blocks {
		s := b.Scope()
		if _, ok := scopes[s]; !ok {
			order = append(order, s)
		}
		scopes[s] = append(scopes[s], i)
	}

	// Each goroutine writes only the indexes of its own scope.
	results := make([][]Assignment, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	for _, scope := range order {
		indexes := scopes[scope]
		exclusive := !policy.AllowMultiple(scope)
		g.Go(func() error {
			excl := make(exclusions)
			for _, i := range indexes {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = resolveBlock(i, blocks[i], participants, excl, exclusive, o)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Assignment, 0, len(blocks))
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// BlockAwards is the resolved slots of one block
type BlockAwards struct {
	Index int          `json:"index"`
	Title string       `json:"title"`
	Slots []Assignment `json:"slots"`
}

// TournamentAwards groups resolved blocks by tournament for rendering
type TournamentAwards struct {
	TournamentID string        `json:"tournament_id,omitempty"`
	Blocks       []BlockAwards `json:"blocks"`
}

// GroupByTournament groups assignments by tournament, keeping the order in
// which tournaments first appear and the block-then-slot order inside each
// group.
func GroupByTournament(assignments []Assignment) []TournamentAwards {
	var groups []TournamentAwards
	pos := make(map[string]int)

	for _, a := range assignments {
		gi, ok := pos[a.TournamentID]
		if !ok {
			gi = len(groups)
			pos[a.TournamentID] = gi
			groups = append(groups, TournamentAwards{TournamentID: a.TournamentID})
		}

		g := &groups[gi]
		if n := len(g.Blocks); n == 0 || g.Blocks[n-1].Index != a.BlockIndex {
			g.Blocks = append(g.Blocks, BlockAwards{Index: a.BlockIndex, Title: a.BlockTitle})
		}
		last := &g.Blocks[len(g.Blocks)-1]
		last.Slots = append(last.Slots, a)
	}
	return groups
}
