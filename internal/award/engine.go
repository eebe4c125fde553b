package award

import (
	"sort"

	"github.com/pfrederiksen/palmares/internal/participant"
)

// Assignment is one resolved prize slot
type Assignment struct {
	BlockIndex   int                      `json:"block_index"`
	BlockTitle   string                   `json:"block_title"`
	SlotLabel    string                   `json:"slot_label"`
	Position     int                      `json:"position"` // absolute position within the block's ranked candidates
	Winner       *participant.Participant `json:"winner"`   // nil when the slot stays empty
	TournamentID string                   `json:"tournament_id,omitempty"`
}

// Policy maps a tournament ID to whether a participant may win several
// prizes in that tournament. Missing entries allow multiple prizes.
type Policy map[string]bool

// AllowMultiple reports the policy for a scope key.
func (p Policy) AllowMultiple(scope string) bool {
	allow, ok := p[scope]
	return !ok || allow
}

// DedupKey selects the participant identity used for exclusions
type DedupKey string

const (
	// DedupByName keys exclusions on the display name. Two participants
	// sharing a name exclude each other.
	DedupByName DedupKey = "name"
	// DedupByID keys exclusions on the synthetic participant ID, falling
	// back to the name when no ID was assigned.
	DedupByID DedupKey = "id"
)

// Option configures a resolution pass
type Option func(*options)

type options struct {
	key func(*participant.Participant) string
}

// WithDedupKey selects the identity used for exclusions.
func WithDedupKey(k DedupKey) Option {
	return func(o *options) {
		if k == DedupByID {
			o.key = idKey
		} else {
			o.key = nameKey
		}
	}
}

func nameKey(p *participant.Participant) string { return p.Name }

func idKey(p *participant.Participant) string {
	if p.ID != "" {
		return p.ID
	}
	return p.Name
}

func newOptions(opts []Option) options {
	o := options{key: nameKey}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// exclusions holds the winners of one scope. A fresh set is created per
// scope per resolution pass.
type exclusions map[string]struct{}

func (e exclusions) has(k string) bool {
	_, ok := e[k]
	return ok
}

// Resolve assigns winners to every slot of every block. Output is ordered by
// block, then by slot. Resolve never fails; blocks without candidates yield
// assignments with a nil Winner.
func Resolve(participants []*participant.Participant, blocks []Block, policy Policy, opts ...Option) []Assignment {
	o := newOptions(opts)

	byScope := make(map[string]exclusions)
	out := make([]Assignment, 0, len(blocks))
	for i, b := range blocks {
		scope := b.Scope()
		excl, ok := byScope[scope]
		if !ok {
			excl = make(exclusions)
			byScope[scope] = excl
		}
		out = append(out, resolveBlock(i, b, participants, excl, !policy.AllowMultiple(scope), o)...)
	}
	return out
}

// resolveBlock resolves a single block. When exclusive is set, winners are
// recorded in excl as soon as they are emitted.
func resolveBlock(index int, b Block, participants []*participant.Participant, excl exclusions, exclusive bool, o options) []Assignment {
	ranked := Rank(Candidates(b, participants, func(p *participant.Participant) bool {
		return exclusive && excl.has(o.key(p))
	}))

	first, last := b.Positions()
	out := make([]Assignment, 0, last-first+1)
	cursor := first - 1
	for pos := first; pos <= last; pos++ {
		// A winner of an earlier slot of this block can still sit further
		// down the list under the same key.
		for exclusive && cursor < len(ranked) && excl.has(o.key(ranked[cursor])) {
			cursor++
		}

		a := Assignment{
			BlockIndex:   index,
			BlockTitle:   b.Title,
			SlotLabel:    b.Label(pos - first),
			Position:     pos,
			TournamentID: b.Scope(),
		}
		if cursor < len(ranked) {
			a.Winner = ranked[cursor]
			if exclusive {
				excl[o.key(a.Winner)] = struct{}{}
			}
		}
		cursor++
		out = append(out, a)
	}
	return out
}

// Candidates returns the participants admitted by b, in input order. Those
// for which excluded returns true are dropped; excluded may be nil.
func Candidates(b Block, participants []*participant.Participant, excluded func(*participant.Participant) bool) []*participant.Participant {
	out := make([]*participant.Participant, 0, len(participants))
	for _, p := range participants {
		if p == nil || !b.Admits(p) {
			continue
		}
		if excluded != nil && excluded(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Rank sorts candidates in place by descending (points, Buchholz,
// performance, rating), absent values last, then by ascending rank. Equal
// keys keep their input order. The sorted slice is returned for convenience.
func Rank(candidates []*participant.Participant) []*participant.Participant {
	sort.SliceStable(candidates, func(i, j int) bool {
		return ranksBefore(candidates[i], candidates[j])
	})
	return candidates
}

func ranksBefore(a, b *participant.Participant) bool {
	ka, kb := tiebreaks(a), tiebreaks(b)
	for i := range ka {
		if ka[i] != kb[i] {
			return ka[i] > kb[i]
		}
	}
	return a.Rank < b.Rank
}

func tiebreaks(p *participant.Participant) [4]float64 {
	return [4]float64{
		p.Points.SortKey(),
		p.Buchholz.SortKey(),
		p.Performance.SortKey(),
		p.Rating.SortKey(),
	}
}
