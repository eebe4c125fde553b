package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/palmares/internal/participant"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByRank   SortOrder = "rank"
	SortByName   SortOrder = "name"
	SortByPoints SortOrder = "points"
)

func parseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortByRank, SortByName, SortByPoints:
		return o, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'rank', 'name' or 'points')", s)
	}
}

// sortParticipants sorts a slice of participants in place based on the
// specified sort order. Ties keep input order.
func sortParticipants(ps []*participant.Participant, order SortOrder) {
	switch order {
	case SortByRank:
		sort.SliceStable(ps, func(i, j int) bool {
			return compareByRank(ps[i], ps[j])
		})
	case SortByName:
		sort.SliceStable(ps, func(i, j int) bool {
			ni, nj := strings.ToLower(ps[i].Name), strings.ToLower(ps[j].Name)
			if ni != nj {
				return ni < nj
			}
			return compareByRank(ps[i], ps[j])
		})
	case SortByPoints:
		sort.SliceStable(ps, func(i, j int) bool {
			pi, pj := ps[i].Points.SortKey(), ps[j].Points.SortKey()
			if pi != pj {
				return pi > pj
			}
			return compareByRank(ps[i], ps[j])
		})
	}
}

// compareByRank orders by tournament, then rank. Unranked rows (rank 0)
// go last within their tournament.
func compareByRank(i, j *participant.Participant) bool {
	if i.TournamentID != j.TournamentID {
		return i.TournamentID < j.TournamentID
	}
	if (i.Rank > 0) != (j.Rank > 0) {
		return i.Rank > 0
	}
	return i.Rank < j.Rank
}
