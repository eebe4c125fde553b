// Package filter provides standings table filtering.
//
// A Filter narrows the standings shown by the "standings" command using the
// same criteria as the award blocks, combined with AND logic:
//   - Tournament (one stored tournament)
//   - Unrated markers (either, adult only, junior only)
//   - Female players only
//   - Age categories
//   - Rating range (inclusive; players without rating never match a bound)
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.FemaleOnly = true
//	f.Categories = []string{"pou", "pup"}
//
//	shown := f.Apply(participants)
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/palmares/internal/participant"
)

// Filter represents standings filtering criteria
type Filter struct {
	Tournament string `json:"tournament,omitempty"`

	// Unrated markers; several set flags must all hold
	UnratedAny    bool `json:"unrated_any,omitempty"`
	UnratedAdult  bool `json:"unrated_adult,omitempty"`
	UnratedJunior bool `json:"unrated_junior,omitempty"`

	FemaleOnly bool `json:"female_only,omitempty"`

	Categories []string `json:"categories,omitempty"`

	// Rating bounds, 0 = unbounded
	RatingMin int `json:"rating_min,omitempty"`
	RatingMax int `json:"rating_max,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
func NewFilter() *Filter {
	return &Filter{
		Categories: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.Tournament == "" &&
		!f.UnratedAny &&
		!f.UnratedAdult &&
		!f.UnratedJunior &&
		!f.FemaleOnly &&
		len(f.Categories) == 0 &&
		f.RatingMin == 0 &&
		f.RatingMax == 0
}

// Matches checks if a participant matches all active filter criteria.
func (f *Filter) Matches(p *participant.Participant) bool {
	if f.Tournament != "" && p.TournamentID != f.Tournament {
		return false
	}

	if f.UnratedAny && !p.IsUnrated() {
		return false
	}
	if f.UnratedAdult && !p.IsUnratedSenior {
		return false
	}
	if f.UnratedJunior && !p.IsUnratedJunior {
		return false
	}

	if f.FemaleOnly && p.Gender != participant.Female {
		return false
	}

	if len(f.Categories) > 0 {
		matched := false
		for _, c := range f.Categories {
			if strings.EqualFold(c, p.CategoryCode) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.RatingMin > 0 && (!p.Rating.Finite() || p.Rating.Value < float64(f.RatingMin)) {
		return false
	}
	if f.RatingMax > 0 && (!p.Rating.Finite() || p.Rating.Value > float64(f.RatingMax)) {
		return false
	}

	return true
}

// Apply returns the participants matching the filter, in input order. An
// empty filter returns the input unchanged.
func (f *Filter) Apply(participants []*participant.Participant) []*participant.Participant {
	if f.IsEmpty() {
		return participants
	}

	filtered := make([]*participant.Participant, 0)
	for _, p := range participants {
		if f.Matches(p) {
			filtered = append(filtered, p)
		}
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "Tournament: abc | Female | Categories: pou, pup | Rating: 1000-1500"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.Tournament != "" {
		parts = append(parts, fmt.Sprintf("Tournament: %s", f.Tournament))
	}
	if f.UnratedAny {
		parts = append(parts, "Unrated")
	}
	if f.UnratedAdult {
		parts = append(parts, "Unrated adults")
	}
	if f.UnratedJunior {
		parts = append(parts, "Unrated juniors")
	}
	if f.FemaleOnly {
		parts = append(parts, "Female")
	}
	if len(f.Categories) > 0 {
		parts = append(parts, fmt.Sprintf("Categories: %s", strings.Join(f.Categories, ", ")))
	}
	if f.RatingMin > 0 || f.RatingMax > 0 {
		parts = append(parts, "Rating: "+formatRange(f.RatingMin, f.RatingMax))
	}

	return strings.Join(parts, " | ")
}

func formatRange(lo, hi int) string {
	switch {
	case lo > 0 && hi > 0:
		return fmt.Sprintf("%d-%d", lo, hi)
	case lo > 0:
		return fmt.Sprintf("%d-", lo)
	default:
		return fmt.Sprintf("-%d", hi)
	}
}
