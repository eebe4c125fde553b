package award

import (
	"strconv"
	"strings"

	"github.com/pfrederiksen/palmares/internal/participant"
)

// SelectionMode picks how many winners a block produces
type SelectionMode string

const (
	ModeBest  SelectionMode = "best"
	ModeRange SelectionMode = "range"
)

// GenderFilter restricts a block to one gender
type GenderFilter string

const (
	GenderAny    GenderFilter = "any"
	GenderMale   GenderFilter = "m"
	GenderFemale GenderFilter = "f"
)

// UnratedFilter restricts a block to participants carrying a provisional
// rating marker.
type UnratedFilter string

const (
	UnratedNone       UnratedFilter = "any"
	UnratedEither     UnratedFilter = "anyUnrated"
	UnratedAdultOnly  UnratedFilter = "adult"
	UnratedJuniorOnly UnratedFilter = "child"
)

// AllTournaments is the scope of a block that is not tied to one tournament.
const AllTournaments = "all"

// DefaultBestLabel is the slot label of a Best block without prize labels.
const DefaultBestLabel = "Prix"

// Block is one award rule. Blocks reaching the engine are expected to be
// normalized already (see ruleset.Normalize); the engine still clamps
// positions so that it stays total.
type Block struct {
	Title           string             `json:"title"`
	Mode            SelectionMode      `json:"mode"`
	Start           int                `json:"start,omitempty"`
	End             int                `json:"end,omitempty"`
	PrizeLabels     []string           `json:"prize_labels,omitempty"`
	Categories      []string           `json:"categories,omitempty"`
	Gender          GenderFilter       `json:"gender"`
	Unrated         UnratedFilter      `json:"unrated"`
	RatingMin       participant.Metric `json:"rating_min"`
	RatingMax       participant.Metric `json:"rating_max"`
	TournamentScope string             `json:"tournament,omitempty"`
}

// Scope returns the exclusion scope key of the block. Unscoped blocks share
// the empty scope.
func (b Block) Scope() string {
	if b.TournamentScope == AllTournaments {
		return ""
	}
	return b.TournamentScope
}

// Positions returns the inclusive, 1-based positions the block awards.
func (b Block) Positions() (first, last int) {
	if b.Mode != ModeRange {
		return 1, 1
	}
	first, last = max(b.Start, 1), max(b.End, 1)
	if first > last {
		first, last = last, first
	}
	return first, last
}

// Label returns the prize label of the i-th slot (0-based).
func (b Block) Label(i int) string {
	if i < len(b.PrizeLabels) && b.PrizeLabels[i] != "" {
		return b.PrizeLabels[i]
	}
	if b.Mode != ModeRange {
		return DefaultBestLabel
	}
	first, _ := b.Positions()
	return "Place " + strconv.Itoa(first+i)
}

// Admits reports whether p satisfies every eligibility filter of the block.
// The exclusion filter is not part of eligibility; it is applied by the
// resolver.
func (b Block) Admits(p *participant.Participant) bool {
	return b.admitsScope(p) &&
		b.admitsCategory(p) &&
		b.admitsGender(p) &&
		b.admitsUnrated(p) &&
		b.admitsRating(p)
}

func (b Block) admitsScope(p *participant.Participant) bool {
	scope := b.Scope()
	return scope == "" || p.TournamentID == scope
}

func (b Block) admitsCategory(p *participant.Participant) bool {
	if len(b.Categories) == 0 {
		return true
	}
	code := strings.ToLower(p.CategoryCode)
	for _, c := range b.Categories {
		if strings.ToLower(c) == code {
			return true
		}
	}
	return false
}

func (b Block) admitsGender(p *participant.Participant) bool {
	switch b.Gender {
	case GenderMale:
		return p.Gender == participant.Male
	case GenderFemale:
		return p.Gender == participant.Female
	default:
		return true
	}
}

func (b Block) admitsUnrated(p *participant.Participant) bool {
	switch b.Unrated {
	case UnratedEither:
		return p.IsUnratedJunior || p.IsUnratedSenior
	case UnratedAdultOnly:
		return p.IsUnratedSenior
	case UnratedJuniorOnly:
		return p.IsUnratedJunior
	default:
		return true
	}
}

// A participant without a rating never passes a bounded block, even when the
// bound would admit any value.
func (b Block) admitsRating(p *participant.Participant) bool {
	hasMin, hasMax := b.RatingMin.Finite(), b.RatingMax.Finite()
	if !hasMin && !hasMax {
		return true
	}
	if !p.Rating.Finite() {
		return false
	}
	if hasMin && p.Rating.Value < b.RatingMin.Value {
		return false
	}
	if hasMax && p.Rating.Value > b.RatingMax.Value {
		return false
	}
	return true
}
