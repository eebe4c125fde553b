package ruleset

import (
	"slices"
	"strings"

	"github.com/pfrederiksen/palmares/internal/award"
	"github.com/pfrederiksen/palmares/internal/participant"
)

// DefaultTitle is used for blocks saved without a title.
const DefaultTitle = "Bloc"

// Draft is an award block as authored by the user
type Draft struct {
	Title      string   `yaml:"title" json:"title"`
	Mode       string   `yaml:"mode" json:"mode"`
	Start      int      `yaml:"start,omitempty" json:"start,omitempty"`
	End        int      `yaml:"end,omitempty" json:"end,omitempty"`
	Prizes     string   `yaml:"prizes,omitempty" json:"prizes,omitempty"` // labels separated by |
	Categories []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	Gender     string   `yaml:"gender,omitempty" json:"gender,omitempty"`
	Unrated    string   `yaml:"unrated,omitempty" json:"unrated,omitempty"`
	RatingMin  *int     `yaml:"rating_min,omitempty" json:"rating_min,omitempty"`
	RatingMax  *int     `yaml:"rating_max,omitempty" json:"rating_max,omitempty"`
	Tournament string   `yaml:"tournament,omitempty" json:"tournament,omitempty"`
}

// DefaultDraft returns the block added by "add" and seeded into an empty
// rule set.
func DefaultDraft() Draft {
	return Draft{
		Title:   "Bloc de prix",
		Mode:    string(award.ModeBest),
		Start:   1,
		End:     1,
		Gender:  string(award.GenderAny),
		Unrated: string(award.UnratedNone),
	}
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	c := d
	c.Categories = slices.Clone(d.Categories)
	if d.RatingMin != nil {
		v := *d.RatingMin
		c.RatingMin = &v
	}
	if d.RatingMax != nil {
		v := *d.RatingMax
		c.RatingMax = &v
	}
	return c
}

// RuleSet is the ordered list of award blocks of a prize-giving
type RuleSet struct {
	Blocks []Draft `yaml:"blocks" json:"blocks"`

	// AllowMultiple maps tournament IDs to whether a participant may win
	// more than one prize there. Missing tournaments allow it.
	AllowMultiple map[string]bool `yaml:"allow_multiple_winners,omitempty" json:"allow_multiple_winners,omitempty"`
}

// New returns a rule set holding one default block.
func New() *RuleSet {
	return &RuleSet{Blocks: []Draft{DefaultDraft()}}
}

// Add appends a draft and returns its index.
func (rs *RuleSet) Add(d Draft) int {
	rs.Blocks = append(rs.Blocks, d)
	return len(rs.Blocks) - 1
}

// Duplicate inserts a deep copy of block i right after it.
func (rs *RuleSet) Duplicate(i int) bool {
	if !rs.valid(i) {
		return false
	}
	rs.Blocks = slices.Insert(rs.Blocks, i+1, rs.Blocks[i].Clone())
	return true
}

// Delete removes block i.
func (rs *RuleSet) Delete(i int) bool {
	if !rs.valid(i) {
		return false
	}
	rs.Blocks = slices.Delete(rs.Blocks, i, i+1)
	return true
}

// MoveUp swaps block i with the previous one. The first block stays put.
func (rs *RuleSet) MoveUp(i int) bool {
	if !rs.valid(i) || i == 0 {
		return false
	}
	rs.Blocks[i-1], rs.Blocks[i] = rs.Blocks[i], rs.Blocks[i-1]
	return true
}

// MoveDown swaps block i with the next one. The last block stays put.
func (rs *RuleSet) MoveDown(i int) bool {
	if !rs.valid(i) || i == len(rs.Blocks)-1 {
		return false
	}
	rs.Blocks[i+1], rs.Blocks[i] = rs.Blocks[i], rs.Blocks[i+1]
	return true
}

func (rs *RuleSet) valid(i int) bool {
	return i >= 0 && i < len(rs.Blocks)
}

// SetAllowMultiple records the multiple-winners policy of a tournament.
func (rs *RuleSet) SetAllowMultiple(tournamentID string, allow bool) {
	if rs.AllowMultiple == nil {
		rs.AllowMultiple = make(map[string]bool)
	}
	rs.AllowMultiple[tournamentID] = allow
}

// Policy returns the engine policy of the rule set.
func (rs *RuleSet) Policy() award.Policy {
	p := make(award.Policy, len(rs.AllowMultiple))
	for k, v := range rs.AllowMultiple {
		p[TournamentKey(k)] = v
	}
	return p
}

// Awards normalizes every draft, in order.
func (rs *RuleSet) Awards() []award.Block {
	out := make([]award.Block, len(rs.Blocks))
	for i, d := range rs.Blocks {
		out[i] = Normalize(d)
	}
	return out
}

// Normalize converts a draft into an engine block. It never fails: unknown
// modes become Best, positions below 1 become 1, unknown gender and unrated
// values disable the filter, and rating bounds of 0 or less are unset.
func Normalize(d Draft) award.Block {
	b := award.Block{
		Title:           strings.TrimSpace(d.Title),
		Mode:            award.ModeBest,
		Start:           max(d.Start, 1),
		End:             max(d.End, 1),
		PrizeLabels:     SplitPrizes(d.Prizes),
		Categories:      normalizeCategories(d.Categories),
		Gender:          normalizeGender(d.Gender),
		Unrated:         normalizeUnrated(d.Unrated),
		RatingMin:       ratingBound(d.RatingMin),
		RatingMax:       ratingBound(d.RatingMax),
		TournamentScope: TournamentKey(d.Tournament),
	}
	if b.Title == "" {
		b.Title = DefaultTitle
	}
	if strings.EqualFold(strings.TrimSpace(d.Mode), string(award.ModeRange)) {
		b.Mode = award.ModeRange
	}
	return b
}

// TournamentKey resolves a tournament reference to its scope key. The
// reference may be a tournament ID or its standings URL; "all" and ""
// mean every tournament.
func TournamentKey(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "" || strings.EqualFold(ref, award.AllTournaments):
		return ""
	case strings.Contains(ref, "://"):
		return participant.GenerateTournamentID(ref)
	default:
		return ref
	}
}

// SplitPrizes splits a "1er | 2e | 3e" prize string into trimmed labels,
// dropping empty ones.
func SplitPrizes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinPrizes is the inverse of SplitPrizes.
func JoinPrizes(labels []string) string {
	return strings.Join(labels, " | ")
}

func normalizeCategories(in []string) []string {
	var out []string
	for _, c := range in {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func normalizeGender(s string) award.GenderFilter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male", "masculin":
		return award.GenderMale
	case "f", "female", "féminin", "feminin":
		return award.GenderFemale
	default:
		return award.GenderAny
	}
}

func normalizeUnrated(s string) award.UnratedFilter {
	switch strings.TrimSpace(s) {
	case string(award.UnratedEither):
		return award.UnratedEither
	case string(award.UnratedAdultOnly):
		return award.UnratedAdultOnly
	case string(award.UnratedJuniorOnly):
		return award.UnratedJuniorOnly
	default:
		return award.UnratedNone
	}
}

func ratingBound(v *int) participant.Metric {
	if v == nil || *v <= 0 {
		return participant.None()
	}
	return participant.Some(float64(*v))
}
