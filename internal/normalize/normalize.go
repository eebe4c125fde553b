// Package normalize converts raw standings rows into participant records.
//
// Numeric cells use the French decimal comma and may be empty; empty or
// unparsable cells become absent metrics rather than zero. The category cell
// ("PouF", "SenM", "Vet") yields both the lowercase category code and the
// gender. Ratings published as "1299 E" and "1399 E" are the provisional
// ratings given to unrated juniors and adults respectively.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pfrederiksen/palmares/internal/participant"
	"github.com/pfrederiksen/palmares/internal/scraper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	UnratedJuniorMarker = "1299 E"
	UnratedSeniorMarker = "1399 E"
)

// Categories lists the known age category codes, youngest first.
var Categories = []Category{
	{Code: "ppo", Label: "Petit poussin"},
	{Code: "pou", Label: "Poussin"},
	{Code: "pup", Label: "Pupille"},
	{Code: "ben", Label: "Benjamin"},
	{Code: "min", Label: "Minime"},
	{Code: "cad", Label: "Cadet"},
	{Code: "jun", Label: "Junior"},
	{Code: "sen", Label: "Sénior"},
	{Code: "sep", Label: "Sénior+"},
	{Code: "vet", Label: "Vétéran"},
}

// Category is an age category
type Category struct {
	Code  string
	Label string
}

// IsCategory reports whether code is a known category code.
func IsCategory(code string) bool {
	code = lowerString(strings.TrimSpace(code))
	for _, c := range Categories {
		if c.Code == code {
			return true
		}
	}
	return false
}

var (
	numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	ratingPattern = regexp.MustCompile(`\d{3,4}`)
	femalePattern = regexp.MustCompile(`[A-Za-zÀ-ÿ]F$`)
	genderSuffix  = regexp.MustCompile(`[FfMm]$`)
)

// lowerString lower-cases s. Casers are stateful, so one is built per call.
func lowerString(s string) string {
	return cases.Lower(language.French).String(s)
}

// ParseNumber parses the leading number of a cell, accepting a decimal comma.
// Cells without a leading number are absent.
func ParseNumber(s string) participant.Metric {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	m := numberPattern.FindString(s)
	if m == "" {
		return participant.None()
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) {
		return participant.None()
	}
	return participant.Some(v)
}

// ParseRating extracts the first 3 or 4 digit run of a rating cell.
func ParseRating(s string) participant.Metric {
	m := ratingPattern.FindString(s)
	if m == "" {
		return participant.None()
	}
	v, _ := strconv.Atoi(m)
	return participant.Some(float64(v))
}

// ParseRank keeps the digits of a place cell ("12", "12.", "12e"); a cell
// without digits ranks 0.
func ParseRank(s string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// ParseCategory decodes a category cell into its code and gender. A trailing
// uppercase F after a letter marks a female category.
func ParseCategory(s string) (string, participant.Gender) {
	text := strings.TrimSpace(s)

	gender := participant.Male
	if femalePattern.MatchString(text) {
		gender = participant.Female
	}

	base := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	base = genderSuffix.ReplaceAllString(base, "")

	return lowerString(base), gender
}

// Participant converts a row. tournamentID may be empty; row is the 1-based
// position of the row in its page.
func Participant(r scraper.Row, tournamentID string, row int) *participant.Participant {
	code, gender := ParseCategory(r.Category)
	ratingText := strings.TrimSpace(strings.ReplaceAll(r.Rating, "\u00a0", " "))

	return &participant.Participant{
		ID:              participant.GenerateID(tournamentID, row),
		Name:            strings.TrimPrefix(strings.TrimSpace(r.Name), "*"),
		Rank:            ParseRank(r.Place),
		Points:          ParseNumber(r.Points),
		Buchholz:        ParseNumber(r.Buchholz),
		Performance:     ParseNumber(r.Performance),
		Rating:          ParseRating(ratingText),
		CategoryCode:    code,
		Gender:          gender,
		IsUnratedJunior: ratingText == UnratedJuniorMarker,
		IsUnratedSenior: ratingText == UnratedSeniorMarker,
		TournamentID:    tournamentID,
		RatingText:      ratingText,
		CategoryText:    strings.TrimSpace(r.Category),
		Federation:      r.Federation,
		League:          r.League,
		Club:            r.Club,
		Rounds:          r.Rounds,
	}
}

// Tournament converts a fetched page. The tournament ID is derived from the
// page URL.
func Tournament(page *scraper.Page, fetchedAt time.Time) *participant.Tournament {
	id := participant.GenerateTournamentID(page.URL)
	t := &participant.Tournament{
		ID:           id,
		Title:        page.Title,
		URL:          page.URL,
		FetchedAt:    fetchedAt,
		Participants: make([]*participant.Participant, 0, len(page.Rows)),
	}
	for i, r := range page.Rows {
		t.Participants = append(t.Participants, Participant(r, id, i+1))
	}
	return t
}

// Merge concatenates the participants of several tournaments, in tournament
// order.
func Merge(tournaments ...*participant.Tournament) []*participant.Participant {
	n := 0
	for _, t := range tournaments {
		n += len(t.Participants)
	}
	out := make([]*participant.Participant, 0, n)
	for _, t := range tournaments {
		out = append(out, t.Participants...)
	}
	return out
}
