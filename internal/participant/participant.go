package participant

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// Gender is the participant's gender as derived from the category cell.
type Gender string

const (
	Male   Gender = "m"
	Female Gender = "f"
)

// Participant is one entry of a tournament standings table
type Participant struct {
	ID              string `json:"id"` // <tournament>#<row>, stable across runs
	Name            string `json:"name"`
	Rank            int    `json:"rank"`
	Points          Metric `json:"points"`
	Buchholz        Metric `json:"buchholz"`
	Performance     Metric `json:"performance"`
	Rating          Metric `json:"rating"`
	CategoryCode    string `json:"category_code"`
	Gender          Gender `json:"gender"`
	IsUnratedJunior bool   `json:"unrated_junior,omitempty"`
	IsUnratedSenior bool   `json:"unrated_senior,omitempty"`
	TournamentID    string `json:"tournament_id,omitempty"`

	// Display-only columns
	RatingText   string `json:"rating_text,omitempty"`
	CategoryText string `json:"category_text,omitempty"`
	Federation   string `json:"federation,omitempty"`
	League       string `json:"league,omitempty"`
	Club         string `json:"club,omitempty"`
	Rounds       string `json:"rounds,omitempty"`
}

// IsUnrated reports whether either provisional rating marker is set.
func (p *Participant) IsUnrated() bool {
	return p.IsUnratedJunior || p.IsUnratedSenior
}

// Tournament is a fetched standings page
type Tournament struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	URL          string         `json:"url"`
	FetchedAt    time.Time      `json:"fetched_at"`
	Participants []*Participant `json:"participants"`
}

// GenerateTournamentID creates a deterministic short ID for a tournament from
// its source URL.
func GenerateTournamentID(url string) string {
	h := sha1.New()
	h.Write([]byte(strings.TrimSpace(url)))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// GenerateID creates the stable participant ID for a standings row.
// row is 1-based.
func GenerateID(tournamentID string, row int) string {
	if tournamentID == "" {
		return fmt.Sprintf("#%d", row)
	}
	return fmt.Sprintf("%s#%d", tournamentID, row)
}
