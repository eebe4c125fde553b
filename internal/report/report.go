// Package report renders resolved prize assignments as a paginated text
// palmares or as JSON.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/pfrederiksen/palmares/internal/award"
	"github.com/pfrederiksen/palmares/internal/participant"
)

// Source is one standings page the report was built from
type Source struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Report is the renderable result of one resolve run
type Report struct {
	Title       string                   `json:"title"`
	GeneratedAt time.Time                `json:"generated_at"`
	Sources     []Source                 `json:"sources"`
	Tournaments []award.TournamentAwards `json:"tournaments"`
}

// Build groups assignments by tournament and records the sources in the
// order given.
func Build(title string, tournaments []*participant.Tournament, assignments []award.Assignment, now time.Time) *Report {
	sources := make([]Source, 0, len(tournaments))
	for _, t := range tournaments {
		sources = append(sources, Source{ID: t.ID, Title: t.Title, URL: t.URL})
	}

	return &Report{
		Title:       title,
		GeneratedAt: now,
		Sources:     sources,
		Tournaments: award.GroupByTournament(assignments),
	}
}

func (r *Report) source(id string) (Source, bool) {
	for _, s := range r.Sources {
		if s.ID == id {
			return s, true
		}
	}
	return Source{}, false
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
