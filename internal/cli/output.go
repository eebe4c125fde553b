package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pfrederiksen/palmares/internal/participant"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// StandingsResult is the JSON shape of the standings command
type StandingsResult struct {
	Filter       string                     `json:"filter"`
	Count        int                        `json:"count"`
	Participants []*participant.Participant `json:"participants"`
}

var standingsHeader = []string{"Pl", "Nom", "Elo", "Cat", "Club", "Pts", "Tournoi"}

// writeStandings prints participants as an aligned table
func writeStandings(w io.Writer, result *StandingsResult) error {
	if result.Count == 0 {
		_, err := fmt.Fprintln(w, "No players match.")
		return err
	}

	rows := [][]string{standingsHeader}
	for _, p := range result.Participants {
		rank := ""
		if p.Rank > 0 {
			rank = fmt.Sprintf("%d", p.Rank)
		}
		rows = append(rows, []string{
			rank,
			p.Name,
			p.RatingText,
			p.CategoryText,
			p.Club,
			p.Points.String(),
			p.TournamentID,
		})
	}

	widths := make([]int, len(standingsHeader))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			style := lipgloss.NewStyle().Width(widths[i])
			if i == 0 || i == 5 {
				style = style.Align(lipgloss.Right)
			}
			cells[i] = style.Render(cell)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nTotal: %d players (%s)\n", result.Count, result.Filter)
	return err
}
