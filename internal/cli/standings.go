package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/palmares/internal/filter"
	"github.com/pfrederiksen/palmares/internal/logger"
	"github.com/pfrederiksen/palmares/internal/normalize"
	"github.com/pfrederiksen/palmares/internal/ruleset"
)

var (
	flagStandingsTournament string
	flagStandingsFemale     bool
	flagStandingsUnrated    string
	flagStandingsCategories string
	flagStandingsRating     string
	flagStandingsSort       string
	flagStandingsFormat     string
)

func newStandingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Show cached standings, optionally filtered",
		RunE:  runStandings,
	}

	cmd.Flags().StringVar(&flagStandingsTournament, "tournament", "", "Only this tournament (ID or standings URL)")
	cmd.Flags().BoolVar(&flagStandingsFemale, "female", false, "Only female players")
	cmd.Flags().StringVar(&flagStandingsUnrated, "unrated", "", "Unrated players: any, adult or junior")
	cmd.Flags().StringVar(&flagStandingsCategories, "categories", "", "Comma-separated categories (e.g., pou,pup)")
	cmd.Flags().StringVar(&flagStandingsRating, "rating", "", "Rating range (e.g., 1000-1500, 1800-, -1400)")
	cmd.Flags().StringVar(&flagStandingsSort, "sort", "rank", "Sort order: rank, name or points")
	cmd.Flags().StringVar(&flagStandingsFormat, "format", "text", "Output format: text or json")

	return cmd
}

// buildFilter turns the standings flags into a filter
func buildFilter() (*filter.Filter, error) {
	f := filter.NewFilter()
	f.Tournament = ruleset.TournamentKey(flagStandingsTournament)
	f.FemaleOnly = flagStandingsFemale

	switch strings.ToLower(strings.TrimSpace(flagStandingsUnrated)) {
	case "":
	case "any":
		f.UnratedAny = true
	case "adult":
		f.UnratedAdult = true
	case "junior", "child":
		f.UnratedJunior = true
	default:
		return nil, fmt.Errorf("invalid --unrated value: %s (must be 'any', 'adult' or 'junior')", flagStandingsUnrated)
	}

	if flagStandingsCategories != "" {
		cats, err := filter.ParseCategories(flagStandingsCategories)
		if err != nil {
			return nil, err
		}
		f.Categories = cats
	}

	if flagStandingsRating != "" {
		lo, hi, err := filter.ParseRatingRange(flagStandingsRating)
		if err != nil {
			return nil, err
		}
		f.RatingMin, f.RatingMax = lo, hi
	}

	return f, nil
}

func runStandings(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagStandingsFormat)
	if err != nil {
		return err
	}
	order, err := parseSortOrder(flagStandingsSort)
	if err != nil {
		return err
	}
	f, err := buildFilter()
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	tournaments, err := store.ListTournaments()
	if err != nil {
		return err
	}
	if len(tournaments) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No standings cached. Run 'palmares fetch URL' first.")
		return nil
	}

	shown := f.Apply(normalize.Merge(tournaments...))
	sortParticipants(shown, order)

	appLog.Debug("Standings filtered", logger.Fields{"filter": f.String(), "shown": len(shown)})

	result := &StandingsResult{
		Filter:       f.String(),
		Count:        len(shown),
		Participants: shown,
	}
	if format == FormatJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	return writeStandings(cmd.OutOrStdout(), result)
}
