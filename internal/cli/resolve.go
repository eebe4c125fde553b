package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/palmares/internal/award"
	"github.com/pfrederiksen/palmares/internal/logger"
	"github.com/pfrederiksen/palmares/internal/normalize"
	"github.com/pfrederiksen/palmares/internal/report"
	"github.com/pfrederiksen/palmares/internal/ruleset"
)

var (
	flagResolveRules   string
	flagResolveFormat  string
	flagResolveRefresh bool
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [URL...]",
		Short: "Resolve the award rule set into a prize list",
		Long: `Loads the standings of the configured tournaments (plus any URLs given
as arguments), applies the award blocks in order and prints the prize list.
Cached standings younger than cache_ttl are reused unless --refresh is set.`,
		RunE: runResolve,
	}

	cmd.Flags().StringVar(&flagResolveRules, "rules", "", "Rule set file (defaults to rules_file from the config)")
	cmd.Flags().StringVar(&flagResolveFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagResolveRefresh, "refresh", false, "Re-fetch standings even when the cache is fresh")

	return cmd
}

func rulesPath(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.RulesFile
}

func runResolve(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagResolveFormat)
	if err != nil {
		return err
	}

	urls := uniqueURLs(append(cfg.URLs(), args...))
	if len(urls) == 0 {
		return errors.New("no tournaments: pass standings URLs or list them in the config file")
	}

	rules, err := ruleset.NewFileStore(rulesPath(flagResolveRules))
	if err != nil {
		return err
	}
	rs, err := rules.Load()
	if err != nil {
		return err
	}
	blocks := rs.Awards()
	if len(blocks) == 0 {
		return fmt.Errorf("rule set %s has no award blocks", rules.Path())
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	tournaments, err := loadTournaments(cmd.Context(), store, urls, flagResolveRefresh)
	if err != nil {
		return err
	}

	policy := cfg.Policy()
	for k, v := range rs.Policy() {
		policy[k] = v
	}

	participants := normalize.Merge(tournaments...)
	metrics.SetGauge("participants", float64(len(participants)))
	metrics.SetGauge("blocks", float64(len(blocks)))

	stop := metrics.Time("resolve")
	assignments, err := award.ResolveParallel(cmd.Context(), participants, blocks, policy,
		award.WithDedupKey(award.DedupKey(cfg.DedupKey)))
	stop()
	if err != nil {
		return fmt.Errorf("resolving awards: %w", err)
	}

	awarded := 0
	for _, a := range assignments {
		if a.Winner != nil {
			awarded++
		}
	}
	metrics.AddCounter("slots", int64(len(assignments)))
	metrics.AddCounter("slots.awarded", int64(awarded))
	appLog.Info("Resolved awards", logger.Fields{
		"tournaments":  len(tournaments),
		"participants": len(participants),
		"blocks":       len(blocks),
		"slots":        len(assignments),
		"awarded":      awarded,
	})

	rep := report.Build(cfg.Report.Title, tournaments, assignments, now().UTC())
	if format == FormatJSON {
		return report.WriteJSON(cmd.OutOrStdout(), rep)
	}

	r := report.NewRenderer(report.Options{
		PageLines: cfg.Report.PageLines,
		Width:     cfg.Report.Width,
		Language:  cfg.Language(),
	})
	return r.WriteText(cmd.OutOrStdout(), rep)
}
