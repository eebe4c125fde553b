package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/palmares/internal/award"
	"github.com/pfrederiksen/palmares/internal/filter"
	"github.com/pfrederiksen/palmares/internal/logger"
	"github.com/pfrederiksen/palmares/internal/ruleset"
)

var (
	flagBlocksRules  string
	flagBlocksFormat string
	flagBlockDraft   ruleset.Draft
	flagBlockCats    string
	flagBlockMin     int
	flagBlockMax     int
)

func newBlocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Edit the ordered list of award blocks",
		Long: `Award blocks are applied in order: a player awarded by an earlier block
is no longer eligible in later blocks of the same tournament unless that
tournament allows multiple winners. Block numbers start at 1.`,
	}
	cmd.PersistentFlags().StringVar(&flagBlocksRules, "rules", "", "Rule set file (defaults to rules_file from the config)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List award blocks",
		Args:  cobra.NoArgs,
		RunE:  runBlocksList,
	}
	list.Flags().StringVar(&flagBlocksFormat, "format", "text", "Output format: text or json")

	add := &cobra.Command{
		Use:   "add",
		Short: "Append an award block",
		Args:  cobra.NoArgs,
		RunE:  runBlocksAdd,
	}
	def := ruleset.DefaultDraft()
	add.Flags().StringVar(&flagBlockDraft.Title, "title", def.Title, "Block title")
	add.Flags().StringVar(&flagBlockDraft.Mode, "mode", def.Mode, "Selection mode: best or range")
	add.Flags().IntVar(&flagBlockDraft.Start, "start", def.Start, "First awarded place (range mode)")
	add.Flags().IntVar(&flagBlockDraft.End, "end", def.End, "Last awarded place (range mode)")
	add.Flags().StringVar(&flagBlockDraft.Prizes, "prizes", "", "Prize labels separated by | (e.g., \"1er|2e|3e\")")
	add.Flags().StringVar(&flagBlockCats, "categories", "", "Comma-separated categories (e.g., pou,pup)")
	add.Flags().StringVar(&flagBlockDraft.Gender, "gender", def.Gender, "Gender: any, m or f")
	add.Flags().StringVar(&flagBlockDraft.Unrated, "unrated", def.Unrated, "Unrated: any, anyUnrated, adult or child")
	add.Flags().IntVar(&flagBlockMin, "rating-min", 0, "Minimum rating (0 = none)")
	add.Flags().IntVar(&flagBlockMax, "rating-max", 0, "Maximum rating (0 = none)")
	add.Flags().StringVar(&flagBlockDraft.Tournament, "tournament", "", "Tournament ID or standings URL (default: all)")

	multiple := &cobra.Command{
		Use:   "multiple TOURNAMENT on|off",
		Short: "Allow or forbid several prizes per player in a tournament",
		Long: `TOURNAMENT is a tournament ID, its standings URL, or "all" for blocks
that are not scoped to one tournament.`,
		Args: cobra.ExactArgs(2),
		RunE: runBlocksMultiple,
	}

	cmd.AddCommand(
		list,
		add,
		newBlockEditCmd("dup", "Duplicate a block right after itself", (*ruleset.RuleSet).Duplicate),
		newBlockEditCmd("rm", "Delete a block", (*ruleset.RuleSet).Delete),
		newBlockEditCmd("up", "Move a block one position up", (*ruleset.RuleSet).MoveUp),
		newBlockEditCmd("down", "Move a block one position down", (*ruleset.RuleSet).MoveDown),
		multiple,
	)
	return cmd
}

func openRules() (ruleset.Storage, *ruleset.RuleSet, error) {
	store, err := ruleset.NewFileStore(rulesPath(flagBlocksRules))
	if err != nil {
		return nil, nil, err
	}
	rs, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	return store, rs, nil
}

func saveRules(cmd *cobra.Command, store ruleset.Storage, rs *ruleset.RuleSet) error {
	if err := store.Save(rs); err != nil {
		return err
	}
	appLog.Debug("Rule set saved", logger.Fields{"path": rulesPath(flagBlocksRules), "blocks": len(rs.Blocks)})
	return writeBlocks(cmd.OutOrStdout(), rs)
}

func runBlocksList(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagBlocksFormat)
	if err != nil {
		return err
	}
	_, rs, err := openRules()
	if err != nil {
		return err
	}
	if format == FormatJSON {
		return writeJSON(cmd.OutOrStdout(), rs)
	}
	return writeBlocks(cmd.OutOrStdout(), rs)
}

func runBlocksAdd(cmd *cobra.Command, args []string) error {
	d := flagBlockDraft.Clone()
	if flagBlockCats != "" {
		cats, err := filter.ParseCategories(flagBlockCats)
		if err != nil {
			return err
		}
		d.Categories = cats
	}
	if flagBlockMin > 0 {
		v := flagBlockMin
		d.RatingMin = &v
	}
	if flagBlockMax > 0 {
		v := flagBlockMax
		d.RatingMax = &v
	}

	store, rs, err := openRules()
	if err != nil {
		return err
	}
	rs.Add(d)
	return saveRules(cmd, store, rs)
}

// newBlockEditCmd builds a command that applies edit to the block number
// given as its only argument.
func newBlockEditCmd(use, short string, edit func(*ruleset.RuleSet, int) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " N",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid block number: %s", args[0])
			}

			store, rs, err := openRules()
			if err != nil {
				return err
			}
			if !edit(rs, n-1) {
				return fmt.Errorf("cannot %s block %d (rule set has %d blocks)", use, n, len(rs.Blocks))
			}
			return saveRules(cmd, store, rs)
		},
	}
}

func runBlocksMultiple(cmd *cobra.Command, args []string) error {
	var allow bool
	switch strings.ToLower(args[1]) {
	case "on", "true", "yes":
		allow = true
	case "off", "false", "no":
		allow = false
	default:
		return fmt.Errorf("invalid value: %s (must be 'on' or 'off')", args[1])
	}

	store, rs, err := openRules()
	if err != nil {
		return err
	}

	key := ruleset.TournamentKey(args[0])
	if key == "" {
		key = award.AllTournaments
	}
	rs.SetAllowMultiple(key, allow)
	return saveRules(cmd, store, rs)
}

// writeBlocks prints one numbered line per block
func writeBlocks(w io.Writer, rs *ruleset.RuleSet) error {
	if len(rs.Blocks) == 0 {
		_, err := fmt.Fprintln(w, "No award blocks.")
		return err
	}
	for i, b := range rs.Awards() {
		if _, err := fmt.Fprintf(w, "%d. %s  [%s]\n", i+1, b.Title, describeBlock(b)); err != nil {
			return err
		}
	}
	return nil
}

func describeBlock(b award.Block) string {
	first, last := b.Positions()
	var parts []string

	if b.Mode == award.ModeRange {
		parts = append(parts, fmt.Sprintf("places %d-%d", first, last))
	} else {
		parts = append(parts, "best")
	}
	if len(b.PrizeLabels) > 0 {
		parts = append(parts, "prizes: "+ruleset.JoinPrizes(b.PrizeLabels))
	}
	if len(b.Categories) > 0 {
		parts = append(parts, "categories: "+strings.Join(b.Categories, ","))
	}
	if b.Gender != award.GenderAny {
		parts = append(parts, "gender: "+string(b.Gender))
	}
	if b.Unrated != award.UnratedNone {
		parts = append(parts, "unrated: "+string(b.Unrated))
	}
	if b.RatingMin.Finite() || b.RatingMax.Finite() {
		parts = append(parts, "rating: "+b.RatingMin.String()+"-"+b.RatingMax.String())
	}
	if b.TournamentScope != "" {
		parts = append(parts, "tournament: "+b.TournamentScope)
	}
	return strings.Join(parts, ", ")
}
