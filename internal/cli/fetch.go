package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [URL...]",
		Short: "Download and cache tournament standings",
		Long: `Downloads the standings pages given as arguments, or the tournaments
listed in the config file when none are given, and caches them in the data
directory. Prints the tournament ID of each page; use it to scope award
blocks to one tournament.`,
		RunE: runFetch,
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	urls := args
	if len(urls) == 0 {
		urls = cfg.URLs()
	}
	urls = uniqueURLs(urls)
	if len(urls) == 0 {
		return fmt.Errorf("no tournaments: pass standings URLs or list them in the config file")
	}

	store, err := openStorage()
	if err != nil {
		return err
	}

	tournaments, err := fetchAll(cmd.Context(), store, urls)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, t := range tournaments {
		fmt.Fprintf(w, "%s  %d players  %s\n", t.ID, len(t.Participants), t.Title)
	}
	return nil
}
