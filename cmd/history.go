package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/parmanandojha/aiagentsearch/internal/history"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := history.Open(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "open history store")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate history store")
		}

		entries, err := st.List(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No searches recorded yet.")
			return nil
		}

		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %-25s %3d businesses (%.1f%% poor websites)\n",
				e.Timestamp.Format("2006-01-02 15:04"),
				e.Industry, e.Location,
				e.Summary.TotalBusinesses, e.Summary.PoorWebsitesPct,
			)
		}

		if historyJSON {
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return eris.Wrap(err, "marshal history")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max entries to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "also print entries as JSON")
	rootCmd.AddCommand(historyCmd)
}
