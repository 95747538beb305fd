package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parmanandojha/aiagentsearch/internal/model"
	"github.com/parmanandojha/aiagentsearch/internal/report"
	"github.com/parmanandojha/aiagentsearch/internal/stream"
)

var (
	runIndustry        string
	runLocation        string
	runMaxResults      int
	runWebsiteRequired bool
	runOutput          string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one discovery-and-audit search",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		industry := sanitizeInput(runIndustry, maxIndustryLen)
		location := sanitizeInput(runLocation, maxLocationLen)
		if err := validateSearchTerms(industry, location); err != nil {
			return err
		}

		env, err := initSearch(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		events := env.Dispatcher.Run(ctx, stream.Request{
			Industry:        industry,
			Location:        location,
			MaxResults:      clampMaxResults(runMaxResults),
			WebsiteRequired: runWebsiteRequired,
		})

		var businesses []model.ProcessedBusiness
		var summary *model.Summary
		finished := false
		for ev := range events {
			switch ev.Type {
			case model.EventStatus:
				zap.L().Info("search status", zap.String("message", ev.Status.Message))
			case model.EventBusiness:
				businesses = append(businesses, ev.Business.Business)
				fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s (score %.1f, %s)\n",
					ev.Business.Index, ev.Business.Total,
					ev.Business.Business.Name,
					ev.Business.Business.WebsiteScore,
					ev.Business.Business.Opportunity,
				)
			case model.EventSummary:
				summary = ev.Summary
			case model.EventError:
				return eris.New(ev.Error.Error)
			case model.EventComplete:
				finished = true
				fmt.Fprintln(cmd.OutOrStdout(), ev.Complete.Message)
			}
		}
		if !finished {
			return eris.New("search did not complete within the join timeout")
		}

		rep := report.Build(industry, location, businesses)
		if summary != nil {
			rep.Summary = *summary
		}

		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal report")
		}
		if runOutput != "" {
			if err := os.WriteFile(runOutput, data, 0o644); err != nil {
				return eris.Wrapf(err, "write report %s", runOutput)
			}
			zap.L().Info("report written", zap.String("path", runOutput))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runIndustry, "industry", "", "business type to search for (required)")
	runCmd.Flags().StringVar(&runLocation, "location", "", "area to search in (required)")
	runCmd.Flags().IntVar(&runMaxResults, "max-results", defaultMaxResults, "max businesses to return (1-100)")
	runCmd.Flags().BoolVar(&runWebsiteRequired, "website-required", false, "only include businesses that have a website")
	runCmd.Flags().StringVar(&runOutput, "output", "", "write the report JSON to this file instead of stdout")
	runCmd.MarkFlagRequired("industry") //nolint:errcheck
	runCmd.MarkFlagRequired("location") //nolint:errcheck
	rootCmd.AddCommand(runCmd)
}
