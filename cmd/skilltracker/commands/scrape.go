package commands

import (
	"github.com/spf13/cobra"

	"SkillTracker/internal/domain"
)

var scrapeLastDate *string

var scrapeCmd = &cobra.Command{
	Use:   "scrape <profile-url> [--lastdate dd-mm-yyyy]",
	Short: "Fetches a profile page and prints its progress summary as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			summary domain.Summary
			err     error
		)
		if *scrapeLastDate != "" {
			summary, err = application.Tracker().TrackWithBuddy(cmd.Context(), args[0], *scrapeLastDate)
		} else {
			summary, err = application.Tracker().Points(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), summary)
	},
}

func init() {
	scrapeLastDate = scrapeCmd.Flags().String("lastdate", "", "Target completion date (dd-mm-yyyy); enables the on-track projection.")
	rootCmd.AddCommand(scrapeCmd)
}
