package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"SkillTracker/internal/domain"
	"SkillTracker/internal/usecase"
)

var (
	extractFile     *string
	extractURL      *string
	extractLastDate *string
)

var extractCmd = &cobra.Command{
	Use:   "extract --file <page.html|-> --url <profile-url> [--lastdate dd-mm-yyyy]",
	Short: "Extracts a saved profile page without touching the network.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := readPage(cmd, *extractFile)
		if err != nil {
			return err
		}

		profileURL, err := usecase.NormalizeURL(*extractURL)
		if err != nil {
			return err
		}

		var target *time.Time
		if *extractLastDate != "" {
			t, err := usecase.ParseTargetDate(*extractLastDate, cfg.Progress.Location())
			if err != nil {
				return err
			}
			target = &t
		}

		record, err := application.Extractor().Extract(page, profileURL)
		if err != nil {
			return err
		}
		for _, fb := range record.CoercionFallbacks() {
			logger.Warn("statistic kept as raw text", "label", fb.Label, "value", fb.Value)
		}

		assessment, err := application.Estimator().Assess(record, target)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), domain.Summary{ProfileRecord: record, ProgressAssessment: assessment})
	},
}

func readPage(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(raw), nil
}

func init() {
	extractFile = extractCmd.Flags().String("file", "-", "Path to the saved HTML page, or - for stdin.")
	extractURL = extractCmd.Flags().String("url", "", "The profile URL the page was saved from; used to derive the id.")
	extractLastDate = extractCmd.Flags().String("lastdate", "", "Target completion date (dd-mm-yyyy).")
	_ = extractCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(extractCmd)
}
