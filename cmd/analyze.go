package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sanket/config"
	"sanket/models"
	"sanket/services/gateway"
	"sanket/services/orchestrator"
	"sanket/services/render"
	"sanket/services/session"
	"sanket/utils"

	"github.com/spf13/cobra"
)

func analyzeCMD() *cobra.Command {
	var language, pdfPath string
	var analyze = &cobra.Command{
		Use:   "analyze [bill name]",
		Short: "Analyze a bill once and print the summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadConfig(cfgPath)
			cfg := config.AppConfig
			logger := utils.GetLogger()

			req := models.AnalyzeRequest{Language: language}
			if len(args) == 1 {
				req.BillName = args[0]
			}
			if pdfPath != "" {
				content, err := os.ReadFile(pdfPath)
				if err != nil {
					return fmt.Errorf("read %s: %w", pdfPath, err)
				}
				req.File = &models.BillFile{Name: filepath.Base(pdfPath), Content: content}
			}

			app := orchestrator.NewApp("cli", orchestrator.Deps{
				Gateway:        gateway.NewHTTPClient(cfg.BackendURL, cfg.BackendTimeout(), logger.Named("gateway"), nil),
				Identity:       session.NewFirebaseIdentity(cfg.FirebaseAPIKey, identityTimeout, logger.Named("identity")),
				MaritalDefault: cfg.ProfileMaritalDefault,
				Logger:         logger,
			})
			if err := app.Analyze(cmd.Context(), req); err != nil {
				return errors.New(app.Snapshot().AnalyzeError)
			}
			printAnalysis(cmd.OutOrStdout(), app.Analysis())
			return nil
		},
	}
	analyze.Flags().StringVarP(&language, "language", "l", models.LanguageEnglish, "summary language (English or Hinglish)")
	analyze.Flags().StringVarP(&pdfPath, "file", "f", "", "bill PDF to upload")
	return analyze
}

func printAnalysis(w io.Writer, res *models.AnalysisResult) {
	fmt.Fprintln(w, render.SummaryTitle(res.Language))
	fmt.Fprintln(w)
	fmt.Fprintln(w, render.PlainText(res.SummaryMarkup))
	if res.SourceURL != "" {
		fmt.Fprintf(w, "\nSource: %s\n", res.SourceURL)
	}

	fmt.Fprintln(w)
	if d := res.Sentiment.Distribution; d != nil {
		fmt.Fprintf(w, "Sentiment: positive %s%%, negative %s%%, neutral %s%%\n",
			render.FormatScore(d.Positive), render.FormatScore(d.Negative), render.FormatScore(d.Neutral))
	} else {
		fmt.Fprintf(w, "Sentiment: %s\n", res.Sentiment.Note)
	}

	if impacts := render.SignificantImpacts(res.ImpactScores); len(impacts) > 0 {
		fmt.Fprintln(w, "\nImpact:")
		for _, e := range impacts {
			fmt.Fprintf(w, "  %-20s %s  %s\n", e.Category, render.FormatScore(e.Score), e.Reason)
		}
	}

	if len(res.News) > 0 {
		fmt.Fprintln(w, "\nRelated news:")
		for _, n := range res.News {
			if n.Link != "" {
				fmt.Fprintf(w, "  - %s (%s)\n", n.Title, n.Link)
			} else {
				fmt.Fprintf(w, "  - %s\n", n.Title)
			}
		}
	}
}
