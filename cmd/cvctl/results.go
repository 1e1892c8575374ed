package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fadilmartias/cv-feedback/internal/client"
	"github.com/fadilmartias/cv-feedback/internal/config"
	"github.com/fadilmartias/cv-feedback/internal/dto"
	"github.com/fadilmartias/cv-feedback/internal/i18n"
	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show the last analysis",
	Long:  "Show the stored analysis. When nothing usable is stored, the last analysis is fetched from the proxy (or the backend with --direct). Run again to retry.",
	Args:  cobra.NoArgs,
	RunE:  runResults,
}

var (
	resultsDirect  bool
	resultsDevMock bool
	resultsURL     string
	resultsJSON    bool
	resultsClear   bool
)

func init() {
	resultsCmd.Flags().BoolVar(&resultsDirect, "direct", false, "Ask the analysis backend instead of the proxy for the last analysis")
	resultsCmd.Flags().BoolVar(&resultsDevMock, "dev-mock", false, "Show placeholder feedback when nothing can be loaded (development only)")
	resultsCmd.Flags().StringVar(&resultsURL, "url", "", "Override the last-analysis endpoint")
	resultsCmd.Flags().BoolVar(&resultsJSON, "json", false, "Print the analysis as JSON instead of text")
	resultsCmd.Flags().BoolVar(&resultsClear, "clear", false, "Forget the stored analysis")

	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := openState(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if resultsClear {
		if err := st.results.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear stored analysis: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Stored analysis cleared")
		return nil
	}

	devMock := resultsDevMock
	if devMock && !config.LoadAppConfig().IsDevelopment() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: --dev-mock ignored outside development (APP_ENV=%s)\n", config.LoadAppConfig().Env)
		devMock = false
	}

	view := client.NewResultsView(st.results, newAnalyzer(resultsDirect, "", resultsURL), st.lang, devMock)
	view.OnState = func(s client.ViewState) {
		if s == client.ViewLoading {
			fmt.Fprintln(cmd.ErrOrStderr(), st.lang.T(i18n.Loading))
		}
	}

	loaded, err := view.Load(ctx)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), st.lang.T(i18n.RetryHint))
		return err
	}
	if loaded.Source == client.SourceMock {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: showing placeholder feedback")
	}
	if resultsJSON {
		jsonBytes, err := json.MarshalIndent(dto.AnalysisEnvelope{Analysis: loaded.Analysis}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		return err
	}
	if err := client.Render(cmd.OutOrStdout(), loaded.Analysis, st.lang.Language()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "\n%s: cvctl upload <file>\n", st.lang.T(i18n.TryAgain))
	return nil
}
