package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fadilmartias/cv-feedback/internal/client"
	"github.com/fadilmartias/cv-feedback/internal/config"
	"github.com/fadilmartias/cv-feedback/internal/i18n"
	"github.com/fadilmartias/cv-feedback/internal/service"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a CV for analysis",
	Long:  "Validate a CV, submit it for analysis and show the results. The analysis result replaces any previously stored one.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var (
	uploadLang        string
	uploadJobDesc     string
	uploadJobDescFile string
	uploadDirect      bool
	uploadURL         string
)

func init() {
	uploadCmd.Flags().StringVar(&uploadLang, "lang", "en", "Analysis language (en or tr)")
	uploadCmd.Flags().StringVar(&uploadJobDesc, "job-description", "", "Job description to analyse the CV against")
	uploadCmd.Flags().StringVar(&uploadJobDescFile, "job-description-file", "", "Path to a file holding the job description")
	uploadCmd.Flags().BoolVar(&uploadDirect, "direct", false, "Send straight to the analysis backend instead of the proxy")
	uploadCmd.Flags().StringVar(&uploadURL, "url", "", "Override the upload endpoint")

	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	analysisLang, err := i18n.ParseLanguage(uploadLang)
	if err != nil {
		return err
	}
	if uploadJobDesc != "" && uploadJobDescFile != "" {
		return fmt.Errorf("cannot use --job-description with --job-description-file")
	}
	jobDescription := uploadJobDesc
	if uploadJobDescFile != "" {
		content, err := os.ReadFile(uploadJobDescFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jobDescription = string(content)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := openState(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	analyzer := newAnalyzer(uploadDirect, uploadURL, "")
	uploader := client.NewUploader(analyzer, st.results, st.lang, config.LoadClientConfig().Timeout)

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s\n%s\n\n", st.lang.T(i18n.UploadTitle), st.lang.T(i18n.UploadSubtitle))
	uploader.OnProgress = func(p int) {
		fmt.Fprintf(stderr, "\r%s %3d%%", st.lang.T(i18n.UploadProgress), p)
	}
	uploader.OnState = func(s client.State) {
		switch s {
		case client.StateUploading:
			fmt.Fprintf(stderr, "%s\n", st.lang.T(i18n.Analyzing))
		case client.StateRedirecting:
			fmt.Fprintf(stderr, "\n%s %s\n", st.lang.T(i18n.UploadSuccess), st.lang.T(i18n.Redirecting))
		case client.StateFailed:
			fmt.Fprintln(stderr)
		}
	}

	result, err := uploader.UploadFile(ctx, args[0], analysisLang, strings.TrimSpace(jobDescription))
	if err != nil {
		return err
	}
	return client.Render(cmd.OutOrStdout(), result.Analysis, st.lang.Language())
}

// newAnalyzer targets the proxy by default and the backend when direct is
// set. Non-empty urls override the configured endpoints.
func newAnalyzer(direct bool, analyzeURL, lastAnalysisURL string) *service.AnalyzerService {
	cfg := config.LoadClientConfig()
	target, last := cfg.ProxyURL, cfg.ProxyLastAnalysisURL
	if direct {
		target, last = cfg.BackendURL, cfg.BackendLastURL
	}
	if analyzeURL != "" {
		target = analyzeURL
	}
	if lastAnalysisURL != "" {
		last = lastAnalysisURL
	}
	return service.NewAnalyzerService(target, last, cfg.Timeout)
}
