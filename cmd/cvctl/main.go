// Package main provides cvctl, the command line client for uploading a CV
// and reading its feedback.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fadilmartias/cv-feedback/internal/config"
	"github.com/fadilmartias/cv-feedback/internal/i18n"
	"github.com/fadilmartias/cv-feedback/internal/storage"
	"github.com/fadilmartias/cv-feedback/internal/storage/sqlite"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "cvctl",
	Short:         "Upload a CV and read its analysis",
	Long:          "cvctl submits a CV (PDF, DOCX or TXT, up to 5MB) for analysis through the feedback proxy, stores the result locally and renders it.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var storePath string

func init() {
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Path to the local state database (default $CV_STORE_PATH or the user config dir)")
}

// state is the client's persisted state for one invocation.
type state struct {
	kv      *sqlite.Store
	results *storage.Results
	lang    *i18n.Store
}

func openState(ctx context.Context) (*state, error) {
	path := storePath
	if path == "" {
		path = config.LoadClientConfig().StorePath
	}
	kv, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	lang, err := i18n.NewStore(ctx, kv)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return &state{kv: kv, results: storage.NewResults(kv), lang: lang}, nil
}

func (s *state) Close() error {
	return s.kv.Close()
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
