package main

import (
	"context"
	"fmt"

	"github.com/fadilmartias/cv-feedback/internal/i18n"
	"github.com/spf13/cobra"
)

var languageCmd = &cobra.Command{
	Use:       "language [en|tr]",
	Short:     "Show or set the interface language",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(i18n.English), string(i18n.Turkish)},
	RunE:      runLanguage,
}

func init() {
	rootCmd.AddCommand(languageCmd)
}

func runLanguage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := openState(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), st.lang.Language())
		return nil
	}

	lang, err := i18n.ParseLanguage(args[0])
	if err != nil {
		return err
	}
	if err := st.lang.SetLanguage(ctx, lang); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), st.lang.T(i18n.LanguageChanged))
	return nil
}
