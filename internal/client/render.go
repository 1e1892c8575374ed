package client

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fadilmartias/cv-feedback/internal/dto"
	"github.com/fadilmartias/cv-feedback/internal/i18n"
)

// Render writes the analysis as plain text with headings in lang.
func Render(w io.Writer, a *dto.AnalysisResult, lang i18n.Language) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\n\n", i18n.Tr(i18n.ResultsTitle, lang), i18n.Tr(i18n.ResultsSubtitle, lang))

	fmt.Fprintf(&b, "%s\n", i18n.Tr(i18n.Overall, lang))
	impression := strings.TrimSpace(a.OverallImpression)
	if impression == "" {
		impression = i18n.Tr(i18n.NoImpression, lang)
	}
	fmt.Fprintf(&b, "  %s\n\n", impression)

	fmt.Fprintf(&b, "%s: %s/100\n", i18n.Tr(i18n.AtsScore, lang), formatScore(a.AtsScore))
	if a.JobMatchScore != nil {
		fmt.Fprintf(&b, "%s: %s/100\n", i18n.Tr(i18n.JobMatchScore, lang), formatScore(*a.JobMatchScore))
	}
	b.WriteString("\n")

	writeList(&b, i18n.Tr(i18n.Strengths, lang), a.Strengths, i18n.Tr(i18n.NoStrengths, lang))
	writeList(&b, i18n.Tr(i18n.Improvements, lang), a.AreasForImprovement, i18n.Tr(i18n.NoImprovements, lang))
	writeList(&b, i18n.Tr(i18n.Recommendations, lang), a.AllRecommendations(), i18n.Tr(i18n.NoRecommendations, lang))

	keywords := make([]string, 0, len(a.KeywordSuggestions))
	for _, k := range a.KeywordSuggestions {
		switch {
		case k.Present == nil:
			keywords = append(keywords, k.Keyword)
		case *k.Present:
			keywords = append(keywords, fmt.Sprintf("%s [%s]", k.Keyword, i18n.Tr(i18n.KeywordPresent, lang)))
		default:
			keywords = append(keywords, fmt.Sprintf("%s [%s]", k.Keyword, i18n.Tr(i18n.KeywordMissing, lang)))
		}
	}
	writeList(&b, i18n.Tr(i18n.Keywords, lang), keywords, i18n.Tr(i18n.NoKeywords, lang))

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, heading string, items []string, empty string) {
	fmt.Fprintf(b, "%s\n", heading)
	if len(items) == 0 {
		fmt.Fprintf(b, "  %s\n\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
	b.WriteString("\n")
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
