package service

import (
	"math/rand/v2"

	"github.com/fadilmartias/cv-feedback/internal/dto"
)

// RandomAtsScore picks a plausible score in [65, 94].
func RandomAtsScore() float64 {
	return float64(rand.IntN(30) + 65)
}

// MockAnalysis builds placeholder feedback in the requested language. It is
// only ever shown in development, never in place of a failed analysis.
func MockAnalysis(lang string, atsScore float64) *dto.AnalysisResult {
	if lang == "tr" {
		return &dto.AnalysisResult{
			OverallImpression: "CV'niz analiz edildi. Hem güçlü yönler hem de iyileştirme alanları bulduk.",
			AtsScore:          atsScore,
			Strengths: []string{
				"İş geçmişinin net sunumu",
				"Eylem fiillerinin iyi kullanımı",
				"Beceriler bölümü iyi düzenlenmiş",
			},
			AreasForImprovement: []string{
				"Daha fazla ölçülebilir başarı ekleyin",
				"Sektörünüz için anahtar kelime yoğunluğunu artırın",
				"Daha odaklı bir profesyonel özet düşünün",
			},
			Recommendations: []string{
				"İşinizden metrikler ve belirli sonuçlar dahil edin",
				"CV'nizi her iş başvurusuna daha spesifik olarak uyarlayın",
				"CV'niz boyunca ilgili sektör anahtar kelimelerini ekleyin",
			},
			KeywordSuggestions: keywords("liderlik", "proje yönetimi", "iletişim", "problem çözme"),
		}
	}

	return &dto.AnalysisResult{
		OverallImpression: "Your CV has been analyzed. We found both strengths and areas for improvement.",
		AtsScore:          atsScore,
		Strengths: []string{
			"Clear presentation of work history",
			"Good use of action verbs",
			"Skills section is well-organized",
		},
		AreasForImprovement: []string{
			"Add more quantifiable achievements",
			"Improve keyword density for your industry",
			"Consider a more focused professional summary",
		},
		Recommendations: []string{
			"Include metrics and specific outcomes from your work",
			"Tailor your CV more specifically to each job application",
			"Add relevant industry keywords throughout your CV",
		},
		KeywordSuggestions: keywords("leadership", "project management", "communication", "problem-solving"),
	}
}

func keywords(words ...string) []dto.KeywordSuggestion {
	out := make([]dto.KeywordSuggestion, 0, len(words))
	for _, w := range words {
		out = append(out, dto.Keyword(w))
	}
	return out
}
