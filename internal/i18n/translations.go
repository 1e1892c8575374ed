package i18n

// Key names one user-facing string.
type Key string

const (
	UploadTitle     Key = "uploadTitle"
	UploadSubtitle  Key = "uploadSubtitle"
	UploadProgress  Key = "uploadProgress"
	UploadSuccess   Key = "uploadSuccess"
	Redirecting     Key = "redirecting"
	Analyzing       Key = "analyzing"
	InvalidFileType Key = "invalidFileType"
	FileTooLarge    Key = "fileTooLarge"
	UploadError     Key = "uploadError"
	ConnectionError Key = "connectionError"
	Timeout         Key = "timeout"

	ResultsTitle    Key = "resultsTitle"
	ResultsSubtitle Key = "resultsSubtitle"
	NoResults       Key = "noResults"
	Loading         Key = "loading"
	DataError       Key = "dataError"
	RetryHint       Key = "retryHint"
	Overall         Key = "overall"
	AtsScore        Key = "atsScore"
	JobMatchScore   Key = "jobMatchScore"
	Strengths       Key = "strengths"
	Improvements    Key = "improvements"
	Recommendations Key = "recommendations"
	Keywords        Key = "keywords"
	KeywordPresent  Key = "keywordPresent"
	KeywordMissing  Key = "keywordMissing"
	TryAgain        Key = "tryAgain"

	NoImpression      Key = "noImpression"
	NoStrengths       Key = "noStrengths"
	NoImprovements    Key = "noImprovements"
	NoRecommendations Key = "noRecommendations"
	NoKeywords        Key = "noKeywords"

	LanguageChanged Key = "languageChanged"
)

var translations = map[Key]map[Language]string{
	UploadTitle: {
		English: "Upload Your CV",
		Turkish: "CV'nizi Yükleyin",
	},
	UploadSubtitle: {
		English: "Get professional feedback and recommendations",
		Turkish: "Profesyonel geri bildirim ve öneriler alın",
	},
	UploadProgress: {
		English: "Uploading...",
		Turkish: "Yükleniyor...",
	},
	UploadSuccess: {
		English: "Upload successful!",
		Turkish: "Yükleme başarılı!",
	},
	Redirecting: {
		English: "Redirecting to results...",
		Turkish: "Sonuçlara yönlendiriliyor...",
	},
	Analyzing: {
		English: "Analyzing...",
		Turkish: "Analiz ediliyor...",
	},
	InvalidFileType: {
		English: "Invalid file type. Please upload a PDF, DOCX, or TXT file.",
		Turkish: "Geçersiz dosya türü. Lütfen PDF, DOCX veya TXT dosyası yükleyin.",
	},
	FileTooLarge: {
		English: "File is too large. Maximum size is 5MB.",
		Turkish: "Dosya çok büyük. Maksimum boyut 5MB.",
	},
	UploadError: {
		English: "Error uploading file. Please try again.",
		Turkish: "Dosya yüklenirken hata oluştu. Lütfen tekrar deneyin.",
	},
	ConnectionError: {
		English: "Connection error. Please check your internet connection and try again.",
		Turkish: "Bağlantı hatası. Lütfen internet bağlantınızı kontrol edin ve tekrar deneyin.",
	},
	Timeout: {
		English: "Request timed out. Please try again later.",
		Turkish: "İstek zaman aşımına uğradı. Lütfen daha sonra tekrar deneyin.",
	},

	ResultsTitle: {
		English: "CV Analysis Results",
		Turkish: "CV Analiz Sonuçları",
	},
	ResultsSubtitle: {
		English: "Based on AI analysis of your uploaded CV",
		Turkish: "Yüklenen CV'nizin yapay zeka analizi sonuçları",
	},
	NoResults: {
		English: "No analysis results found. Please upload a CV first.",
		Turkish: "Analiz sonuçları bulunamadı. Lütfen önce bir CV yükleyin.",
	},
	Loading: {
		English: "Loading analysis results...",
		Turkish: "Analiz sonuçları yükleniyor...",
	},
	DataError: {
		English: "There was a problem loading your analysis data. Please try uploading your CV again.",
		Turkish: "Analiz verilerinizi yüklerken bir sorun oluştu. Lütfen CV'nizi tekrar yüklemeyi deneyin.",
	},
	RetryHint: {
		English: "Run the command again to retry.",
		Turkish: "Tekrar denemek için komutu yeniden çalıştırın.",
	},
	Overall: {
		English: "Overall Impression",
		Turkish: "Genel İzlenim",
	},
	AtsScore: {
		English: "ATS Compatibility Score",
		Turkish: "ATS Uyumluluk Puanı",
	},
	JobMatchScore: {
		English: "Job Match Score",
		Turkish: "İş Uyum Puanı",
	},
	Strengths: {
		English: "Strengths",
		Turkish: "Güçlü Yönler",
	},
	Improvements: {
		English: "Areas for Improvement",
		Turkish: "İyileştirme Alanları",
	},
	Recommendations: {
		English: "Recommendations",
		Turkish: "Öneriler",
	},
	Keywords: {
		English: "Suggested Keywords",
		Turkish: "Önerilen Anahtar Kelimeler",
	},
	KeywordPresent: {
		English: "present",
		Turkish: "mevcut",
	},
	KeywordMissing: {
		English: "missing",
		Turkish: "eksik",
	},
	TryAgain: {
		English: "Upload Another CV",
		Turkish: "Başka Bir CV Yükle",
	},

	NoImpression: {
		English: "No detailed impression available",
		Turkish: "Detaylı izlenim mevcut değil",
	},
	NoStrengths: {
		English: "No specific strengths identified.",
		Turkish: "Belirli güçlü yönler tespit edilmedi.",
	},
	NoImprovements: {
		English: "No specific improvement areas identified.",
		Turkish: "Belirli iyileştirme alanları tespit edilmedi.",
	},
	NoRecommendations: {
		English: "No specific recommendations available.",
		Turkish: "Belirli öneriler mevcut değil.",
	},
	NoKeywords: {
		English: "No specific keywords suggested.",
		Turkish: "Belirli anahtar kelimeler önerilmedi.",
	},

	LanguageChanged: {
		English: "Interface language set to English.",
		Turkish: "Arayüz dili Türkçe olarak ayarlandı.",
	},
}
