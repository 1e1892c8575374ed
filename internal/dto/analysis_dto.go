package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AnalysisResult is the structured feedback returned by the analysis backend.
type AnalysisResult struct {
	OverallImpression          string              `json:"overall_impression"`
	AtsScore                   float64             `json:"ats_score"`
	JobMatchScore              *float64            `json:"job_match_score,omitempty"`
	Strengths                  []string            `json:"strengths"`
	AreasForImprovement        []string            `json:"areas_for_improvement"`
	Recommendations            []string            `json:"recommendations"`
	JobSpecificRecommendations []string            `json:"job_specific_recommendations,omitempty"`
	KeywordSuggestions         []KeywordSuggestion `json:"keyword_suggestions"`
}

// UnmarshalJSON accepts scores sent as numeric strings ("82") as well as
// numbers, since the backend relays model output without coercing it.
func (a *AnalysisResult) UnmarshalJSON(data []byte) error {
	type alias AnalysisResult
	aux := struct {
		*alias
		AtsScore      flexibleScore  `json:"ats_score"`
		JobMatchScore *flexibleScore `json:"job_match_score"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.AtsScore = float64(aux.AtsScore)
	a.JobMatchScore = nil
	if aux.JobMatchScore != nil {
		score := float64(*aux.JobMatchScore)
		a.JobMatchScore = &score
	}
	return nil
}

type flexibleScore float64

func (f *flexibleScore) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("score %q is not a number", s)
		}
		*f = flexibleScore(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("score must be a number: %w", err)
	}
	*f = flexibleScore(v)
	return nil
}

// AllRecommendations returns the general recommendations, or the job specific
// ones when the backend analysed against a job description and sent only those.
func (a *AnalysisResult) AllRecommendations() []string {
	if len(a.Recommendations) > 0 {
		return a.Recommendations
	}
	return a.JobSpecificRecommendations
}

// AnalysisEnvelope is the shape exchanged with the backend and the proxy, and
// the shape persisted on the client.
type AnalysisEnvelope struct {
	Analysis *AnalysisResult `json:"analysis"`
}

type ErrorDTO struct {
	Error string `json:"error"`
}

// KeywordSuggestion is either a bare keyword or a keyword flagged with whether
// the résumé already contains it. Both wire forms survive a round trip.
type KeywordSuggestion struct {
	Keyword string
	Present *bool
}

func Keyword(keyword string) KeywordSuggestion {
	return KeywordSuggestion{Keyword: keyword}
}

func KeywordMatch(keyword string, present bool) KeywordSuggestion {
	return KeywordSuggestion{Keyword: keyword, Present: &present}
}

type keywordObject struct {
	Keyword string `json:"keyword"`
	Present *bool  `json:"present,omitempty"`
}

func (k KeywordSuggestion) MarshalJSON() ([]byte, error) {
	if k.Present == nil {
		return json.Marshal(k.Keyword)
	}
	return json.Marshal(keywordObject{Keyword: k.Keyword, Present: k.Present})
}

func (k *KeywordSuggestion) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		k.Present = nil
		return json.Unmarshal(data, &k.Keyword)
	}

	var obj keywordObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("keyword suggestion must be a string or {keyword, present}: %w", err)
	}
	k.Keyword = obj.Keyword
	k.Present = obj.Present
	return nil
}

// UploadRequest is one résumé submission. It only lives for the duration of
// the request that carries it.
type UploadRequest struct {
	FileName       string `validate:"required"`
	ContentType    string
	Content        []byte
	Language       string `validate:"required,oneof=en tr"`
	JobDescription string `validate:"max=20000"`
}

func (r *UploadRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

func (r *UploadRequest) Size() int64 {
	return int64(len(r.Content))
}

// AnalysisRecordDTO is one row of the proxy's analysis history.
type AnalysisRecordDTO struct {
	ID            uuid.UUID `json:"id"`
	FileName      string    `json:"file_name"`
	Language      string    `json:"language"`
	HasJobDesc    bool      `json:"has_job_description"`
	AtsScore      float64   `json:"ats_score"`
	JobMatchScore *float64  `json:"job_match_score,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
