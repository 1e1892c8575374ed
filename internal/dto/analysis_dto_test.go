package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordSuggestion_MixedForms(t *testing.T) {
	raw := `["leadership",{"keyword":"kubernetes","present":false},{"keyword":"go","present":true}]`

	var keywords []KeywordSuggestion
	require.NoError(t, json.Unmarshal([]byte(raw), &keywords))
	require.Len(t, keywords, 3)

	assert.Equal(t, "leadership", keywords[0].Keyword)
	assert.Nil(t, keywords[0].Present)

	assert.Equal(t, "kubernetes", keywords[1].Keyword)
	require.NotNil(t, keywords[1].Present)
	assert.False(t, *keywords[1].Present)

	assert.Equal(t, "go", keywords[2].Keyword)
	require.NotNil(t, keywords[2].Present)
	assert.True(t, *keywords[2].Present)

	out, err := json.Marshal(keywords)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestKeywordSuggestion_RejectsOtherShapes(t *testing.T) {
	var k KeywordSuggestion
	err := json.Unmarshal([]byte(`42`), &k)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "string or {keyword, present}")
}

func TestAnalysisEnvelope_Decode(t *testing.T) {
	raw := `{"analysis":{"overall_impression":"Solid","ats_score":82,"job_match_score":71.5,
		"strengths":["x"],"areas_for_improvement":[],"recommendations":[],"keyword_suggestions":[]}}`

	var env AnalysisEnvelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	require.NotNil(t, env.Analysis)
	assert.Equal(t, "Solid", env.Analysis.OverallImpression)
	assert.Equal(t, float64(82), env.Analysis.AtsScore)
	require.NotNil(t, env.Analysis.JobMatchScore)
	assert.Equal(t, 71.5, *env.Analysis.JobMatchScore)
	assert.Equal(t, []string{"x"}, env.Analysis.Strengths)
	assert.Empty(t, env.Analysis.KeywordSuggestions)
}

func TestAnalysisResult_DecodesDriftedReply(t *testing.T) {
	raw := `{"ats_score":"82","job_match_score":" 64.5 ","keyword_suggestions":[{"keyword":"go","importance":"high"}]}`

	var a AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	assert.Equal(t, float64(82), a.AtsScore)
	require.NotNil(t, a.JobMatchScore)
	assert.Equal(t, 64.5, *a.JobMatchScore)
	require.Len(t, a.KeywordSuggestions, 1)
	assert.Equal(t, "go", a.KeywordSuggestions[0].Keyword)
	assert.Nil(t, a.KeywordSuggestions[0].Present)
}

func TestAnalysisResult_ScoreDecoding(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantScore float64
		wantMatch *float64
		wantErr   bool
	}{
		{name: "number", raw: `{"ats_score":71.5}`, wantScore: 71.5},
		{name: "null job match", raw: `{"ats_score":50,"job_match_score":null}`, wantScore: 50},
		{name: "missing scores", raw: `{}`},
		{name: "word score", raw: `{"ats_score":"high"}`, wantErr: true},
		{name: "boolean score", raw: `{"ats_score":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a AnalysisResult
			err := json.Unmarshal([]byte(tt.raw), &a)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, a.AtsScore)
			assert.Equal(t, tt.wantMatch, a.JobMatchScore)
		})
	}
}

func TestAnalysisResult_AllRecommendations(t *testing.T) {
	general := &AnalysisResult{Recommendations: []string{"a"}, JobSpecificRecommendations: []string{"b"}}
	assert.Equal(t, []string{"a"}, general.AllRecommendations())

	jobOnly := &AnalysisResult{JobSpecificRecommendations: []string{"b"}}
	assert.Equal(t, []string{"b"}, jobOnly.AllRecommendations())

	assert.Empty(t, (&AnalysisResult{}).AllRecommendations())
}

func TestUploadRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request UploadRequest
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid english request",
			request: UploadRequest{FileName: "resume.pdf", Content: []byte("%PDF"), Language: "en"},
		},
		{
			name:    "valid turkish request with job description",
			request: UploadRequest{FileName: "cv.docx", Language: "tr", JobDescription: "Backend engineer"},
		},
		{
			name:    "missing file name",
			request: UploadRequest{Language: "en"},
			wantErr: true,
			errMsg:  "FileName",
		},
		{
			name:    "unsupported language",
			request: UploadRequest{FileName: "resume.txt", Language: "de"},
			wantErr: true,
			errMsg:  "oneof",
		},
		{
			name:    "job description too long",
			request: UploadRequest{FileName: "resume.txt", Language: "en", JobDescription: strings.Repeat("a", 20001)},
			wantErr: true,
			errMsg:  "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}
