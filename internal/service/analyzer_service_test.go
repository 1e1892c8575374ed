package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fadilmartias/cv-feedback/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const analysisBody = `{"analysis":{"overall_impression":"Strong","ats_score":82,"strengths":["x"],"areas_for_improvement":[],"recommendations":[],"keyword_suggestions":["go",{"keyword":"sql","present":false}]}}`

type capturedUpload struct {
	fileName       string
	contentType    string
	content        string
	language       string
	jobDescription string
	hasJobDesc     bool
}

func newBackend(t *testing.T, status int, body string, captured *capturedUpload) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil && r.Method == http.MethodPost {
			if !assert.NoError(t, r.ParseMultipartForm(10<<20)) {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			file, header, err := r.FormFile("file")
			if !assert.NoError(t, err) {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			data, _ := io.ReadAll(file)
			captured.fileName = header.Filename
			captured.contentType = header.Header.Get("Content-Type")
			captured.content = string(data)
			captured.language = r.FormValue("language")
			_, captured.hasJobDesc = r.MultipartForm.Value["job_description"]
			captured.jobDescription = r.FormValue("job_description")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func uploadRequest() *dto.UploadRequest {
	return &dto.UploadRequest{
		FileName:    "resume.txt",
		ContentType: "text/plain",
		Content:     []byte("Jane Doe - Go developer"),
		Language:    "en",
	}
}

func TestAnalyze_Success(t *testing.T) {
	var got capturedUpload
	srv := newBackend(t, http.StatusOK, analysisBody, &got)
	svc := NewAnalyzerService(srv.URL+"/analyze", srv.URL+"/last_analysis", 5*time.Second)

	result, err := svc.Analyze(context.Background(), uploadRequest())
	require.NoError(t, err)

	assert.Equal(t, "resume.txt", got.fileName)
	assert.Equal(t, "text/plain", got.contentType)
	assert.Equal(t, "Jane Doe - Go developer", got.content)
	assert.Equal(t, "en", got.language)
	assert.False(t, got.hasJobDesc, "empty job description must not be sent")

	assert.Equal(t, analysisBody, string(result.Body))
	assert.JSONEq(t, `{"overall_impression":"Strong","ats_score":82,"strengths":["x"],"areas_for_improvement":[],"recommendations":[],"keyword_suggestions":["go",{"keyword":"sql","present":false}]}`, result.AnalysisRaw)
	assert.Equal(t, float64(82), result.Analysis.AtsScore)
	require.Len(t, result.Analysis.KeywordSuggestions, 2)
}

func TestAnalyze_ForwardsJobDescription(t *testing.T) {
	var got capturedUpload
	srv := newBackend(t, http.StatusOK, analysisBody, &got)
	svc := NewAnalyzerService(srv.URL+"/analyze", srv.URL+"/last_analysis", 5*time.Second)

	req := uploadRequest()
	req.Language = "tr"
	req.JobDescription = "Senior Go engineer"
	_, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "tr", got.language)
	assert.Equal(t, "Senior Go engineer", got.jobDescription)
}

func TestAnalyze_BackendErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "json error body", status: http.StatusUnprocessableEntity, body: `{"error":"Failed to extract text"}`, wantStatus: 422, wantBody: "Failed to extract text"},
		{name: "text error body", status: http.StatusInternalServerError, body: "Internal Server Error", wantStatus: 500, wantBody: "Internal Server Error"},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":"API rate limit exceeded. Please try again later."}`, wantStatus: 429, wantBody: "API rate limit exceeded. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newBackend(t, tt.status, tt.body, nil)
			svc := NewAnalyzerService(srv.URL, srv.URL, 5*time.Second)

			_, err := svc.Analyze(context.Background(), uploadRequest())
			var be *BackendError
			require.True(t, errors.As(err, &be), "expected *BackendError, got %v", err)
			assert.Equal(t, tt.wantStatus, be.StatusCode)
			assert.Equal(t, tt.wantBody, be.Body)
		})
	}
}

func TestAnalyze_ProxyFailureReasons(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		wantReason      string
		wantTimeout     bool
		wantUnavailable bool
	}{
		{name: "timeout reason", status: http.StatusServiceUnavailable, body: `{"success":false,"error":"timed out","reason":"backend_timeout"}`, wantReason: ReasonBackendTimeout, wantTimeout: true},
		{name: "unreachable reason", status: http.StatusServiceUnavailable, body: `{"success":false,"error":"unavailable","reason":"backend_unreachable"}`, wantReason: ReasonBackendUnreachable, wantUnavailable: true},
		{name: "bare 503", status: http.StatusServiceUnavailable, body: "Service Unavailable", wantUnavailable: true},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, body: "Gateway Timeout", wantTimeout: true},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newBackend(t, tt.status, tt.body, nil)
			svc := NewAnalyzerService(srv.URL, srv.URL, 5*time.Second)

			_, err := svc.Analyze(context.Background(), uploadRequest())
			var be *BackendError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tt.wantReason, be.Reason)
			assert.Equal(t, tt.wantTimeout, IsTimeout(err))
			assert.Equal(t, tt.wantUnavailable, IsUnavailable(err))
		})
	}

	assert.True(t, IsTimeout(ErrBackendTimeout))
	assert.True(t, IsUnavailable(ErrBackendUnreachable))
	assert.False(t, IsUnavailable(ErrBackendTimeout))
}

func TestAnalyze_MalformedReplies(t *testing.T) {
	bodies := map[string]string{
		"not json":          `<html>oops</html>`,
		"missing analysis":  `{"result":{}}`,
		"analysis is array": `{"analysis":[]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := newBackend(t, http.StatusOK, body, nil)
			svc := NewAnalyzerService(srv.URL, srv.URL, 5*time.Second)

			_, err := svc.Analyze(context.Background(), uploadRequest())
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestAnalyze_AcceptsDriftedReplies(t *testing.T) {
	tests := []struct {
		name        string
		analysis    string
		wantDecoded bool
	}{
		{name: "score as numeric string", analysis: `{"ats_score":"82","strengths":["x"]}`, wantDecoded: true},
		{name: "keyword without present", analysis: `{"ats_score":82,"keyword_suggestions":[{"keyword":"go","importance":"high"}]}`, wantDecoded: true},
		{name: "score as word", analysis: `{"ats_score":"high"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"analysis":` + tt.analysis + `}`
			srv := newBackend(t, http.StatusOK, body, nil)
			svc := NewAnalyzerService(srv.URL, srv.URL, 5*time.Second)

			result, err := svc.Analyze(context.Background(), uploadRequest())
			require.NoError(t, err)
			assert.Equal(t, body, string(result.Body))
			assert.Equal(t, tt.analysis, result.AnalysisRaw)
			if tt.wantDecoded {
				require.NotNil(t, result.Analysis)
				assert.Equal(t, float64(82), result.Analysis.AtsScore)
			} else {
				assert.Nil(t, result.Analysis)
			}
		})
	}
}

func TestParseAnalysisBody_Strict(t *testing.T) {
	result, err := ParseAnalysisBody([]byte(`{"analysis":{"ats_score":"82","keyword_suggestions":[{"keyword":"go"}]}}`))
	require.NoError(t, err)
	assert.Equal(t, float64(82), result.Analysis.AtsScore)

	_, err = ParseAnalysisBody([]byte(`{"analysis":{"ats_score":"high"}}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = ParseAnalysisBody([]byte(`{"analysis":{"ats_score":140}}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestErrorMessage_TruncatesOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("a", maxErrorBody-1) + "ğ" + "tail"
	msg := errorMessage([]byte(body))

	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, strings.Repeat("a", maxErrorBody-1), msg)

	assert.Equal(t, "short", errorMessage([]byte("  short  ")))
	assert.Equal(t, "boom", errorMessage([]byte(`{"error":"boom"}`)))
}

func TestAnalyze_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	svc := NewAnalyzerService(srv.URL, srv.URL, 100*time.Millisecond)

	start := time.Now()
	_, err := svc.Analyze(context.Background(), uploadRequest())
	assert.ErrorIs(t, err, ErrBackendTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAnalyze_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := NewAnalyzerService(url+"/analyze", url+"/last_analysis", time.Second)
	_, err := svc.Analyze(context.Background(), uploadRequest())
	assert.ErrorIs(t, err, ErrBackendUnreachable)

	_, err = svc.LastAnalysis(context.Background())
	assert.ErrorIs(t, err, ErrBackendUnreachable)
}

func TestLastAnalysis(t *testing.T) {
	srv := newBackend(t, http.StatusOK, analysisBody, nil)
	svc := NewAnalyzerService(srv.URL+"/analyze", srv.URL+"/last_analysis", time.Second)

	result, err := svc.LastAnalysis(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Strong", result.Analysis.OverallImpression)
}

func TestLastAnalysis_NotFound(t *testing.T) {
	srv := newBackend(t, http.StatusNotFound, `{"error":"no analysis yet"}`, nil)
	svc := NewAnalyzerService(srv.URL, srv.URL, time.Second)

	_, err := svc.LastAnalysis(context.Background())
	assert.True(t, IsNotFound(err))
}

func TestMockAnalysis(t *testing.T) {
	en := MockAnalysis("en", 80)
	assert.Equal(t, float64(80), en.AtsScore)
	assert.Len(t, en.Strengths, 3)
	assert.Equal(t, "leadership", en.KeywordSuggestions[0].Keyword)

	tr := MockAnalysis("tr", 70)
	assert.Equal(t, "liderlik", tr.KeywordSuggestions[0].Keyword)
	assert.Contains(t, tr.OverallImpression, "analiz edildi")

	for i := 0; i < 50; i++ {
		score := RandomAtsScore()
		assert.GreaterOrEqual(t, score, float64(65))
		assert.LessOrEqual(t, score, float64(94))
	}
}
