package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fadilmartias/cv-feedback/internal/dto"
	"github.com/fadilmartias/cv-feedback/internal/schemas"
	"github.com/fadilmartias/cv-feedback/internal/util"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const maxErrorBody = 512

var (
	ErrBackendUnreachable = errors.New("analysis backend unreachable")
	ErrBackendTimeout     = errors.New("analysis backend timed out")
	ErrMalformedResponse  = errors.New("malformed analysis response")
)

// Reasons sent in the "reason" field of the proxy's error replies, so a
// client behind the proxy can tell why the analysis service failed.
const (
	ReasonBackendTimeout     = "backend_timeout"
	ReasonBackendUnreachable = "backend_unreachable"
)

// BackendError is a non-2xx answer from the analysis backend.
type BackendError struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
	Reason     string `json:"reason,omitempty"`
}

func (e *BackendError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("analysis backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("analysis backend returned %d: %s", e.StatusCode, e.Body)
}

// AnalyzeResult is a decoded backend reply. Body is the reply exactly as
// received and AnalysisRaw the exact bytes of its "analysis" object, so a
// caller can pass either on without re-encoding.
type AnalyzeResult struct {
	Body        []byte
	AnalysisRaw string
	Analysis    *dto.AnalysisResult
}

type AnalyzerServiceInterface interface {
	Analyze(ctx context.Context, req *dto.UploadRequest) (*AnalyzeResult, error)
	LastAnalysis(ctx context.Context) (*AnalyzeResult, error)
}

// AnalyzerService talks to anything that speaks the analyze contract: the
// external backend, or this repository's own proxy.
type AnalyzerService struct {
	client          *resty.Client
	analyzeURL      string
	lastAnalysisURL string
	timeout         time.Duration
}

func NewAnalyzerService(analyzeURL, lastAnalysisURL string, timeout time.Duration) *AnalyzerService {
	return &AnalyzerService{
		client:          resty.New().SetHeader("Accept", "application/json"),
		analyzeURL:      analyzeURL,
		lastAnalysisURL: lastAnalysisURL,
		timeout:         timeout,
	}
}

func (s *AnalyzerService) Analyze(ctx context.Context, req *dto.UploadRequest) (*AnalyzeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fields := map[string]string{"language": req.Language}
	if strings.TrimSpace(req.JobDescription) != "" {
		fields["job_description"] = req.JobDescription
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = util.ContentTypeFor(req.FileName)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	log.Printf("Forwarding %s (%d bytes, %s) to %s", req.FileName, req.Size(), req.Language, s.analyzeURL)
	resp, err := s.client.R().
		SetContext(ctx).
		SetMultipartField("file", req.FileName, contentType, bytes.NewReader(req.Content)).
		SetMultipartFormData(fields).
		Post(s.analyzeURL)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	return decodeReply(resp)
}

func (s *AnalyzerService) LastAnalysis(ctx context.Context) (*AnalyzeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.R().SetContext(ctx).Get(s.lastAnalysisURL)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	return decodeReply(resp)
}

func decodeReply(resp *resty.Response) (*AnalyzeResult, error) {
	body := resp.Body()
	if !resp.IsSuccess() {
		return nil, &BackendError{
			StatusCode: resp.StatusCode(),
			Body:       errorMessage(body),
			Reason:     gjson.GetBytes(body, "reason").String(),
		}
	}
	return ExtractAnalysis(body)
}

// ExtractAnalysis checks that body is JSON carrying an "analysis" object and
// decodes it on a best effort basis. A reply whose fields drift from the
// AnalysisResult schema is still accepted; Analysis is nil when it cannot be
// decoded at all.
func ExtractAnalysis(body []byte) (*AnalyzeResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrMalformedResponse)
	}
	analysis := gjson.GetBytes(body, "analysis")
	if !analysis.IsObject() {
		return nil, fmt.Errorf("%w: no analysis object", ErrMalformedResponse)
	}

	result := &AnalyzeResult{Body: body, AnalysisRaw: analysis.Raw}
	var decoded dto.AnalysisResult
	if err := json.Unmarshal([]byte(analysis.Raw), &decoded); err != nil {
		log.Printf("Warning: analysis does not decode: %v", err)
		return result, nil
	}
	if err := schemas.ValidateAnalysis(analysis.Raw); err != nil {
		log.Printf("Warning: analysis drifts from schema: %v", err)
	}
	result.Analysis = &decoded
	return result, nil
}

// ParseAnalysisBody is the strict form of ExtractAnalysis used before an
// analysis is stored or rendered: the object must pass the AnalysisResult
// schema and decode.
func ParseAnalysisBody(body []byte) (*AnalyzeResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrMalformedResponse)
	}
	analysis := gjson.GetBytes(body, "analysis")
	if !analysis.IsObject() {
		return nil, fmt.Errorf("%w: no analysis object", ErrMalformedResponse)
	}
	if err := schemas.ValidateAnalysis(analysis.Raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var result dto.AnalysisResult
	if err := json.Unmarshal([]byte(analysis.Raw), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &AnalyzeResult{
		Body:        body,
		AnalysisRaw: analysis.Raw,
		Analysis:    &result,
	}, nil
}

// errorMessage prefers a JSON {"error": ...} field and falls back to the
// body text, which is what the backend sends for unexpected failures.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error"); msg.Exists() {
			return msg.String()
		}
	}
	return truncate(strings.TrimSpace(string(body)), maxErrorBody)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func classifyTransportError(ctx context.Context, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}
}

// IsTimeout reports a timed out analysis, whether this client's own request
// expired or the proxy relayed a backend timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, ErrBackendTimeout) {
		return true
	}
	var be *BackendError
	if !errors.As(err, &be) {
		return false
	}
	return be.Reason == ReasonBackendTimeout || be.StatusCode == http.StatusGatewayTimeout
}

// IsUnavailable reports an analysis service that could not be reached,
// directly or behind the proxy.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrBackendUnreachable) {
		return true
	}
	var be *BackendError
	if !errors.As(err, &be) {
		return false
	}
	return be.Reason == ReasonBackendUnreachable ||
		(be.StatusCode == http.StatusServiceUnavailable && be.Reason != ReasonBackendTimeout)
}

// IsNotFound reports a backend that answered but had nothing to return.
func IsNotFound(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.StatusCode == http.StatusNotFound
}
