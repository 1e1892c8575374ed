package config

import (
	"log"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	DefaultAnalyzeURL      = "http://localhost:5000/analyze"
	DefaultRequestTimeout  = 30 * time.Second
	lastAnalysisPathSuffix = "/last_analysis"
)

// BackendConfig locates the external analysis service the proxy forwards to.
type BackendConfig struct {
	AnalyzeURL      string
	LastAnalysisURL string
	Timeout         time.Duration
}

var (
	backendConfig *BackendConfig
	backendOnce   sync.Once
)

func LoadBackendConfig() *BackendConfig {
	backendOnce.Do(func() {
		backendConfig = newBackendConfig()
	})
	return backendConfig
}

func newBackendConfig() *BackendConfig {
	analyzeURL := getEnv("BACKEND_URL", DefaultAnalyzeURL)
	lastURL := os.Getenv("BACKEND_LAST_ANALYSIS_URL")
	if lastURL == "" {
		lastURL = LastAnalysisURLFor(analyzeURL)
	}
	return &BackendConfig{
		AnalyzeURL:      analyzeURL,
		LastAnalysisURL: lastURL,
		Timeout:         getEnvAsDuration("BACKEND_TIMEOUT", DefaultRequestTimeout),
	}
}

// LastAnalysisURLFor derives the backend's last-analysis endpoint from its
// analyze endpoint: http://host:5000/analyze -> http://host:5000/last_analysis.
// The last path segment is replaced; a bare host gets the suffix appended.
func LastAnalysisURLFor(analyzeURL string) string {
	u, err := url.Parse(analyzeURL)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(analyzeURL, "/") + lastAnalysisPathSuffix
	}
	p := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[:i]
	}
	u.Path = p + lastAnalysisPathSuffix
	u.RawPath = ""
	return u.String()
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
