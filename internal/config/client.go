package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	DefaultProxyURL             = "http://localhost:3000/api/upload"
	DefaultProxyLastAnalysisURL = "http://localhost:3000/api/last-analysis"
)

// ClientConfig drives cvctl: where uploads go and where results are kept.
type ClientConfig struct {
	ProxyURL             string
	ProxyLastAnalysisURL string
	BackendURL           string
	BackendLastURL       string
	StorePath            string
	Timeout              time.Duration
}

var (
	clientConfig *ClientConfig
	clientOnce   sync.Once
)

func LoadClientConfig() *ClientConfig {
	clientOnce.Do(func() {
		clientConfig = newClientConfig()
	})
	return clientConfig
}

func newClientConfig() *ClientConfig {
	backend := newBackendConfig()
	return &ClientConfig{
		ProxyURL:             getEnv("CV_PROXY_URL", DefaultProxyURL),
		ProxyLastAnalysisURL: getEnv("CV_LAST_ANALYSIS_URL", DefaultProxyLastAnalysisURL),
		BackendURL:           backend.AnalyzeURL,
		BackendLastURL:       backend.LastAnalysisURL,
		StorePath:            getEnv("CV_STORE_PATH", defaultStorePath()),
		Timeout:              getEnvAsDuration("CV_UPLOAD_TIMEOUT", DefaultRequestTimeout),
	}
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "cv-feedback", "store.db")
}
