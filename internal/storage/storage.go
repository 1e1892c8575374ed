// Package storage declares the client's persisted key-value state: the last
// analysis received and the interface language.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadilmartias/cv-feedback/internal/service"
)

const (
	// KeyAnalysisResult holds the serialized {"analysis": {...}} envelope.
	KeyAnalysisResult = "cvAnalysisResult"
	KeyLanguage       = "language"
)

// Store is a small string key-value store that survives between runs.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var (
	ErrNoResult        = errors.New("no stored analysis result")
	ErrMalformedResult = errors.New("stored analysis result is malformed")
)

// Results guards the stored analysis. The uploader is its only writer and
// the results view its only reader.
type Results struct {
	store Store
}

func NewResults(store Store) *Results {
	return &Results{store: store}
}

// Save replaces the stored analysis with analysisRaw, the exact bytes of the
// backend's "analysis" object.
func (r *Results) Save(ctx context.Context, analysisRaw string) error {
	if _, err := service.ParseAnalysisBody(envelope(analysisRaw)); err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	if err := r.store.Set(ctx, KeyAnalysisResult, string(envelope(analysisRaw))); err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	return nil
}

// Load returns the stored analysis. ErrNoResult means nothing was ever
// saved; ErrMalformedResult means the stored value cannot be decoded.
func (r *Results) Load(ctx context.Context) (*service.AnalyzeResult, error) {
	raw, ok, err := r.store.Get(ctx, KeyAnalysisResult)
	if err != nil {
		return nil, fmt.Errorf("load analysis result: %w", err)
	}
	if !ok || raw == "" {
		return nil, ErrNoResult
	}
	result, err := service.ParseAnalysisBody([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	return result, nil
}

func (r *Results) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, KeyAnalysisResult)
}

func envelope(analysisRaw string) []byte {
	return []byte(`{"analysis":` + analysisRaw + `}`)
}
