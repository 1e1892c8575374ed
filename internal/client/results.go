package client

import (
	"context"
	"errors"
	"log"

	"github.com/fadilmartias/cv-feedback/internal/dto"
	"github.com/fadilmartias/cv-feedback/internal/i18n"
	"github.com/fadilmartias/cv-feedback/internal/service"
	"github.com/fadilmartias/cv-feedback/internal/storage"
)

type ViewState string

const (
	ViewLoading ViewState = "loading"
	ViewLoaded  ViewState = "loaded"
	ViewFailed  ViewState = "error"
)

// Source tells where a displayed analysis came from.
type Source string

const (
	SourceStored   Source = "stored"
	SourceFallback Source = "fallback"
	SourceMock     Source = "mock"
)

type View struct {
	Analysis *dto.AnalysisResult
	Source   Source
}

// ViewError is a load failure with its localized message.
type ViewError struct {
	Message string
	Err     error
}

func (e *ViewError) Error() string { return e.Message }

func (e *ViewError) Unwrap() error { return e.Err }

// ResultsView reads the stored analysis. It never writes to storage.
type ResultsView struct {
	results  *storage.Results
	fallback service.AnalyzerServiceInterface
	lang     *i18n.Store
	devMock  bool

	OnState func(ViewState)
}

// NewResultsView asks fallback for the last analysis when nothing usable is
// stored; fallback may be nil. devMock substitutes placeholder feedback for
// the error and must only be enabled in development.
func NewResultsView(results *storage.Results, fallback service.AnalyzerServiceInterface, lang *i18n.Store, devMock bool) *ResultsView {
	return &ResultsView{
		results:  results,
		fallback: fallback,
		lang:     lang,
		devMock:  devMock,
	}
}

func (v *ResultsView) Load(ctx context.Context) (*View, error) {
	v.setState(ViewLoading)

	stored, err := v.results.Load(ctx)
	if err == nil {
		v.setState(ViewLoaded)
		return &View{Analysis: stored.Analysis, Source: SourceStored}, nil
	}

	msg := v.lang.T(i18n.DataError)
	if errors.Is(err, storage.ErrNoResult) {
		msg = v.lang.T(i18n.NoResults)
	} else {
		log.Printf("Stored analysis unusable: %v", err)
	}

	if v.fallback != nil {
		last, ferr := v.fallback.LastAnalysis(ctx)
		if ferr == nil {
			last, ferr = service.ParseAnalysisBody(last.Body)
		}
		if ferr == nil {
			v.setState(ViewLoaded)
			return &View{Analysis: last.Analysis, Source: SourceFallback}, nil
		}
		log.Printf("Last analysis lookup failed: %v", ferr)
		err = errors.Join(err, ferr)
	}

	if v.devMock {
		v.setState(ViewLoaded)
		mock := service.MockAnalysis(string(v.lang.Language()), service.RandomAtsScore())
		return &View{Analysis: mock, Source: SourceMock}, nil
	}

	v.setState(ViewFailed)
	return nil, &ViewError{Message: msg, Err: err}
}

// Retry runs the load sequence again.
func (v *ResultsView) Retry(ctx context.Context) (*View, error) {
	return v.Load(ctx)
}

func (v *ResultsView) setState(s ViewState) {
	if v.OnState != nil {
		v.OnState(s)
	}
}
