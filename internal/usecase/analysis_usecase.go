package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fadilmartias/cv-feedback/internal/dto"
	"github.com/fadilmartias/cv-feedback/internal/model"
	"github.com/fadilmartias/cv-feedback/internal/response"
	"github.com/fadilmartias/cv-feedback/internal/service"
	"github.com/fadilmartias/cv-feedback/internal/util"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrHistoryDisabled = errors.New("analysis history is not configured")
	ErrNoAnalysis      = errors.New("no analysis available")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AnalysisStore is the slice of the analysis repository the usecase needs.
type AnalysisStore interface {
	CreateAnalysis(analysis *model.Analysis) error
	FindLatest() (*model.Analysis, error)
	FindAnalysisByID(id string) (*model.Analysis, error)
	ListAnalyses(page, pageSize int) ([]model.Analysis, int64, error)
}

type AnalysisUsecase struct {
	analyzer     service.AnalyzerServiceInterface
	analysisRepo AnalysisStore
}

// NewAnalysisUsecase wires the proxy. analysisRepo may be nil, in which case
// nothing is recorded and last-analysis lookups go to the backend.
func NewAnalysisUsecase(analyzer service.AnalyzerServiceInterface, analysisRepo AnalysisStore) *AnalysisUsecase {
	return &AnalysisUsecase{analyzer: analyzer, analysisRepo: analysisRepo}
}

// Analyze validates and forwards one upload. Backend failures are returned
// as they are; the proxy never substitutes made-up feedback.
func (uc *AnalysisUsecase) Analyze(ctx context.Context, req *dto.UploadRequest) (*service.AnalyzeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.ContentType = util.ResolveContentType(req.ContentType, req.Content)
	if err := util.ValidateFile(req.FileName, req.ContentType, req.Size()); err != nil {
		return nil, err
	}

	result, err := uc.analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if uc.analysisRepo != nil {
		if err := uc.record(req, result); err != nil {
			log.Printf("Warning: could not record analysis of %s: %v", req.FileName, err)
		}
	}
	return result, nil
}

func (uc *AnalysisUsecase) record(req *dto.UploadRequest, result *service.AnalyzeResult) error {
	now := time.Now()
	analysis := &model.Analysis{
		ID:             uuid.New(),
		FileName:       req.FileName,
		Language:       req.Language,
		JobDescription: req.JobDescription,
		Result:         result.AnalysisRaw,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if result.Analysis != nil {
		analysis.AtsScore = result.Analysis.AtsScore
		analysis.JobMatchScore = result.Analysis.JobMatchScore
	}
	return uc.analysisRepo.CreateAnalysis(analysis)
}

// LastAnalysis serves the newest recorded analysis, or asks the backend
// when there is no history.
func (uc *AnalysisUsecase) LastAnalysis(ctx context.Context) (*service.AnalyzeResult, error) {
	if uc.analysisRepo != nil {
		latest, err := uc.analysisRepo.FindLatest()
		switch {
		case err == nil:
			return service.ExtractAnalysis([]byte(`{"analysis":` + latest.Result + `}`))
		case !errors.Is(err, gorm.ErrRecordNotFound):
			log.Printf("Warning: could not read analysis history: %v", err)
		}
	}

	result, err := uc.analyzer.LastAnalysis(ctx)
	if service.IsNotFound(err) {
		return nil, ErrNoAnalysis
	}
	return result, err
}

// AnalysisByID returns one recorded analysis. Unknown and malformed ids are
// both reported as ErrNoAnalysis.
func (uc *AnalysisUsecase) AnalysisByID(id string) (*service.AnalyzeResult, error) {
	if uc.analysisRepo == nil {
		return nil, ErrHistoryDisabled
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNoAnalysis
	}
	analysis, err := uc.analysisRepo.FindAnalysisByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoAnalysis
	}
	if err != nil {
		return nil, fmt.Errorf("find analysis %s: %w", id, err)
	}
	return service.ExtractAnalysis([]byte(`{"analysis":` + analysis.Result + `}`))
}

func (uc *AnalysisUsecase) History(page, pageSize int) ([]dto.AnalysisRecordDTO, *response.Pagination, error) {
	if uc.analysisRepo == nil {
		return nil, nil, ErrHistoryDisabled
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	analyses, total, err := uc.analysisRepo.ListAnalyses(page, pageSize)
	if err != nil {
		return nil, nil, fmt.Errorf("list analyses: %w", err)
	}

	records := make([]dto.AnalysisRecordDTO, 0, len(analyses))
	for _, a := range analyses {
		records = append(records, dto.AnalysisRecordDTO{
			ID:            a.ID,
			FileName:      a.FileName,
			Language:      a.Language,
			HasJobDesc:    a.JobDescription != "",
			AtsScore:      a.AtsScore,
			JobMatchScore: a.JobMatchScore,
			CreatedAt:     a.CreatedAt,
			UpdatedAt:     a.UpdatedAt,
		})
	}
	return records, response.NewPagination(page, pageSize, len(records), total), nil
}
