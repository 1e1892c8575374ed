package repository

import (
	"github.com/fadilmartias/cv-feedback/internal/model"
	"gorm.io/gorm"
)

type AnalysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db}
}

func (r *AnalysisRepository) CreateAnalysis(analysis *model.Analysis) error {
	return r.db.Create(analysis).Error
}

// FindLatest returns the most recently recorded analysis.
func (r *AnalysisRepository) FindLatest() (*model.Analysis, error) {
	var a model.Analysis
	err := r.db.Order("created_at DESC").First(&a).Error
	return &a, err
}

func (r *AnalysisRepository) FindAnalysisByID(id string) (*model.Analysis, error) {
	var a model.Analysis
	err := r.db.First(&a, "id = ?", id).Error
	return &a, err
}

// ListAnalyses returns one page of history, newest first, and the total row count.
func (r *AnalysisRepository) ListAnalyses(page, pageSize int) ([]model.Analysis, int64, error) {
	var (
		analyses []model.Analysis
		total    int64
	)
	if err := r.db.Model(&model.Analysis{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&analyses).Error
	return analyses, total, err
}
