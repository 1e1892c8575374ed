package model

import (
	"time"

	"github.com/google/uuid"
)

type Analysis struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FileName       string    `gorm:"type:text" json:"file_name"`
	Language       string    `gorm:"type:varchar(2);index" json:"language"` // "en" or "tr"
	JobDescription string    `gorm:"type:text" json:"job_description"`
	AtsScore       float64   `gorm:"type:float" json:"ats_score"`
	JobMatchScore  *float64  `gorm:"type:float" json:"job_match_score"`
	Result         string    `gorm:"type:jsonb" json:"result"` // raw analysis object as returned by the backend
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (a *Analysis) TableName() string {
	return "analyses"
}
