package dto

import (
	"time"

	"github.com/yiconnect/backend/internal/app/models"
)

// SubmitAnswerRequest records the answer to one assessment question
type SubmitAnswerRequest struct {
	Question int `json:"question" binding:"required,min=1,max=5"`
	Answer   int `json:"answer" binding:"required,min=1,max=5"`
}

// AssessmentResponse represents assessment information
type AssessmentResponse struct {
	ID                    int64                      `json:"id"`
	MemberID              int64                      `json:"memberId"`
	ChapterID             int64                      `json:"chapterId"`
	Status                models.AssessmentStatus    `json:"status"`
	SkillScore            *float64                   `json:"skillScore,omitempty"`
	WillScore             *float64                   `json:"willScore,omitempty"`
	Category              *models.AssessmentCategory `json:"category,omitempty"`
	RecommendedVerticalID *int64                     `json:"recommendedVerticalId,omitempty"`
	CreatedAt             time.Time                  `json:"createdAt"`
	CompletedAt           *time.Time                 `json:"completedAt,omitempty"`
}

// NewAssessmentResponse maps an assessment model to its response DTO
func NewAssessmentResponse(a *models.Assessment) AssessmentResponse {
	return AssessmentResponse{
		ID:                    a.ID,
		MemberID:              a.MemberID,
		ChapterID:             a.ChapterID,
		Status:                a.Status,
		SkillScore:            a.SkillScore,
		WillScore:             a.WillScore,
		Category:              a.Category,
		RecommendedVerticalID: a.RecommendedVerticalID,
		CreatedAt:             a.CreatedAt,
		CompletedAt:           a.CompletedAt,
	}
}
