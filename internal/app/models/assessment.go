package models

import "time"

// AssessmentStatus defines the state of a skill-will assessment
type AssessmentStatus string

const (
	AssessmentPending    AssessmentStatus = "PENDING"
	AssessmentInProgress AssessmentStatus = "IN_PROGRESS"
	AssessmentCompleted  AssessmentStatus = "COMPLETED"
)

// AssessmentCategory is the quadrant classification produced on completion
type AssessmentCategory string

const (
	CategoryHighSkillHighWill AssessmentCategory = "HIGH_SKILL_HIGH_WILL"
	CategoryHighSkillLowWill  AssessmentCategory = "HIGH_SKILL_LOW_WILL"
	CategoryLowSkillHighWill  AssessmentCategory = "LOW_SKILL_HIGH_WILL"
	CategoryLowSkillLowWill   AssessmentCategory = "LOW_SKILL_LOW_WILL"
)

// Assessment is a five-question skill-will intake form per member.
// At most one active (pending or in-progress) assessment exists per member.
// COMPLETED is terminal and produces the category classification plus a
// recommended vertical from the member's chapter.
type Assessment struct {
	ID                    int64               `json:"id" db:"id"`
	MemberID              int64               `json:"memberId" db:"member_id"`
	ChapterID             int64               `json:"chapterId" db:"chapter_id"`
	Status                AssessmentStatus    `json:"status" db:"status"`
	Answer1               *int                `json:"answer1,omitempty" db:"answer_1"`
	Answer2               *int                `json:"answer2,omitempty" db:"answer_2"`
	Answer3               *int                `json:"answer3,omitempty" db:"answer_3"`
	Answer4               *int                `json:"answer4,omitempty" db:"answer_4"`
	Answer5               *int                `json:"answer5,omitempty" db:"answer_5"`
	SkillScore            *float64            `json:"skillScore,omitempty" db:"skill_score"`
	WillScore             *float64            `json:"willScore,omitempty" db:"will_score"`
	Category              *AssessmentCategory `json:"category,omitempty" db:"category"`
	RecommendedVerticalID *int64              `json:"recommendedVerticalId,omitempty" db:"recommended_vertical_id"`
	CreatedAt             time.Time           `json:"createdAt" db:"created_at"`
	CompletedAt           *time.Time          `json:"completedAt,omitempty" db:"completed_at"`
}

// Answers returns the five answers in order.
func (a *Assessment) Answers() []*int {
	return []*int{a.Answer1, a.Answer2, a.Answer3, a.Answer4, a.Answer5}
}

// AllAnswered reports whether all five questions have been answered.
func (a *Assessment) AllAnswered() bool {
	for _, ans := range a.Answers() {
		if ans == nil {
			return false
		}
	}
	return true
}
