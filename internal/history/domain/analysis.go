package domain

import "time"

// Analysis is one stored prediction for a user
type Analysis struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string    `json:"user_id" gorm:"index;not null"`
	ImagePath       string    `json:"-"` // server-side path of the saved upload
	Result          string    `json:"result" gorm:"not null"`
	Confidence      float64   `json:"confidence"`
	Recommendations string    `json:"recommendations" gorm:"type:text"` // JSON encoded Recommendation
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Recommendation is the care advice attached to an analysis
type Recommendation struct {
	Status     string   `json:"status"` // "healthy" or "diseased"
	Disease    string   `json:"disease,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Actions    []string `json:"actions"`
}

// Stats summarizes a user's analyses
type Stats struct {
	TotalAnalyses     int         `json:"total_analyses"`
	HealthyCount      int         `json:"healthy_count"`
	DiseasedCount     int         `json:"diseased_count"`
	AvgConfidence     float64     `json:"avg_confidence"`
	MostCommonDisease *string     `json:"most_common_disease"`
	RecentAnalyses    []*Analysis `json:"recent_analyses"`
}

func (Analysis) TableName() string { return "analyses" }
