package usecase

import (
	"leafscan-backend/internal/history/domain"
	"leafscan-backend/pkg/classifier"
)

var healthyActions = []string{
	"Continue regular monitoring and maintain good orchard practices",
	"Maintain proper spacing between trees for air circulation",
	"Regular pruning to remove dead or diseased branches",
	"Monitor for early signs of disease during growing season",
}

var diseasedActions = []string{
	"Consult with a local agricultural extension office",
	"Consider appropriate fungicide treatment",
	"Remove and dispose of affected leaves properly",
	"Monitor surrounding trees for similar symptoms",
	"Improve air circulation around affected trees",
}

// Recommend returns care advice for a predicted label.
func Recommend(label string, confidence float64) domain.Recommendation {
	if label == classifier.LabelHealthy {
		return domain.Recommendation{
			Status:  "healthy",
			Actions: append([]string(nil), healthyActions...),
		}
	}
	c := confidence
	return domain.Recommendation{
		Status:     "diseased",
		Disease:    label,
		Confidence: &c,
		Actions:    append([]string(nil), diseasedActions...),
	}
}
