package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"leafscan-backend/internal/history/domain"
	"leafscan-backend/pkg/apperr"
)

var exportHeader = []string{"Date", "Time", "Result", "Confidence (%)", "Status", "Recommendations"}

func (u *historyUsecase) ExportCSV(ctx context.Context, userID string, w io.Writer) error {
	items, err := u.repo.FindByUserID(ctx, userID, 0)
	if err != nil {
		return apperr.Internal(err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return apperr.Internal(err)
	}
	for _, a := range items {
		if err := cw.Write(exportRow(a)); err != nil {
			return apperr.Internal(err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func exportRow(a *domain.Analysis) []string {
	status, actions := "unknown", "No recommendations"
	var rec domain.Recommendation
	if a.Recommendations != "" && json.Unmarshal([]byte(a.Recommendations), &rec) == nil {
		if rec.Status != "" {
			status = rec.Status
		}
		if len(rec.Actions) > 0 {
			actions = strings.Join(rec.Actions, "; ")
		}
	}

	created := a.CreatedAt.UTC()
	return []string{
		created.Format("2006-01-02"),
		created.Format("15:04:05"),
		a.Result,
		strconv.FormatFloat(a.Confidence*100, 'f', 1, 64),
		status,
		actions,
	}
}
