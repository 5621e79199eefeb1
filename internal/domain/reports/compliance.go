package reports

import (
	"time"

	"github.com/courtevo/vero/internal/domain/derive"
	"github.com/courtevo/vero/internal/domain/model"
)

// ComplianceReport summarises the decision log.
type ComplianceReport struct {
	Total          int                  `json:"total"`
	ByStatus       map[model.Status]int `json:"by_status"`
	PercentDone    float64              `json:"percent_done"`
	PercentOverdue float64              `json:"percent_overdue"`
}

// EffectiveStatus reports an unfinished decision whose due date has passed as Overdue.
func EffectiveStatus(d model.Decision, now time.Time) model.Status {
	if d.Status != model.StatusDone && d.Due != nil && d.Due.Before(now) {
		return model.StatusOverdue
	}
	return d.Status
}

// Compliance counts decisions per effective status at now.
func Compliance(decisions []model.Decision, now time.Time) ComplianceReport {
	out := ComplianceReport{
		Total:    len(decisions),
		ByStatus: make(map[model.Status]int, len(model.Statuses)),
	}
	for _, st := range model.Statuses {
		out.ByStatus[st] = 0
	}
	for _, d := range decisions {
		out.ByStatus[EffectiveStatus(d, now)]++
	}
	total := float64(out.Total)
	out.PercentDone = derive.Round(derive.Percent(float64(out.ByStatus[model.StatusDone]), total), 1)
	out.PercentOverdue = derive.Round(derive.Percent(float64(out.ByStatus[model.StatusOverdue]), total), 1)
	return out
}
