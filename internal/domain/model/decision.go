package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Status is the lifecycle state of a decision or action item.
type Status string

// Decision statuses.
const (
	StatusPlanned    Status = "Planned"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
	StatusOverdue    Status = "Overdue"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPlanned, StatusInProgress, StatusDone, StatusOverdue}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Decision is an entry of the decision/action log.
type Decision struct {
	ID        string       `json:"id"`
	What      string       `json:"what"`
	Why       string       `json:"why"`
	Who       string       `json:"who"`
	Status    Status       `json:"status"`
	Due       *time.Time   `json:"due,omitempty"`
	Audit     []AuditEntry `json:"audit"`
	CreatedAt time.Time    `json:"created_at"`
}

// AuditEntry records one mutation of a decision.
type AuditEntry struct {
	At     time.Time `json:"at"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Detail string    `json:"detail,omitempty"`
}

// DecisionID returns the record key.
func DecisionID(d Decision) string { return d.ID }

// WithDecisionID returns a copy of d carrying id.
func WithDecisionID(d Decision, id string) Decision {
	d.ID = id
	return d
}

// Clone returns a copy that shares no slice or pointer storage with d.
func (d Decision) Clone() Decision {
	d.Audit = slices.Clone(d.Audit)
	if d.Due != nil {
		due := *d.Due
		d.Due = &due
	}
	return d
}

// WithAudit returns a copy of d with e appended to its audit trail.
func (d Decision) WithAudit(e AuditEntry) Decision {
	out := d.Clone()
	out.Audit = append(out.Audit, e)
	return out
}

// DecisionPatch carries the fields of a partial decision update.
type DecisionPatch struct {
	What   *string    `json:"what,omitempty"`
	Why    *string    `json:"why,omitempty"`
	Who    *string    `json:"who,omitempty"`
	Status *Status    `json:"status,omitempty"`
	Due    *time.Time `json:"due,omitempty"`
}

// Apply returns d merged with the set fields of p.
func (p DecisionPatch) Apply(d Decision) Decision {
	out := d.Clone()
	setIf(&out.What, p.What)
	setIf(&out.Why, p.Why)
	setIf(&out.Who, p.Who)
	setIf(&out.Status, p.Status)
	if p.Due != nil {
		due := *p.Due
		out.Due = &due
	}
	return out
}

// Changes describes the fields p would modify on d, for the audit trail.
func (p DecisionPatch) Changes(d Decision) string {
	var parts []string
	if p.What != nil && *p.What != d.What {
		parts = append(parts, "what")
	}
	if p.Why != nil && *p.Why != d.Why {
		parts = append(parts, "why")
	}
	if p.Who != nil && *p.Who != d.Who {
		parts = append(parts, "who")
	}
	if p.Status != nil && *p.Status != d.Status {
		parts = append(parts, fmt.Sprintf("status %s -> %s", d.Status, *p.Status))
	}
	if p.Due != nil && (d.Due == nil || !p.Due.Equal(*d.Due)) {
		parts = append(parts, "due")
	}
	return strings.Join(parts, ", ")
}
