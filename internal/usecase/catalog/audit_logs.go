package catalog

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	DefaultAuditPageSize = 50
	MaxAuditPageSize     = 200
)

type AuditQuery struct {
	Action string
	Entity string
	From   time.Time
	To     time.Time
	Page   int
	Limit  int
}

type AuditPage struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Logs  []models.AuditLog `json:"logs"`
}

type AuditLogs struct {
	deps Deps
}

func NewAuditLogs(deps Deps) *AuditLogs {
	return &AuditLogs{deps: deps.withDefaults()}
}

// List pages through the audit trail, newest first. Out-of-range page and
// limit values fall back to the defaults.
func (uc *AuditLogs) List(ctx context.Context, q AuditQuery) (*AuditPage, error) {
	page := q.Page
	if page <= 0 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 || limit > MaxAuditPageSize {
		limit = DefaultAuditPageSize
	}

	filter := domain.AuditFilter{
		Action: q.Action,
		Entity: q.Entity,
		From:   q.From,
		To:     q.To,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	logs, total, err := uc.deps.Repo.ListAuditLogs(ctx, filter)
	if err != nil {
		return nil, repoErr(err, "audit_not_found", "")
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return &AuditPage{Page: page, Limit: limit, Total: total, Logs: logs}, nil
}
