package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// MemoryAuditLogRepo append-only audit trail when DB is disabled.
type MemoryAuditLogRepo struct {
	mu      sync.RWMutex
	entries []domain.PlatformAuditLog
}

func NewMemoryAuditLogRepo() *MemoryAuditLogRepo {
	return &MemoryAuditLogRepo{}
}

var _ AuditLogRepository = (*MemoryAuditLogRepo)(nil)

func matchAudit(a domain.PlatformAuditLog, filter domain.AuditFilter) bool {
	if filter.TenantID != "" && a.TenantID != filter.TenantID {
		return false
	}
	if filter.UserID != "" && a.UserID != filter.UserID {
		return false
	}
	return true
}

func (r *MemoryAuditLogRepo) AppendAuditLog(_ context.Context, in *domain.PlatformAuditLog) (*domain.PlatformAuditLog, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a := *in
	a.ID = uuid.NewString()
	a.CreatedAt = nowUTC()
	a.Metadata = append(json.RawMessage(nil), in.Metadata...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, a)
	return &a, nil
}

func (r *MemoryAuditLogRepo) ListAuditLogs(_ context.Context, filter domain.AuditFilter, skip, limit int) ([]*domain.PlatformAuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := []domain.PlatformAuditLog{}
	for i := len(r.entries) - 1; i >= 0; i-- {
		if matchAudit(r.entries[i], filter) {
			all = append(all, r.entries[i])
		}
	}
	matched := page(all, skip, limit)
	out := make([]*domain.PlatformAuditLog, 0, len(matched))
	for i := range matched {
		a := matched[i]
		out = append(out, &a)
	}
	return out, nil
}

func (r *MemoryAuditLogRepo) CountAuditLogs(_ context.Context, filter domain.AuditFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, a := range r.entries {
		if matchAudit(a, filter) {
			n++
		}
	}
	return n, nil
}
