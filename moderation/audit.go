package moderation

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/reviewboard/models"
)

// AddLog appends one line to the audit trail. Blank entries are ignored.
func (s *Store) AddLog(ctx context.Context, entry, author string) {
	e := strings.TrimSpace(entry)
	if e == "" {
		return
	}

	s.storeWrite(ctx, "LOG", func(db *gorm.DB) error {
		return db.Create(&models.AuditLog{Entry: e, Author: author}).Error
	})

	s.mu.Lock()
	s.logs = append(s.logs, displayLog(author, e))
	s.mu.Unlock()
}

// Logs returns the full audit trail in insertion order. Reads go to the
// store so the caller always sees durable state; the in-memory copy is
// refreshed on the way and serves as the fallback.
func (s *Store) Logs(ctx context.Context) []string {
	var rows []models.AuditLog
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	if err := s.db.WithContext(tctx).Order("id ASC").Find(&rows).Error; err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return append([]string(nil), s.logs...)
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, displayLog(r.Author, r.Entry))
	}
	s.mu.Lock()
	s.logs = append([]string(nil), out...)
	s.mu.Unlock()
	return out
}
