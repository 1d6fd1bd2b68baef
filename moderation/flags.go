package moderation

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/reviewboard/models"
)

const answerSnippetLen = 120

// Flag marks an item for review with an explanatory note. The marker upsert
// is idempotent; the note is appended to the item's history. Every call
// also places one generated task on the board, even for an already-flagged
// item, so repeat flags stay visible to staff.
func (s *Store) Flag(ctx context.Context, ref ItemRef, note, author string) WriteStatus {
	st := s.writeNote(ctx, ref, note, author, "FLAG")
	if st.Rejected {
		return st
	}
	s.AddTask(ctx, "Review flagged item "+s.flagSummary(ctx, ref)+" -> "+strings.TrimSpace(note))
	return st
}

// AddNote appends a follow-up note to an already-flagged item. Identical
// write path to Flag except no task is generated. The marker is upserted
// defensively in case the item was never flagged.
func (s *Store) AddNote(ctx context.Context, ref ItemRef, note, author string) WriteStatus {
	return s.writeNote(ctx, ref, note, author, "NOTE")
}

func (s *Store) writeNote(ctx context.Context, ref ItemRef, note, author, event string) WriteStatus {
	if !ref.Valid() || strings.TrimSpace(note) == "" {
		return WriteStatus{Rejected: true}
	}
	n := strings.TrimSpace(note)
	key := ref.String()

	stored := s.storeWrite(ctx, event+" "+key, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.FlaggedItem{ItemID: key}).Error; err != nil {
				return err
			}
			return tx.Create(&models.FlagNote{ItemID: key, Note: n, Author: author}).Error
		})
	})

	s.mu.Lock()
	s.flagged[key] = append(s.flagged[key], displayNote(author, n))
	s.mu.Unlock()

	s.AddLog(ctx, event+" "+key+" -> "+n, author)
	return WriteStatus{Stored: stored}
}

// Unflag removes the marker and the entire note history for an item.
// Reports whether the item was actually flagged.
func (s *Store) Unflag(ctx context.Context, ref ItemRef, author string) bool {
	if !ref.Valid() {
		return false
	}
	key := ref.String()

	s.storeWrite(ctx, "UNFLAG "+key, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("item_id = ?", key).Delete(&models.FlagNote{}).Error; err != nil {
				return err
			}
			return tx.Where("item_id = ?", key).Delete(&models.FlaggedItem{}).Error
		})
	})

	s.mu.Lock()
	_, present := s.flagged[key]
	delete(s.flagged, key)
	s.mu.Unlock()

	if !present {
		return false
	}
	s.AddLog(ctx, "UNFLAG "+key, author)
	return true
}

// IsFlagged reports whether the item is currently flagged. Mirror-only
// read, no store access.
func (s *Store) IsFlagged(ref ItemRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.flagged[ref.String()]
	return ok
}

// FlaggedItems returns a point-in-time copy of every flagged item and its
// note history.
func (s *Store) FlaggedItems() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]string, len(s.flagged))
	for k, v := range s.flagged {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// flagSummary derives the human-readable task description fragment for a
// flagged item: question title, truncated answer body, or the bare
// feedback reference.
func (s *Store) flagSummary(ctx context.Context, ref ItemRef) string {
	key := ref.String()
	switch ref.Kind {
	case RefQuestion:
		if q, err := s.GetQuestionByID(ctx, ref.OwnerID); err == nil && q != nil {
			return key + " - " + q.Title
		}
	case RefAnswer:
		if a, err := s.GetAnswerByID(ctx, ref.OwnerID); err == nil && a != nil {
			c := a.Content
			// truncate by runes so a multi-byte character is never split
			if r := []rune(c); len(r) > answerSnippetLen {
				c = string(r[:answerSnippetLen-3]) + "..."
			}
			return key + " - " + c
		}
	}
	return key
}
