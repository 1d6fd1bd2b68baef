package moderation

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/reviewboard/models"
)

// AddQuestionFeedback appends a private feedback entry to a question's
// ledger. Blank feedback is rejected; a blank author defaults to "anon".
func (s *Store) AddQuestionFeedback(ctx context.Context, questionID uint, feedback, author string) WriteStatus {
	fb := strings.TrimSpace(feedback)
	if questionID == 0 || fb == "" {
		return WriteStatus{Rejected: true}
	}
	auth := author
	if auth == "" {
		auth = "anon"
	}

	stored := s.storeWrite(ctx, "FEEDBACK Q", func(db *gorm.DB) error {
		return db.Create(&models.QuestionFeedback{QuestionID: questionID, Author: auth, Feedback: fb}).Error
	})

	s.mu.Lock()
	s.qFeedback[questionID] = append(s.qFeedback[questionID], auth+": "+fb)
	s.mu.Unlock()

	s.AddLog(ctx, fmt.Sprintf("FEEDBACK Q:%d -> %s", questionID, fb), auth)
	return WriteStatus{Stored: stored}
}

// AddAnswerFeedback appends a private feedback entry to an answer's ledger.
func (s *Store) AddAnswerFeedback(ctx context.Context, answerID uint, feedback, author string) WriteStatus {
	fb := strings.TrimSpace(feedback)
	if answerID == 0 || fb == "" {
		return WriteStatus{Rejected: true}
	}
	auth := author
	if auth == "" {
		auth = "anon"
	}

	stored := s.storeWrite(ctx, "FEEDBACK A", func(db *gorm.DB) error {
		return db.Create(&models.AnswerFeedback{AnswerID: answerID, Author: auth, Feedback: fb}).Error
	})

	s.mu.Lock()
	s.aFeedback[answerID] = append(s.aFeedback[answerID], auth+": "+fb)
	s.mu.Unlock()

	s.AddLog(ctx, fmt.Sprintf("FEEDBACK A:%d -> %s", answerID, fb), auth)
	return WriteStatus{Stored: stored}
}

// QuestionFeedbackFor returns the feedback ledger for a question. The read
// goes to the store for freshness and repairs the in-memory copy on the
// way; the mirror is the fallback when the store is unreachable.
func (s *Store) QuestionFeedbackFor(ctx context.Context, questionID uint) []string {
	var rows []models.QuestionFeedback
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	if err := s.db.WithContext(tctx).Where("question_id = ?", questionID).Order("id ASC").Find(&rows).Error; err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return append([]string(nil), s.qFeedback[questionID]...)
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, displayFeedback(r.Author, r.Feedback))
	}
	s.mu.Lock()
	s.qFeedback[questionID] = append([]string(nil), out...)
	s.mu.Unlock()
	return out
}

// AnswerFeedbackFor returns the feedback ledger for an answer, repairing
// the in-memory copy as a side effect.
func (s *Store) AnswerFeedbackFor(ctx context.Context, answerID uint) []string {
	var rows []models.AnswerFeedback
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	if err := s.db.WithContext(tctx).Where("answer_id = ?", answerID).Order("id ASC").Find(&rows).Error; err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return append([]string(nil), s.aFeedback[answerID]...)
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, displayFeedback(r.Author, r.Feedback))
	}
	s.mu.Lock()
	s.aFeedback[answerID] = append([]string(nil), out...)
	s.mu.Unlock()
	return out
}

// FlagQuestionFeedback flags one entry of a question's feedback ledger.
// The index is positional into the current ledger ordering.
func (s *Store) FlagQuestionFeedback(ctx context.Context, questionID uint, index int, note, author string) WriteStatus {
	return s.Flag(ctx, QuestionFeedbackRef(questionID, index), note, author)
}

// FlagAnswerFeedback flags one entry of an answer's feedback ledger.
func (s *Store) FlagAnswerFeedback(ctx context.Context, answerID uint, index int, note, author string) WriteStatus {
	return s.Flag(ctx, AnswerFeedbackRef(answerID, index), note, author)
}
