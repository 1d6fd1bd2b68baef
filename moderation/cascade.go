package moderation

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/reviewboard/models"
)

// DeleteQuestion removes a question together with every dependent record:
// its answers, all flag markers and notes on the question, its answers and
// their feedback entries, and both feedback ledgers. The whole purge runs
// in one transaction; any failure rolls everything back. Reports whether
// the question row was actually removed.
func (s *Store) DeleteQuestion(ctx context.Context, id uint) (bool, error) {
	tctx, cancel := s.txContext(ctx)
	defer cancel()

	var removed int64
	var answerIDs []uint
	err := s.db.WithContext(tctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", id).
			Pluck("id", &answerIDs).Error; err != nil {
			return err
		}
		for _, aid := range answerIDs {
			if err := purgeAnswerDependents(tx, aid); err != nil {
				return err
			}
		}
		if err := purgeFlagRecords(tx, QuestionRef(id).String()); err != nil {
			return err
		}
		if err := purgeFlagRecordsByPrefix(tx, fmt.Sprintf("FB:%d:", id)); err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionFeedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Question{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		if s.beforeCommit != nil {
			return s.beforeCommit(tx)
		}
		return nil
	})
	if err != nil {
		return false, s.wrapTxErr(tctx, err)
	}
	if removed == 0 {
		return false, nil
	}

	prefixes := []string{fmt.Sprintf("FB:%d:", id)}
	exact := []string{QuestionRef(id).String()}
	for _, aid := range answerIDs {
		exact = append(exact, AnswerRef(aid).String())
		prefixes = append(prefixes, fmt.Sprintf("FB:A:%d:", aid))
	}
	s.purgeMirror(exact, prefixes, id, answerIDs)
	return true, nil
}

// DeleteAnswer removes a single answer with its flag markers, notes and
// feedback entries in one transaction.
func (s *Store) DeleteAnswer(ctx context.Context, id uint) (bool, error) {
	tctx, cancel := s.txContext(ctx)
	defer cancel()

	var removed int64
	err := s.db.WithContext(tctx).Transaction(func(tx *gorm.DB) error {
		if err := purgeAnswerDependents(tx, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Answer{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		if s.beforeCommit != nil {
			return s.beforeCommit(tx)
		}
		return nil
	})
	if err != nil {
		return false, s.wrapTxErr(tctx, err)
	}
	if removed == 0 {
		return false, nil
	}

	s.purgeMirror(
		[]string{AnswerRef(id).String()},
		[]string{fmt.Sprintf("FB:A:%d:", id)},
		0, []uint{id},
	)
	return true, nil
}

// purgeAnswerDependents deletes an answer's flag markers, flag notes and
// feedback rows inside the surrounding transaction.
func purgeAnswerDependents(tx *gorm.DB, answerID uint) error {
	if err := purgeFlagRecords(tx, AnswerRef(answerID).String()); err != nil {
		return err
	}
	if err := purgeFlagRecordsByPrefix(tx, fmt.Sprintf("FB:A:%d:", answerID)); err != nil {
		return err
	}
	return tx.Where("answer_id = ?", answerID).Delete(&models.AnswerFeedback{}).Error
}

func purgeFlagRecords(tx *gorm.DB, itemID string) error {
	if err := tx.Where("item_id = ?", itemID).Delete(&models.FlagNote{}).Error; err != nil {
		return err
	}
	return tx.Where("item_id = ?", itemID).Delete(&models.FlaggedItem{}).Error
}

func purgeFlagRecordsByPrefix(tx *gorm.DB, prefix string) error {
	pattern := prefix + "%"
	if err := tx.Where("item_id LIKE ?", pattern).Delete(&models.FlagNote{}).Error; err != nil {
		return err
	}
	return tx.Where("item_id LIKE ?", pattern).Delete(&models.FlaggedItem{}).Error
}

// purgeMirror drops flag-cache entries and feedback mirrors for the deleted
// entities. Called only after the transaction commits, so a failed delete
// leaves store and mirror both untouched.
func (s *Store) purgeMirror(exact, prefixes []string, questionID uint, answerIDs []uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range exact {
		delete(s.flagged, k)
	}
	for key := range s.flagged {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				delete(s.flagged, key)
				break
			}
		}
	}
	if questionID != 0 {
		delete(s.qFeedback, questionID)
	}
	for _, aid := range answerIDs {
		delete(s.aFeedback, aid)
	}
}
