package moderation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cppla/reviewboard/models"
)

// CreateQuestion inserts a question and returns its generated id.
func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) (uint, error) {
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	if err := s.db.WithContext(tctx).Create(q).Error; err != nil {
		return 0, s.wrapTxErr(tctx, err)
	}
	return q.ID, nil
}

// GetQuestionByID returns the question, or nil when it does not exist.
func (s *Store) GetQuestionByID(ctx context.Context, id uint) (*models.Question, error) {
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	var q models.Question
	err := s.db.WithContext(tctx).First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.wrapTxErr(tctx, err)
	}
	return &q, nil
}

// GetAllQuestions returns every question, newest first.
func (s *Store) GetAllQuestions(ctx context.Context) ([]models.Question, error) {
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	var out []models.Question
	if err := s.db.WithContext(tctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, s.wrapTxErr(tctx, err)
	}
	return out, nil
}

// UpdateQuestion persists title/content/category/answered changes. Reports
// whether a row was actually updated.
func (s *Store) UpdateQuestion(ctx context.Context, q *models.Question) (bool, error) {
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	res := s.db.WithContext(tctx).Model(&models.Question{}).Where("id = ?", q.ID).
		Select("title", "content", "category", "is_answered", "updated_at").
		Updates(map[string]interface{}{
			"title":       q.Title,
			"content":     q.Content,
			"category":    q.Category,
			"is_answered": q.IsAnswered,
		})
	if res.Error != nil {
		return false, s.wrapTxErr(tctx, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CreateAnswer inserts an answer and returns its generated id.
func (s *Store) CreateAnswer(ctx context.Context, a *models.Answer) (uint, error) {
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	if err := s.db.WithContext(tctx).Create(a).Error; err != nil {
		return 0, s.wrapTxErr(tctx, err)
	}
	return a.ID, nil
}

// GetAnswerByID returns the answer, or nil when it does not exist.
func (s *Store) GetAnswerByID(ctx context.Context, id uint) (*models.Answer, error) {
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	var a models.Answer
	err := s.db.WithContext(tctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.wrapTxErr(tctx, err)
	}
	return &a, nil
}

// GetAnswersForQuestion returns a question's answers, accepted first, then
// oldest first.
func (s *Store) GetAnswersForQuestion(ctx context.Context, questionID uint) ([]models.Answer, error) {
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	var out []models.Answer
	err := s.db.WithContext(tctx).Where("question_id = ?", questionID).
		Order("is_accepted DESC, created_at ASC").Find(&out).Error
	if err != nil {
		return nil, s.wrapTxErr(tctx, err)
	}
	return out, nil
}

// GetAllAnswers returns every answer, newest first.
func (s *Store) GetAllAnswers(ctx context.Context) ([]models.Answer, error) {
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	var out []models.Answer
	if err := s.db.WithContext(tctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, s.wrapTxErr(tctx, err)
	}
	return out, nil
}

// UpdateAnswer persists content/accepted changes. Reports whether a row was
// actually updated.
func (s *Store) UpdateAnswer(ctx context.Context, a *models.Answer) (bool, error) {
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	res := s.db.WithContext(tctx).Model(&models.Answer{}).Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"content":     a.Content,
			"is_accepted": a.IsAccepted,
		})
	if res.Error != nil {
		return false, s.wrapTxErr(tctx, res.Error)
	}
	return res.RowsAffected > 0, nil
}
